package domain

// Activity is an outdoor activity the forecast is evaluated against
type Activity string

const (
	ActivityRun         Activity = "run"
	ActivityHangLaundry Activity = "hang_laundry"
	ActivityPicnic      Activity = "picnic"
	ActivityBikeCommute Activity = "bike_commute"
)

// Activities lists every supported activity in display order
var Activities = []Activity{
	ActivityRun,
	ActivityHangLaundry,
	ActivityPicnic,
	ActivityBikeCommute,
}

var activityLabels = map[Activity]string{
	ActivityRun:         "Go for a run",
	ActivityHangLaundry: "Hang laundry outside",
	ActivityPicnic:      "Plan a picnic",
	ActivityBikeCommute: "Commute by bike",
}

// Label returns the human-readable option text
func (a Activity) Label() string {
	if label, ok := activityLabels[a]; ok {
		return label
	}
	return string(a)
}

// Valid reports whether a is one of the known activities
func (a Activity) Valid() bool {
	_, ok := activityLabels[a]
	return ok
}
