package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/nimbus/client/internal/domain"
	"github.com/nimbus/client/pkg/utils"
)

// LoadingText is shown while a request is pending
const LoadingText = "Analyzing..."

// hourlyLayout is how the backend stamps hourly plan entries (UTC)
const hourlyLayout = "2006-01-02 15:04:05"

// Tone colours a recommendation
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneGood    Tone = "good"
	ToneCaution Tone = "caution"
	ToneBad     Tone = "bad"
)

// Metric is one labelled result box
type Metric struct {
	Key       string
	Title     string
	Value     string
	Highlight bool
}

// HourlyRow is one line of the activity planner
type HourlyRow struct {
	Time           string
	Recommendation string
	Tone           Tone
}

// RankingRow is one city of the location scout
type RankingRow struct {
	Position       int
	City           string
	Recommendation string
	HasData        bool
	TopPick        bool
	Tone           Tone
}

// ResultView is the display model of a RequestState
type ResultView struct {
	Phase          domain.Phase
	Loading        bool
	LoadingText    string
	Error          string
	City           string
	Recommendation string
	Metrics        []Metric
	HourlyPlan     []HourlyRow
	Ranking        []RankingRow
}

// HasResult reports whether a payload is being shown
func (v ResultView) HasResult() bool {
	return v.Phase == domain.PhaseSucceeded
}

// BuildResultView maps a state to its display model. It has no side effects;
// the same state and location always give the same view.
func BuildResultView(state domain.RequestState, loc *time.Location) ResultView {
	view := ResultView{Phase: state.Phase}

	switch state.Phase {
	case domain.PhasePending:
		view.Loading = true
		view.LoadingText = LoadingText
	case domain.PhaseFailed:
		view.Error = state.Message
	case domain.PhaseSucceeded:
		if state.Payload != nil {
			fillPayload(&view, *state.Payload, loc)
		}
	}

	return view
}

func fillPayload(view *ResultView, p domain.PredictionPayload, loc *time.Location) {
	view.City = p.City
	view.Recommendation = p.ActivityRecommendation

	addText := func(key, title, value string, highlight bool) {
		if value != "" {
			view.Metrics = append(view.Metrics, Metric{Key: key, Title: title, Value: value, Highlight: highlight})
		}
	}
	addNumber := func(key, title string, value *float64, places int, unit string) {
		if value != nil {
			view.Metrics = append(view.Metrics, Metric{Key: key, Title: title, Value: utils.FormatFixed(*value, places) + unit})
		}
	}

	addText("intensity", "Intensity", p.IntensityTag, false)
	addText("impact", "Impact Index", p.ImpactIndex, false)
	addText("confidence", "ML Confidence Score", p.MLPredictionText, true)
	addNumber("rain", "Forecasted Rain", p.ForecastAmountMM, 2, " mm")
	addNumber("temperature", "Forecasted Temp", p.ForecastTemp, 1, "°C")
	addNumber("feels_like", "Feels Like", p.FeelsLike, 1, "°C")
	addNumber("humidity", "Humidity", p.Humidity, 0, "%")
	addNumber("wind", "Wind Speed", p.WindSpeed, 1, " m/s")
	if p.PrecipProbability != nil {
		view.Metrics = append(view.Metrics, Metric{
			Key:   "pop",
			Title: "Chance of Rain",
			Value: strconv.Itoa(utils.Percent(*p.PrecipProbability)) + "%",
		})
	}

	for _, entry := range p.HourlyPlan {
		view.HourlyPlan = append(view.HourlyPlan, HourlyRow{
			Time:           hourlyTime(entry.Time, loc),
			Recommendation: entry.Recommendation,
			Tone:           toneOf(entry.Recommendation),
		})
	}

	for i, rank := range p.LocationRanking {
		row := RankingRow{
			Position: i + 1,
			City:     rank.City,
			HasData:  rank.Analyzed(),
			TopPick:  i == 0,
			Tone:     ToneBad,
		}
		if row.HasData {
			row.Recommendation = rank.Recommendation
			row.Tone = scoreTone(rank.Score)
		} else {
			row.Recommendation = "No Data"
		}
		view.Ranking = append(view.Ranking, row)
	}
}

func hourlyTime(raw string, loc *time.Location) string {
	t, err := time.ParseInLocation(hourlyLayout, raw, time.UTC)
	if err != nil {
		return raw
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("03:04 PM")
}

func toneOf(recommendation string) Tone {
	lower := strings.ToLower(recommendation)
	switch {
	case strings.Contains(lower, "great"), strings.Contains(lower, "perfect"):
		return ToneGood
	case strings.Contains(lower, "bad"), strings.Contains(lower, "don't"):
		return ToneBad
	}
	return ToneNeutral
}

// scoreTone maps a location score (2 best, 0 worst) to its colour
func scoreTone(score float64) Tone {
	switch score {
	case 2:
		return ToneGood
	case 1:
		return ToneCaution
	case 0:
		return ToneBad
	}
	return ToneNeutral
}
