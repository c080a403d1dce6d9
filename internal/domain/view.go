package domain

// View identifies which top-level screen a session shows
type View int

const (
	ViewWelcome View = iota
	ViewForecast
)

// String returns the view name used in templates and the JSON API
func (v View) String() string {
	switch v {
	case ViewForecast:
		return "forecast"
	default:
		return "welcome"
	}
}

// MarshalText implements encoding.TextMarshaler
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
