package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// HourlyPlanEntry is one block of the activity planner
type HourlyPlanEntry struct {
	Time           string `json:"time"`
	Recommendation string `json:"recommendation"`
}

// LocationRank scores one nearby city for the chosen activity
type LocationRank struct {
	City           string  `json:"city"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation"`
	Status         string  `json:"status"`
}

// LocationStatusAnalyzed marks a ranking entry backed by forecast data
const LocationStatusAnalyzed = "Analyzed"

// Analyzed reports whether the backend had data for this city
func (r LocationRank) Analyzed() bool {
	return r.Status == LocationStatusAnalyzed
}

// PredictionPayload is the backend's success body. Every field is optional;
// numeric fields are pointers so that absent and zero stay distinct.
type PredictionPayload struct {
	ID                     *int64            `json:"id,omitempty"`
	City                   string            `json:"city,omitempty"`
	Timestamp              string            `json:"timestamp,omitempty"`
	IntensityTag           string            `json:"intensity_tag,omitempty"`
	ImpactIndex            string            `json:"impact_index,omitempty"`
	MLPredictionText       string            `json:"ml_prediction_text,omitempty"`
	ActivityRecommendation string            `json:"activity_recommendation,omitempty"`
	ForecastAmountMM       *float64          `json:"api_forecast_amount_mm,omitempty"`
	ForecastTemp           *float64          `json:"api_forecast_temp,omitempty"`
	FeelsLike              *float64          `json:"api_feels_like,omitempty"`
	Humidity               *float64          `json:"api_humidity,omitempty"`
	WindSpeed              *float64          `json:"api_wind_speed,omitempty"`
	PrecipProbability      *float64          `json:"api_pop,omitempty"`
	HourlyPlan             []HourlyPlanEntry `json:"hourly_plan,omitempty"`
	LocationRanking        []LocationRank    `json:"location_ranking,omitempty"`

	// Raw is the response body exactly as received
	Raw json.RawMessage `json:"-"`
}

type payloadFields PredictionPayload

// UnmarshalJSON decodes the known fields and keeps the original bytes. A
// field of the wrong type is treated as absent rather than failing the
// whole payload.
func (p *PredictionPayload) UnmarshalJSON(data []byte) error {
	fields, err := decodeLenient(data)
	if err != nil {
		return err
	}
	*p = PredictionPayload(fields)
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON echoes the verbatim body when one was received
func (p PredictionPayload) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(payloadFields(p))
}

// decodeLenient drops top-level keys whose values do not fit their field
// and decodes the rest
func decodeLenient(data []byte) (payloadFields, error) {
	var fields payloadFields
	err := json.Unmarshal(data, &fields)
	if err == nil {
		return fields, nil
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return payloadFields{}, err
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return payloadFields{}, err
	}

	for i, n := 0, len(object); i < n; i++ {
		key, _, _ := strings.Cut(typeErr.Field, ".")
		if _, ok := object[key]; !ok {
			return payloadFields{}, err
		}
		delete(object, key)

		trimmed, mErr := json.Marshal(object)
		if mErr != nil {
			return payloadFields{}, mErr
		}
		fields = payloadFields{}
		if err = json.Unmarshal(trimmed, &fields); err == nil {
			return fields, nil
		}
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return payloadFields{}, err
		}
	}
	return payloadFields{}, err
}
