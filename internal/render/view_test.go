package render

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus/client/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func mumbaiPayload() domain.PredictionPayload {
	return domain.PredictionPayload{
		IntensityTag:     "Moderate",
		ImpactIndex:      "Low",
		MLPredictionText: "72%",
		ForecastAmountMM: floatPtr(3.5),
		ForecastTemp:     floatPtr(28.4),
	}
}

func metricValues(v ResultView) map[string]string {
	out := make(map[string]string, len(v.Metrics))
	for _, m := range v.Metrics {
		out[m.Key] = m.Value
	}
	return out
}

func TestBuildResultView_Succeeded(t *testing.T) {
	view := BuildResultView(domain.SucceededState(1, mumbaiPayload()), time.UTC)

	assert.True(t, view.HasResult())
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, map[string]string{
		"intensity":   "Moderate",
		"impact":      "Low",
		"confidence":  "72%",
		"rain":        "3.50 mm",
		"temperature": "28.4°C",
	}, metricValues(view))
	assert.Empty(t, view.HourlyPlan)
	assert.Empty(t, view.Ranking)
}

func TestBuildResultView_OptionalWeatherFields(t *testing.T) {
	p := mumbaiPayload()
	p.FeelsLike = floatPtr(31.26)
	p.Humidity = floatPtr(78)
	p.WindSpeed = floatPtr(4.12)
	p.PrecipProbability = floatPtr(0.354)
	p.ForecastAmountMM = floatPtr(0)

	values := metricValues(BuildResultView(domain.SucceededState(1, p), time.UTC))

	assert.Equal(t, "31.3°C", values["feels_like"])
	assert.Equal(t, "78%", values["humidity"])
	assert.Equal(t, "4.1 m/s", values["wind"])
	assert.Equal(t, "35%", values["pop"])
	assert.Equal(t, "0.00 mm", values["rain"], "zero is present, not missing")
}

func TestBuildResultView_PendingAndFailed(t *testing.T) {
	pending := BuildResultView(domain.PendingState(4), time.UTC)
	assert.True(t, pending.Loading)
	assert.Equal(t, LoadingText, pending.LoadingText)
	assert.False(t, pending.HasResult())
	assert.Empty(t, pending.Metrics)

	failed := BuildResultView(domain.FailedState(4, "City not found"), time.UTC)
	assert.False(t, failed.Loading)
	assert.Equal(t, "City not found", failed.Error)
	assert.Empty(t, failed.Metrics)

	idle := BuildResultView(domain.IdleState(), time.UTC)
	assert.Equal(t, ResultView{Phase: domain.PhaseIdle}, idle)
}

func TestBuildResultView_HourlyPlan(t *testing.T) {
	p := mumbaiPayload()
	p.HourlyPlan = []domain.HourlyPlanEntry{
		{Time: "2025-11-12 21:00:00", Recommendation: "It's a great day for a run!"},
		{Time: "2025-11-13 00:00:00", Recommendation: "Bad for a run (Rain)"},
		{Time: "2025-11-13 03:00:00", Recommendation: "Challenging (Heat)"},
		{Time: "tomorrow", Recommendation: "Perfect day to hang laundry!"},
	}

	view := BuildResultView(domain.SucceededState(1, p), time.UTC)
	require.Len(t, view.HourlyPlan, 4)
	assert.Equal(t, HourlyRow{Time: "09:00 PM", Recommendation: "It's a great day for a run!", Tone: ToneGood}, view.HourlyPlan[0])
	assert.Equal(t, HourlyRow{Time: "12:00 AM", Recommendation: "Bad for a run (Rain)", Tone: ToneBad}, view.HourlyPlan[1])
	assert.Equal(t, ToneNeutral, view.HourlyPlan[2].Tone)
	assert.Equal(t, "tomorrow", view.HourlyPlan[3].Time)
	assert.Equal(t, ToneGood, view.HourlyPlan[3].Tone)

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	local := BuildResultView(domain.SucceededState(1, p), kolkata)
	assert.Equal(t, "02:30 AM", local.HourlyPlan[0].Time)
}

func TestBuildResultView_LocationRanking(t *testing.T) {
	p := mumbaiPayload()
	p.City = "Mumbai"
	p.ActivityRecommendation = "Looks clear for your commute!"
	p.LocationRanking = []domain.LocationRank{
		{City: "Pune", Score: 2, Recommendation: "Looks clear for your commute!", Status: "Analyzed"},
		{City: "Thane", Score: 1, Recommendation: "Challenging (Wind)", Status: "Analyzed"},
		{City: "Nashik", Score: 0, Recommendation: "Risky (Heavy Rain)", Status: "Analyzed"},
		{City: "Navi Mumbai", Score: 0, Recommendation: "No data found", Status: "No data found"},
	}

	view := BuildResultView(domain.SucceededState(1, p), time.UTC)

	assert.Equal(t, "Mumbai", view.City)
	assert.Equal(t, "Looks clear for your commute!", view.Recommendation)
	assert.Equal(t, []RankingRow{
		{Position: 1, City: "Pune", Recommendation: "Looks clear for your commute!", HasData: true, TopPick: true, Tone: ToneGood},
		{Position: 2, City: "Thane", Recommendation: "Challenging (Wind)", HasData: true, Tone: ToneCaution},
		{Position: 3, City: "Nashik", Recommendation: "Risky (Heavy Rain)", HasData: true, Tone: ToneBad},
		{Position: 4, City: "Navi Mumbai", Recommendation: "No Data", Tone: ToneBad},
	}, view.Ranking)
}

func TestScoreTone(t *testing.T) {
	tests := []struct {
		score float64
		want  Tone
	}{
		{2, ToneGood},
		{1, ToneCaution},
		{0, ToneBad},
		{0.5, ToneNeutral},
		{3, ToneNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreTone(tt.score), "score %v", tt.score)
	}
}

func TestBuildResultView_IsPure(t *testing.T) {
	p := mumbaiPayload()
	p.HourlyPlan = []domain.HourlyPlanEntry{{Time: "2025-11-12 21:00:00", Recommendation: "Looks clear for your commute!"}}
	p.LocationRanking = []domain.LocationRank{{City: "Pune", Status: "Analyzed", Recommendation: "Looks clear for your commute!"}}
	state := domain.SucceededState(7, p)

	first := BuildResultView(state, time.UTC)
	second := BuildResultView(state, time.UTC)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("views differ (-first +second):\n%s", diff)
	}
}

func TestBuildResultView_SucceededWithoutPayload(t *testing.T) {
	view := BuildResultView(domain.RequestState{Phase: domain.PhaseSucceeded, RequestID: 1}, time.UTC)
	assert.True(t, view.HasResult())
	assert.Empty(t, view.Metrics)
}
