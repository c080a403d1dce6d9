package domain

import "encoding/json"

// Phase tags which variant a RequestState holds
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

// String returns the phase name used by the JSON API
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// RequestState is the forecast request lifecycle. Payload is set only in
// PhaseSucceeded and Message only in PhaseFailed.
type RequestState struct {
	Phase     Phase
	RequestID uint64
	Payload   *PredictionPayload
	Message   string
}

// IdleState is the state before the first submit
func IdleState() RequestState {
	return RequestState{Phase: PhaseIdle}
}

// PendingState marks request id as in flight
func PendingState(id uint64) RequestState {
	return RequestState{Phase: PhasePending, RequestID: id}
}

// SucceededState holds the payload returned for request id
func SucceededState(id uint64, payload PredictionPayload) RequestState {
	return RequestState{Phase: PhaseSucceeded, RequestID: id, Payload: &payload}
}

// FailedState holds the message displayed for request id
func FailedState(id uint64, message string) RequestState {
	return RequestState{Phase: PhaseFailed, RequestID: id, Message: message}
}

// Pending reports whether a request is in flight
func (s RequestState) Pending() bool {
	return s.Phase == PhasePending
}

// MarshalJSON renders the state for the session API
func (s RequestState) MarshalJSON() ([]byte, error) {
	out := struct {
		Status    string             `json:"status"`
		RequestID uint64             `json:"request_id,omitempty"`
		Pending   bool               `json:"pending"`
		Payload   *PredictionPayload `json:"payload,omitempty"`
		Error     string             `json:"error,omitempty"`
	}{
		Status:    s.Phase.String(),
		RequestID: s.RequestID,
		Pending:   s.Pending(),
		Payload:   s.Payload,
		Error:     s.Message,
	}
	return json.Marshal(out)
}
