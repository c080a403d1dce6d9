package domain

// FormInput is the user-edited part of the forecast form
type FormInput struct {
	Location string   `json:"location" validate:"required,max=120"`
	Activity Activity `json:"activity" validate:"required,oneof=run hang_laundry picnic bike_commute"`
}

// PredictionRequest is the body sent to the prediction backend
type PredictionRequest struct {
	City     string   `json:"city"`
	Activity Activity `json:"activity"`
}

// Request converts the form into the outbound body shape
func (f FormInput) Request() PredictionRequest {
	return PredictionRequest{
		City:     f.Location,
		Activity: f.Activity,
	}
}
