package domain

// PricePrediction is the model output for a price-prediction request.
type PricePrediction struct {
	OriginalPrice  float64 `json:"original_price"`
	PredictedPrice float64 `json:"predicted_price"`
	Confidence     float64 `json:"confidence"`
}
