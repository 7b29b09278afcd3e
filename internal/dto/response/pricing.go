package response

// PricingFactor is one contribution to the surge multiplier, listed in
// the order it was applied.
type PricingFactor struct {
	Name       string  `json:"name"`
	Adjustment float64 `json:"adjustment"`
}

type PricingResponse struct {
	TripID          string          `json:"trip_id"`
	BasePrice       float64         `json:"base_price"`
	SurgeMultiplier float64         `json:"surge_multiplier"`
	FinalPrice      float64         `json:"final_price"`
	Factors         []PricingFactor `json:"factors"`
}

type BulkPricingResponse struct {
	Quotes []PricingResponse `json:"quotes"`
	// Errors maps trip IDs that could not be priced to the reason.
	Errors map[string]string `json:"errors,omitempty"`
}
