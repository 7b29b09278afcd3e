package request

type BulkPricingRequest struct {
	TripIDs []string `json:"trip_ids" validate:"required,min=1,max=50,dive,uuid4"`
}
