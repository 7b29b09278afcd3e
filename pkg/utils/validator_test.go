package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructMessages(t *testing.T) {
	type payload struct {
		TripID string `validate:"required,uuid4"`
		Origin string `validate:"required,min=2"`
		Seats  int    `validate:"min=1,max=8"`
	}

	errs := ValidateStruct(payload{TripID: "not-a-uuid", Origin: "X", Seats: 9})
	require.Len(t, errs, 3)
	assert.Equal(t, "Must be a valid UUID", errs["TripID"])
	assert.Equal(t, "Minimum length is 2", errs["Origin"])
	assert.Equal(t, "Must be at most 8", errs["Seats"])

	assert.Nil(t, ValidateStruct(payload{
		TripID: "5f3c8dd8-3a70-4d34-8e0c-2f1a5b7c9d11",
		Origin: "Paris",
		Seats:  2,
	}))
}
