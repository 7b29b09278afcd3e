package utils

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseUUID parses a UUID string
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateSessionToken creates a random session token
func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// Round2 rounds to 2 decimal places, used for all money amounts
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HoursUntil returns the whole hours between now and t (negative if past)
func HoursUntil(now, t time.Time) float64 {
	return t.Sub(now).Hours()
}
