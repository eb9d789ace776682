package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TripStatus
		to      TripStatus
		allowed bool
	}{
		{TripPlanned, TripOngoing, true},
		{TripPlanned, TripCancelled, true},
		{TripPlanned, TripCompleted, false},
		{TripOngoing, TripCompleted, true},
		{TripOngoing, TripCancelled, true},
		{TripOngoing, TripPlanned, false},
		{TripCompleted, TripOngoing, false},
		{TripCompleted, TripCancelled, false},
		{TripCancelled, TripPlanned, false},
		{TripCancelled, TripOngoing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
