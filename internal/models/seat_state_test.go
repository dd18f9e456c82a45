package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    SeatStateValue
		to      SeatStateValue
		allowed bool
	}{
		{SeatStateAvailable, SeatStateLocked, true},
		{SeatStateAvailable, SeatStateBooked, true},
		{SeatStateLocked, SeatStateAvailable, true},
		{SeatStateLocked, SeatStateBooked, true},
		{SeatStateBooked, SeatStateAvailable, false},
		{SeatStateBooked, SeatStateLocked, false},
		{SeatStateAvailable, SeatStateAvailable, false},
		{SeatStateLocked, SeatStateLocked, false},
		{SeatStateBooked, SeatStateBooked, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := TransitionRequest{From: "available", To: "locked"}
		assert.NoError(t, req.Validate())
	})

	t.Run("Unknown State", func(t *testing.T) {
		req := TransitionRequest{From: "reserved", To: "booked"}
		assert.Error(t, req.Validate())
	})

	t.Run("Booked Is Terminal", func(t *testing.T) {
		req := TransitionRequest{From: "booked", To: "available"}
		assert.Error(t, req.Validate())
	})
}
