package service

import (
	"context"
	"testing"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRating(t *testing.T) {
	cases := map[int]int{
		1600: 1600,
		1649: 1600,
		1650: 1600,
		1651: 1700,
		1750: 1800,
		1549: 1500,
		0:    0,
		-50:  0,
		-150: -200,
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundRating(in), "RoundRating(%d)", in)
	}
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1100, ClampRating(800, 1100, 3000))
	assert.Equal(t, 3000, ClampRating(3500, 1100, 3000))
	assert.Equal(t, 1900, ClampRating(1900, 1100, 3000))
}

func TestValidateInputHundreds(t *testing.T) {
	type req struct {
		Delta  int  `json:"delta" validate:"hundreds"`
		Rating *int `json:"rating" validate:"omitempty,hundreds"`
	}

	assert.NoError(t, ValidateInput(req{Delta: -300}))

	err := ValidateInput(req{Delta: 150})
	require.ErrorIs(t, err, tle_errors.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "delta must be a multiple of 100")

	rating := 1550
	err = ValidateInput(req{Rating: &rating})
	require.ErrorIs(t, err, tle_errors.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "rating")
}

func TestDayAndMonthBoundaries(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(ts))
}

func TestClaimsRoundTrip(t *testing.T) {
	_, err := GetClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, tle_errors.ErrUnAuthorized)

	ctx := ContextWithClaims(context.Background(), UserCredentialClaims{UserID: 42})
	claims, err := GetClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
}
