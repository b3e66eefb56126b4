package rating_service

import (
	"fmt"
	"math"

	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
)

const (
	eloBase = 400.0

	composeLow        = -100.0
	composeHigh       = 10000.0
	composeIterations = 20
)

// Pair is a rating counted Weight times.
type Pair struct {
	Rating float64
	Weight int
}

// WinProb is the Elo probability that a player rated a beats one rated b.
func WinProb(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/eloBase))
}

// Compose returns the rating that has an even chance of beating every pair
// at once.
func Compose(pairs []Pair) (int, error) {
	if len(pairs) == 0 {
		return 0, fmt.Errorf("%w, nothing to compose", tle_errors.ErrInvalidRequest)
	}
	for _, p := range pairs {
		if p.Weight <= 0 {
			return 0, fmt.Errorf("%w, how can a team have %d members", tle_errors.ErrInvalidRequest, p.Weight)
		}
	}

	left, right := composeLow, composeHigh
	for range composeIterations {
		mid := (left + right) / 2
		winProb := 1.0
		for _, p := range pairs {
			winProb *= math.Pow(WinProb(mid, p.Rating), float64(p.Weight))
		}
		if winProb < 0.5 {
			left = mid
		} else {
			right = mid
		}
	}
	return int(math.RoundToEven((left + right) / 2)), nil
}
