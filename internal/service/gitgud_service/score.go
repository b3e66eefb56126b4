package gitgud_service

import "time"

const (
	scoreDistribMin = -400
	bucketWidth     = 100
)

// ScoreFor maps a delta to points, buckets of 100 starting at -400, clamped
// at both ends.
func (p Policy) ScoreFor(delta int) int {
	idx := floorDiv(delta-scoreDistribMin, bucketWidth)
	idx = min(max(idx, 0), len(p.Distribution)-1)
	return p.Distribution[idx]
}

// MonthlyScore doubles the score when the challenge was finished inside the
// bonus window at the end of the month it was issued in.
func (p Policy) MonthlyScore(score int, issuedAt, finishedAt time.Time) int {
	if p.bonusActive(issuedAt, finishedAt) {
		return 2 * score
	}
	return score
}

func (p Policy) bonusActive(issuedAt, finishedAt time.Time) bool {
	issuedAt = issuedAt.UTC()
	monthStart := time.Date(issuedAt.Year(), issuedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	if monthStart.Before(p.MorePointsStart) {
		return false
	}
	windowStart := monthEnd.Add(-p.BonusWindow)
	return !finishedAt.Before(windowStart) && finishedAt.Before(monthEnd)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
