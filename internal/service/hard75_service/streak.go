package hard75_service

import (
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
)

// NextStreak is the streak after completing the day. The run continues only
// when the last completion was yesterday, otherwise it restarts at 1.
func NextStreak(userID int64, prev *database.StreakRecord, today time.Time) database.StreakRecord {
	today = service.StartOfDay(today)
	next := database.StreakRecord{
		UserID:        userID,
		CurrentStreak: 1,
		LastUpdated:   today,
	}
	if prev != nil {
		next.LongestStreak = prev.LongestStreak
		yesterday := today.AddDate(0, 0, -1)
		if service.StartOfDay(prev.LastUpdated).Equal(yesterday) {
			next.CurrentStreak = prev.CurrentStreak + 1
		}
	}
	next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)
	return next
}
