package hard75_service

import (
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/ladder"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/sirupsen/logrus"
)

const (
	ratingFloor = 800
	ratingCeil  = 3000
	// the second problem of the day is this much harder
	secondProblemOffset = 200

	DefaultLeaderboardSize = 5
	dateLayout             = "2006-01-02"
)

type Hard75Service struct {
	DB        database.Store
	Judge     codeforces.Judge
	Users     *user_service.UserService
	Problems  *problem_service.ProblemService
	Ladder    ladder.Ladder
	Escalator service.Escalator
	Clock     service.Clock
}

var logger = logrus.WithField("from", "hard75-service")

var errMsgs = map[string]map[string]string{}

type DailyProblem struct {
	problem_service.Candidate
	URL string `json:"url"`
}

type DailyChallenge struct {
	Date     string          `json:"date"`
	Handle   string          `json:"handle"`
	Rating   int             `json:"rating"`
	Problems [2]DailyProblem `json:"problems"`
	// true when the pair was assigned by an earlier call today
	Existing  bool `json:"existing"`
	Completed bool `json:"completed"`
	// time left until the next pair can be requested, set once completed
	NextChallengeIn string `json:"next_challenge_in,omitempty"`
}

type DayCompletion struct {
	Date   string                `json:"date"`
	Handle string                `json:"handle"`
	Streak database.StreakRecord `json:"streak"`
}

type LeaderboardRequest struct {
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	Handle        string `json:"handle,omitempty"`
	CurrentStreak int32  `json:"current_streak"`
	LongestStreak int32  `json:"longest_streak"`
	LastUpdated   string `json:"last_updated"`
}
