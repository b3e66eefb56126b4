package gitgud_service

import (
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/sirupsen/logrus"
)

// Policy holds the product constants of gitgud scoring.
type Policy struct {
	// months starting at or after this instant have a bonus week
	MorePointsStart time.Time
	// the bonus covers this much time at the end of the month
	BonusWindow time.Duration
	SkipWait    time.Duration
	// subtracted from the scoring delta when tags or ban tags were requested
	TagPenalty   int
	Distribution [8]int
	RatingFloor  int
	RatingCeil   int
}

const DefaultMorePointsStartUnix = 1680300000

func DefaultPolicy() Policy {
	return Policy{
		MorePointsStart: time.Unix(DefaultMorePointsStartUnix, 0).UTC(),
		BonusWindow:     7 * 24 * time.Hour,
		SkipWait:        2 * time.Hour,
		TagPenalty:      200,
		Distribution:    [8]int{1, 2, 3, 5, 8, 12, 17, 23},
		RatingFloor:     1100,
		RatingCeil:      3000,
	}
}

type GitgudService struct {
	DB        database.Store
	Judge     codeforces.Judge
	Users     *user_service.UserService
	Problems  *problem_service.ProblemService
	Escalator service.Escalator
	Policy    Policy
	Clock     service.Clock
}

var logger = logrus.WithField("from", "gitgud-service")

var errMsgs = map[string]map[string]string{}

type AssignRequest struct {
	Delta int `json:"delta" validate:"hundreds"`
	// explicit target rating, overrides delta
	Rating  *int     `json:"rating" validate:"omitempty,hundreds,gte=0"`
	Tags    []string `json:"tags" validate:"max=10,dive,required"`
	BanTags []string `json:"ban_tags" validate:"max=10,dive,required"`
}

type Assignment struct {
	Challenge     database.GitgudChallenge `json:"challenge"`
	ProblemURL    string                   `json:"problem_url"`
	ContestName   string                   `json:"contest_name,omitempty"`
	Points        int                      `json:"points"`
	MonthlyPoints int                      `json:"monthly_points"`
}

type Completion struct {
	Challenge    database.GitgudChallenge `json:"challenge"`
	Score        int                      `json:"score"`
	MonthlyScore int                      `json:"monthly_score"`
	Duration     string                   `json:"duration"`
}

type LogEntry struct {
	database.GitgudChallenge
	ProblemURL string `json:"problem_url"`
	Points     *int   `json:"points,omitempty"`
}

type GitgudLog struct {
	UserID     int64      `json:"user_id"`
	TotalScore int        `json:"total_score"`
	Entries    []LogEntry `json:"entries"`
}
