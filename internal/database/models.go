package database

import (
	"time"

	"github.com/google/uuid"
)

type GitgudStatus string

const (
	GitgudActive       GitgudStatus = "ACTIVE"
	GitgudCompleted    GitgudStatus = "COMPLETED"
	GitgudSkipped      GitgudStatus = "SKIPPED"
	GitgudForceSkipped GitgudStatus = "FORCE_SKIPPED"
)

type UserHandle struct {
	UserID    int64     `json:"user_id"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRole struct {
	UserID   int64  `json:"user_id"`
	RoleName string `json:"role_name"`
}

type GitgudChallenge struct {
	ID            uuid.UUID    `json:"id"`
	UserID        int64        `json:"user_id"`
	Handle        string       `json:"handle"`
	ProblemName   string       `json:"problem_name"`
	ContestID     int32        `json:"contest_id"`
	ProblemIndex  string       `json:"problem_index"`
	ProblemRating int32        `json:"problem_rating"`
	Delta         int32        `json:"delta"`
	Status        GitgudStatus `json:"status"`
	IssuedAt      time.Time    `json:"issued_at"`
	FinishedAt    *time.Time   `json:"finished_at"`
	Score         int32        `json:"score"`
	MonthlyScore  int32        `json:"monthly_score"`
}

type Hard75Assignment struct {
	UserID            int64     `json:"user_id"`
	AssignedOn        time.Time `json:"assigned_on"`
	Handle            string    `json:"handle"`
	Rating            int32     `json:"rating"`
	Problem1Name      string    `json:"problem1_name"`
	Problem1ContestID int32     `json:"problem1_contest_id"`
	Problem1Index     string    `json:"problem1_index"`
	Problem1Source    string    `json:"problem1_source"`
	Problem2Name      string    `json:"problem2_name"`
	Problem2ContestID int32     `json:"problem2_contest_id"`
	Problem2Index     string    `json:"problem2_index"`
	Problem2Source    string    `json:"problem2_source"`
	Completed         bool      `json:"completed"`
}

type StreakRecord struct {
	UserID        int64     `json:"user_id"`
	CurrentStreak int32     `json:"current_streak"`
	LongestStreak int32     `json:"longest_streak"`
	LastUpdated   time.Time `json:"last_updated"`
}

type RanklistEntry struct {
	UserID int64  `json:"user_id"`
	Handle string `json:"handle"`
	Score  int64  `json:"score"`
}
