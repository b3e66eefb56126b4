// Package memstore keeps every record in process memory. It honours the same
// conditional-write contract as the postgres store and backs tests and
// single-instance deployments.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const handleConstraint = "user_handles_handle_key"

type hard75Key struct {
	userID int64
	day    time.Time
}

type Store struct {
	mu      sync.Mutex
	handles map[int64]database.UserHandle
	roles   map[int64][]string
	gitgud  []database.GitgudChallenge // in insertion order
	hard75  map[hard75Key]database.Hard75Assignment
	streaks map[int64]database.StreakRecord
	clock   func() time.Time
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		handles: map[int64]database.UserHandle{},
		roles:   map[int64][]string{},
		hard75:  map[hard75Key]database.Hard75Assignment{},
		streaks: map[int64]database.StreakRecord{},
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// SetRoles replaces the roles of a user. Roles are managed outside the
// engine, this is the in-memory way to seed them.
func (s *Store) SetRoles(userID int64, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = append([]string(nil), roles...)
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Store) GetHandle(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[userID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return h.Handle, nil
}

func (s *Store) UpsertHandle(_ context.Context, arg database.UpsertHandleParams) (database.UserHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, h := range s.handles {
		if id != arg.UserID && strings.EqualFold(h.Handle, arg.Handle) {
			return database.UserHandle{}, &pgconn.PgError{
				Code:           tle_errors.CodeUniqueConstraint,
				ConstraintName: handleConstraint,
			}
		}
	}
	h, ok := s.handles[arg.UserID]
	if !ok {
		h = database.UserHandle{UserID: arg.UserID, CreatedAt: s.clock()}
	}
	h.Handle = arg.Handle
	s.handles[arg.UserID] = h
	return h, nil
}

func (s *Store) ListHandles(_ context.Context) ([]database.UserHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]database.UserHandle, 0, len(s.handles))
	for _, h := range s.handles {
		res = append(res, h)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UserID < res[j].UserID })
	return res, nil
}

func (s *Store) GetUserRoles(_ context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := append([]string(nil), s.roles[userID]...)
	sort.Strings(roles)
	return roles, nil
}

func (s *Store) activeIndex(userID int64) int {
	for i, c := range s.gitgud {
		if c.UserID == userID && c.Status == database.GitgudActive {
			return i
		}
	}
	return -1
}

func (s *Store) GetActiveGitgud(_ context.Context, userID int64) (database.GitgudChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.activeIndex(userID); i >= 0 {
		return s.gitgud[i], nil
	}
	return database.GitgudChallenge{}, pgx.ErrNoRows
}

func (s *Store) InsertGitgudIfNoneActive(
	_ context.Context,
	arg database.InsertGitgudParams,
) (database.GitgudChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeIndex(arg.UserID) >= 0 {
		return database.GitgudChallenge{}, pgx.ErrNoRows
	}
	c := database.GitgudChallenge{
		ID:            arg.ID,
		UserID:        arg.UserID,
		Handle:        arg.Handle,
		ProblemName:   arg.ProblemName,
		ContestID:     arg.ContestID,
		ProblemIndex:  arg.ProblemIndex,
		ProblemRating: arg.ProblemRating,
		Delta:         arg.Delta,
		Status:        database.GitgudActive,
		IssuedAt:      arg.IssuedAt,
	}
	s.gitgud = append(s.gitgud, c)
	return c, nil
}

func (s *Store) findActiveByID(id uuid.UUID) int {
	for i, c := range s.gitgud {
		if c.ID == id && c.Status == database.GitgudActive {
			return i
		}
	}
	return -1
}

func (s *Store) CompleteGitgud(_ context.Context, arg database.CompleteGitgudParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findActiveByID(arg.ID)
	if i < 0 {
		return 0, nil
	}
	finished := arg.FinishedAt
	s.gitgud[i].Status = database.GitgudCompleted
	s.gitgud[i].FinishedAt = &finished
	s.gitgud[i].Score = arg.Score
	s.gitgud[i].MonthlyScore = arg.MonthlyScore
	return 1, nil
}

func (s *Store) SkipGitgud(_ context.Context, arg database.SkipGitgudParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findActiveByID(arg.ID)
	if i < 0 {
		return 0, nil
	}
	s.gitgud[i].Status = arg.Status
	return 1, nil
}

// newest first, insertion order breaks ties on equal issue times
func (s *Store) userChallenges(userID int64, keep func(database.GitgudChallenge) bool) []database.GitgudChallenge {
	res := make([]database.GitgudChallenge, 0)
	for i := len(s.gitgud) - 1; i >= 0; i-- {
		c := s.gitgud[i]
		if c.UserID == userID && keep(c) {
			res = append(res, c)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].IssuedAt.After(res[j].IssuedAt) })
	return res
}

func (s *Store) LatestGitgud(_ context.Context, userID int64) (database.GitgudChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.userChallenges(userID, func(database.GitgudChallenge) bool { return true })
	if len(all) == 0 {
		return database.GitgudChallenge{}, pgx.ErrNoRows
	}
	return all[0], nil
}

func (s *Store) ListGitgud(_ context.Context, userID int64) ([]database.GitgudChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userChallenges(userID, func(c database.GitgudChallenge) bool {
		return c.Status != database.GitgudForceSkipped
	}), nil
}

func (s *Store) SkippedProblemNames(_ context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]string, 0)
	for _, c := range s.gitgud {
		if c.UserID == userID && c.Status == database.GitgudSkipped {
			res = append(res, c.ProblemName)
		}
	}
	return res, nil
}

func (s *Store) ranklist(score func(database.GitgudChallenge) (int64, bool)) []database.RanklistEntry {
	totals := map[int64]int64{}
	for _, c := range s.gitgud {
		if v, ok := score(c); ok {
			totals[c.UserID] += v
		}
	}
	res := make([]database.RanklistEntry, 0, len(totals))
	for id, total := range totals {
		res = append(res, database.RanklistEntry{UserID: id, Handle: s.handles[id].Handle, Score: total})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].UserID < res[j].UserID
	})
	return res
}

func (s *Store) GitgudRanklist(_ context.Context) ([]database.RanklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranklist(func(c database.GitgudChallenge) (int64, bool) {
		return int64(c.Score), c.Status == database.GitgudCompleted
	}), nil
}

func (s *Store) GitgudMonthlyRanklist(_ context.Context, since time.Time) ([]database.RanklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranklist(func(c database.GitgudChallenge) (int64, bool) {
		ok := c.Status == database.GitgudCompleted && c.FinishedAt != nil && !c.FinishedAt.Before(since)
		return int64(c.MonthlyScore), ok
	}), nil
}

func (s *Store) GetHard75(_ context.Context, arg database.GetHard75Params) (database.Hard75Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.hard75[hard75Key{arg.UserID, day(arg.AssignedOn)}]
	if !ok {
		return database.Hard75Assignment{}, pgx.ErrNoRows
	}
	return a, nil
}

func (s *Store) InsertHard75IfAbsent(
	_ context.Context,
	arg database.Hard75Assignment,
) (database.Hard75Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := hard75Key{arg.UserID, day(arg.AssignedOn)}
	if _, ok := s.hard75[key]; ok {
		return database.Hard75Assignment{}, pgx.ErrNoRows
	}
	arg.AssignedOn = key.day
	arg.Completed = false
	s.hard75[key] = arg
	return arg, nil
}

func (s *Store) CompleteHard75Day(
	_ context.Context,
	arg database.GetHard75Params,
	next func(prev *database.StreakRecord) database.StreakRecord,
) (database.StreakRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := hard75Key{arg.UserID, day(arg.AssignedOn)}
	a, ok := s.hard75[key]
	if !ok || a.Completed {
		return database.StreakRecord{}, false, nil
	}

	var prev *database.StreakRecord
	if cur, ok := s.streaks[arg.UserID]; ok {
		prev = &cur
	}
	streak := next(prev)

	a.Completed = true
	s.hard75[key] = a
	s.streaks[arg.UserID] = streak
	return streak, true, nil
}

func (s *Store) GetStreak(_ context.Context, userID int64) (database.StreakRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streaks[userID]
	if !ok {
		return database.StreakRecord{}, pgx.ErrNoRows
	}
	return st, nil
}

func (s *Store) ListStreaksOrdered(_ context.Context, limit int32) ([]database.StreakRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]database.StreakRecord, 0, len(s.streaks))
	for _, st := range s.streaks {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.LongestStreak != b.LongestStreak {
			return a.LongestStreak > b.LongestStreak
		}
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		return a.UserID < b.UserID
	})
	if limit > 0 && int(limit) < len(res) {
		res = res[:limit]
	}
	return res, nil
}
