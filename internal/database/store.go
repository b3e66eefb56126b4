package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence contract of the challenge engine. Every write that
// guards a per-user invariant is conditional, so two concurrent calls for the
// same user cannot both succeed. Lookups of a missing row return pgx.ErrNoRows.
type Store interface {
	GetHandle(ctx context.Context, userID int64) (string, error)
	UpsertHandle(ctx context.Context, arg UpsertHandleParams) (UserHandle, error)
	ListHandles(ctx context.Context) ([]UserHandle, error)
	GetUserRoles(ctx context.Context, userID int64) ([]string, error)

	GetActiveGitgud(ctx context.Context, userID int64) (GitgudChallenge, error)
	// InsertGitgudIfNoneActive returns pgx.ErrNoRows when the user already
	// has an active challenge.
	InsertGitgudIfNoneActive(ctx context.Context, arg InsertGitgudParams) (GitgudChallenge, error)
	// CompleteGitgud and SkipGitgud only touch an ACTIVE challenge and report
	// the number of rows changed.
	CompleteGitgud(ctx context.Context, arg CompleteGitgudParams) (int64, error)
	SkipGitgud(ctx context.Context, arg SkipGitgudParams) (int64, error)
	LatestGitgud(ctx context.Context, userID int64) (GitgudChallenge, error)
	ListGitgud(ctx context.Context, userID int64) ([]GitgudChallenge, error)
	SkippedProblemNames(ctx context.Context, userID int64) ([]string, error)
	GitgudRanklist(ctx context.Context) ([]RanklistEntry, error)
	GitgudMonthlyRanklist(ctx context.Context, since time.Time) ([]RanklistEntry, error)

	GetHard75(ctx context.Context, arg GetHard75Params) (Hard75Assignment, error)
	// InsertHard75IfAbsent returns pgx.ErrNoRows when the day is already assigned.
	InsertHard75IfAbsent(ctx context.Context, arg Hard75Assignment) (Hard75Assignment, error)
	// CompleteHard75Day marks the day completed and stores next(prev) as the
	// new streak in one step. applied is false when the day was not assigned
	// or was already completed; the streak is left untouched then.
	CompleteHard75Day(
		ctx context.Context,
		arg GetHard75Params,
		next func(prev *StreakRecord) StreakRecord,
	) (streak StreakRecord, applied bool, err error)
	GetStreak(ctx context.Context, userID int64) (StreakRecord, error)
	ListStreaksOrdered(ctx context.Context, limit int32) ([]StreakRecord, error)
}

// PgStore runs the queries on a pgx pool and owns the transactions.
type PgStore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Store = (*PgStore)(nil)

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{
		Queries: New(pool),
		pool:    pool,
	}
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgStore) Close() {
	s.pool.Close()
}

func (s *PgStore) CompleteHard75Day(
	ctx context.Context,
	arg GetHard75Params,
	next func(prev *StreakRecord) StreakRecord,
) (streak StreakRecord, applied bool, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return StreakRecord{}, false, fmt.Errorf("cannot begin tx, %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()
	qtx := s.WithTx(tx)

	rows, err := qtx.MarkHard75Completed(ctx, arg)
	if err != nil {
		return StreakRecord{}, false, err
	}
	if rows == 0 {
		err = tx.Rollback(ctx)
		return StreakRecord{}, false, err
	}

	// lock the streak row so concurrent completions serialize here
	var prev *StreakRecord
	current, err := qtx.GetStreakForUpdate(ctx, arg.UserID)
	if err == nil {
		prev = &current
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return StreakRecord{}, false, err
	}

	streak, err = qtx.UpsertStreak(ctx, next(prev))
	if err != nil {
		return StreakRecord{}, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return StreakRecord{}, false, fmt.Errorf("cannot commit tx, %w", err)
	}
	return streak, true, nil
}
