package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const gitgudColumns = `id, user_id, handle, problem_name, contest_id, problem_index, problem_rating, delta, status, issued_at, finished_at, score, monthly_score`

func scanGitgud(row pgx.Row) (GitgudChallenge, error) {
	var i GitgudChallenge
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Handle,
		&i.ProblemName,
		&i.ContestID,
		&i.ProblemIndex,
		&i.ProblemRating,
		&i.Delta,
		&i.Status,
		&i.IssuedAt,
		&i.FinishedAt,
		&i.Score,
		&i.MonthlyScore,
	)
	return i, err
}

func collectGitgud(rows pgx.Rows) ([]GitgudChallenge, error) {
	defer rows.Close()
	var items []GitgudChallenge
	for rows.Next() {
		i, err := scanGitgud(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getActiveGitgud = `-- name: GetActiveGitgud :one
SELECT ` + gitgudColumns + ` FROM gitgud_challenges
WHERE user_id = $1 AND status = 'ACTIVE'
`

func (q *Queries) GetActiveGitgud(ctx context.Context, userID int64) (GitgudChallenge, error) {
	return scanGitgud(q.db.QueryRow(ctx, getActiveGitgud, userID))
}

const insertGitgudIfNoneActive = `-- name: InsertGitgudIfNoneActive :one
INSERT INTO gitgud_challenges (
    id, user_id, handle, problem_name, contest_id, problem_index, problem_rating, delta, status, issued_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, 'ACTIVE', $9
)
ON CONFLICT (user_id) WHERE status = 'ACTIVE' DO NOTHING
RETURNING ` + gitgudColumns + `
`

type InsertGitgudParams struct {
	ID            uuid.UUID `json:"id"`
	UserID        int64     `json:"user_id"`
	Handle        string    `json:"handle"`
	ProblemName   string    `json:"problem_name"`
	ContestID     int32     `json:"contest_id"`
	ProblemIndex  string    `json:"problem_index"`
	ProblemRating int32     `json:"problem_rating"`
	Delta         int32     `json:"delta"`
	IssuedAt      time.Time `json:"issued_at"`
}

func (q *Queries) InsertGitgudIfNoneActive(ctx context.Context, arg InsertGitgudParams) (GitgudChallenge, error) {
	row := q.db.QueryRow(ctx, insertGitgudIfNoneActive,
		arg.ID,
		arg.UserID,
		arg.Handle,
		arg.ProblemName,
		arg.ContestID,
		arg.ProblemIndex,
		arg.ProblemRating,
		arg.Delta,
		arg.IssuedAt,
	)
	return scanGitgud(row)
}

const completeGitgud = `-- name: CompleteGitgud :execrows
UPDATE gitgud_challenges
SET status = 'COMPLETED', finished_at = $2, score = $3, monthly_score = $4
WHERE id = $1 AND status = 'ACTIVE'
`

type CompleteGitgudParams struct {
	ID           uuid.UUID `json:"id"`
	FinishedAt   time.Time `json:"finished_at"`
	Score        int32     `json:"score"`
	MonthlyScore int32     `json:"monthly_score"`
}

func (q *Queries) CompleteGitgud(ctx context.Context, arg CompleteGitgudParams) (int64, error) {
	result, err := q.db.Exec(ctx, completeGitgud,
		arg.ID,
		arg.FinishedAt,
		arg.Score,
		arg.MonthlyScore,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const skipGitgud = `-- name: SkipGitgud :execrows
UPDATE gitgud_challenges
SET status = $2
WHERE id = $1 AND status = 'ACTIVE'
`

type SkipGitgudParams struct {
	ID     uuid.UUID    `json:"id"`
	Status GitgudStatus `json:"status"`
}

func (q *Queries) SkipGitgud(ctx context.Context, arg SkipGitgudParams) (int64, error) {
	result, err := q.db.Exec(ctx, skipGitgud, arg.ID, arg.Status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const latestGitgud = `-- name: LatestGitgud :one
SELECT ` + gitgudColumns + ` FROM gitgud_challenges
WHERE user_id = $1
ORDER BY issued_at DESC
LIMIT 1
`

func (q *Queries) LatestGitgud(ctx context.Context, userID int64) (GitgudChallenge, error) {
	return scanGitgud(q.db.QueryRow(ctx, latestGitgud, userID))
}

// force skipped challenges are hidden from the history
const listGitgud = `-- name: ListGitgud :many
SELECT ` + gitgudColumns + ` FROM gitgud_challenges
WHERE user_id = $1 AND status <> 'FORCE_SKIPPED'
ORDER BY issued_at DESC
`

func (q *Queries) ListGitgud(ctx context.Context, userID int64) ([]GitgudChallenge, error) {
	rows, err := q.db.Query(ctx, listGitgud, userID)
	if err != nil {
		return nil, err
	}
	return collectGitgud(rows)
}

const skippedProblemNames = `-- name: SkippedProblemNames :many
SELECT problem_name FROM gitgud_challenges
WHERE user_id = $1 AND status = 'SKIPPED'
`

func (q *Queries) SkippedProblemNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := q.db.Query(ctx, skippedProblemNames, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const gitgudRanklist = `-- name: GitgudRanklist :many
SELECT c.user_id, COALESCE(h.handle, ''), SUM(c.score)::BIGINT AS score
FROM gitgud_challenges c
LEFT JOIN user_handles h ON h.user_id = c.user_id
WHERE c.status = 'COMPLETED'
GROUP BY c.user_id, h.handle
ORDER BY score DESC, c.user_id ASC
`

func (q *Queries) GitgudRanklist(ctx context.Context) ([]RanklistEntry, error) {
	rows, err := q.db.Query(ctx, gitgudRanklist)
	if err != nil {
		return nil, err
	}
	return collectRanklist(rows)
}

const gitgudMonthlyRanklist = `-- name: GitgudMonthlyRanklist :many
SELECT c.user_id, COALESCE(h.handle, ''), SUM(c.monthly_score)::BIGINT AS score
FROM gitgud_challenges c
LEFT JOIN user_handles h ON h.user_id = c.user_id
WHERE c.status = 'COMPLETED' AND c.finished_at >= $1
GROUP BY c.user_id, h.handle
ORDER BY score DESC, c.user_id ASC
`

func (q *Queries) GitgudMonthlyRanklist(ctx context.Context, since time.Time) ([]RanklistEntry, error) {
	rows, err := q.db.Query(ctx, gitgudMonthlyRanklist, since)
	if err != nil {
		return nil, err
	}
	return collectRanklist(rows)
}

func collectRanklist(rows pgx.Rows) ([]RanklistEntry, error) {
	defer rows.Close()
	var items []RanklistEntry
	for rows.Next() {
		var i RanklistEntry
		if err := rows.Scan(&i.UserID, &i.Handle, &i.Score); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
