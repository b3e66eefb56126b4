package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const hard75Columns = `user_id, assigned_on, handle, rating, problem1_name, problem1_contest_id, problem1_index, problem1_source, problem2_name, problem2_contest_id, problem2_index, problem2_source, completed`

func scanHard75(row pgx.Row) (Hard75Assignment, error) {
	var i Hard75Assignment
	err := row.Scan(
		&i.UserID,
		&i.AssignedOn,
		&i.Handle,
		&i.Rating,
		&i.Problem1Name,
		&i.Problem1ContestID,
		&i.Problem1Index,
		&i.Problem1Source,
		&i.Problem2Name,
		&i.Problem2ContestID,
		&i.Problem2Index,
		&i.Problem2Source,
		&i.Completed,
	)
	return i, err
}

const getHard75 = `-- name: GetHard75 :one
SELECT ` + hard75Columns + ` FROM hard75_assignments
WHERE user_id = $1 AND assigned_on = $2
`

type GetHard75Params struct {
	UserID     int64     `json:"user_id"`
	AssignedOn time.Time `json:"assigned_on"`
}

func (q *Queries) GetHard75(ctx context.Context, arg GetHard75Params) (Hard75Assignment, error) {
	return scanHard75(q.db.QueryRow(ctx, getHard75, arg.UserID, arg.AssignedOn))
}

const insertHard75IfAbsent = `-- name: InsertHard75IfAbsent :one
INSERT INTO hard75_assignments (
    user_id, assigned_on, handle, rating,
    problem1_name, problem1_contest_id, problem1_index, problem1_source,
    problem2_name, problem2_contest_id, problem2_index, problem2_source
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
ON CONFLICT (user_id, assigned_on) DO NOTHING
RETURNING ` + hard75Columns + `
`

func (q *Queries) InsertHard75IfAbsent(ctx context.Context, arg Hard75Assignment) (Hard75Assignment, error) {
	row := q.db.QueryRow(ctx, insertHard75IfAbsent,
		arg.UserID,
		arg.AssignedOn,
		arg.Handle,
		arg.Rating,
		arg.Problem1Name,
		arg.Problem1ContestID,
		arg.Problem1Index,
		arg.Problem1Source,
		arg.Problem2Name,
		arg.Problem2ContestID,
		arg.Problem2Index,
		arg.Problem2Source,
	)
	return scanHard75(row)
}

const markHard75Completed = `-- name: MarkHard75Completed :execrows
UPDATE hard75_assignments
SET completed = TRUE
WHERE user_id = $1 AND assigned_on = $2 AND NOT completed
`

func (q *Queries) MarkHard75Completed(ctx context.Context, arg GetHard75Params) (int64, error) {
	result, err := q.db.Exec(ctx, markHard75Completed, arg.UserID, arg.AssignedOn)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const streakColumns = `user_id, current_streak, longest_streak, last_updated`

func scanStreak(row pgx.Row) (StreakRecord, error) {
	var i StreakRecord
	err := row.Scan(&i.UserID, &i.CurrentStreak, &i.LongestStreak, &i.LastUpdated)
	return i, err
}

const getStreak = `-- name: GetStreak :one
SELECT ` + streakColumns + ` FROM hard75_streaks
WHERE user_id = $1
`

func (q *Queries) GetStreak(ctx context.Context, userID int64) (StreakRecord, error) {
	return scanStreak(q.db.QueryRow(ctx, getStreak, userID))
}

const getStreakForUpdate = `-- name: GetStreakForUpdate :one
SELECT ` + streakColumns + ` FROM hard75_streaks
WHERE user_id = $1
FOR UPDATE
`

func (q *Queries) GetStreakForUpdate(ctx context.Context, userID int64) (StreakRecord, error) {
	return scanStreak(q.db.QueryRow(ctx, getStreakForUpdate, userID))
}

const upsertStreak = `-- name: UpsertStreak :one
INSERT INTO hard75_streaks (user_id, current_streak, longest_streak, last_updated)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
    current_streak = EXCLUDED.current_streak,
    longest_streak = EXCLUDED.longest_streak,
    last_updated = EXCLUDED.last_updated
RETURNING ` + streakColumns + `
`

func (q *Queries) UpsertStreak(ctx context.Context, arg StreakRecord) (StreakRecord, error) {
	row := q.db.QueryRow(ctx, upsertStreak,
		arg.UserID,
		arg.CurrentStreak,
		arg.LongestStreak,
		arg.LastUpdated,
	)
	return scanStreak(row)
}

const listStreaksOrdered = `-- name: ListStreaksOrdered :many
SELECT ` + streakColumns + ` FROM hard75_streaks
ORDER BY longest_streak DESC, current_streak DESC, user_id ASC
LIMIT $1
`

func (q *Queries) ListStreaksOrdered(ctx context.Context, limit int32) ([]StreakRecord, error) {
	rows, err := q.db.Query(ctx, listStreaksOrdered, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StreakRecord
	for rows.Next() {
		i, err := scanStreak(rows)
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
