package database

import (
	"context"
)

const getHandle = `-- name: GetHandle :one
SELECT handle FROM user_handles
WHERE user_id = $1
`

func (q *Queries) GetHandle(ctx context.Context, userID int64) (string, error) {
	row := q.db.QueryRow(ctx, getHandle, userID)
	var handle string
	err := row.Scan(&handle)
	return handle, err
}

const upsertHandle = `-- name: UpsertHandle :one
INSERT INTO user_handles (user_id, handle)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET handle = EXCLUDED.handle
RETURNING user_id, handle, created_at
`

type UpsertHandleParams struct {
	UserID int64  `json:"user_id"`
	Handle string `json:"handle"`
}

func (q *Queries) UpsertHandle(ctx context.Context, arg UpsertHandleParams) (UserHandle, error) {
	row := q.db.QueryRow(ctx, upsertHandle, arg.UserID, arg.Handle)
	var i UserHandle
	err := row.Scan(&i.UserID, &i.Handle, &i.CreatedAt)
	return i, err
}

const listHandles = `-- name: ListHandles :many
SELECT user_id, handle, created_at FROM user_handles
ORDER BY user_id
`

func (q *Queries) ListHandles(ctx context.Context) ([]UserHandle, error) {
	rows, err := q.db.Query(ctx, listHandles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UserHandle
	for rows.Next() {
		var i UserHandle
		if err := rows.Scan(&i.UserID, &i.Handle, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getUserRoles = `-- name: GetUserRoles :many
SELECT role_name FROM user_roles
WHERE user_id = $1
ORDER BY role_name
`

func (q *Queries) GetUserRoles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := q.db.Query(ctx, getUserRoles, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var roleName string
		if err := rows.Scan(&roleName); err != nil {
			return nil, err
		}
		items = append(items, roleName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
