package user_service

import (
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
)

type UserService struct {
	DB    database.Store
	Judge codeforces.Judge
}

type UserRole string

const (
	RoleModerator UserRole = "role_moderator"
	RoleAdmin     UserRole = "role_admin"
	roleUser               = "User"
)

var (
	errMsgs = map[string]map[string]string{
		tle_errors.CodeUniqueConstraint: {
			"user_handles_handle_key": "handle is already linked to another user",
		},
	}
)

type SetHandleRequest struct {
	Handle string `json:"handle" validate:"required,min=3,max=24"`
}

type LinkedHandle struct {
	UserID int64  `json:"user_id"`
	Handle string `json:"handle"`
	Rating *int   `json:"rating,omitempty"`
}
