package service

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
)

type UserCredentialClaims struct {
	UserID int64    `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Escalator is told about persistence failures the engine cannot recover
// from on its own.
type Escalator interface {
	EscalatePersistenceError(ctx context.Context, operation string, err error)
}
