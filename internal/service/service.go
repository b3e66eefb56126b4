package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const (
	KeyJWTSecret                    = "JWT_SECRET"
	KeyUserID                       = "user_id"
	KeyRoles                        = "roles"
	KeyExp                          = "exp"
	KeyIAt                          = "iat"
	KeyCtxUserCredClaims contextKey = "UserCredClaims"
)

var (
	validate *validator.Validate
)

func init() {
	// services are used from tests and the cli without a server setup
	validate = initValidator()
}

func InitializeServices() {
	validate = initValidator() // used for validating struct fields
}

func initValidator() *validator.Validate {
	log.Debug("initializing validator")
	validate := validator.New(validator.WithRequiredStructEnabled())

	// This makes error.Field() return "first_name" instead of "FirstName"
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// ratings and deltas move in steps of 100
	err := validate.RegisterValidation("hundreds", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fl.Field().Int()%100 == 0
		case reflect.Ptr:
			if fl.Field().IsNil() {
				return true
			}
			return fl.Field().Elem().Int()%100 == 0
		}
		return false
	})
	if err != nil {
		panic(err)
	}

	return validate
}

// ContextWithClaims is used by the jwt middleware and by tests.
func ContextWithClaims(ctx context.Context, claims UserCredentialClaims) context.Context {
	return context.WithValue(ctx, KeyCtxUserCredClaims, claims)
}

func GetClaimsFromContext(
	ctx context.Context,
) (claims UserCredentialClaims, err error) {
	claimsValue := ctx.Value(KeyCtxUserCredClaims)
	claims, ok := claimsValue.(UserCredentialClaims)
	if !ok {
		err = fmt.Errorf(
			"%w, unable to parse claims to service.UserCredentialClaims, type of claims found is %T",
			tle_errors.ErrUnAuthorized,
			claimsValue,
		)
		log.Error(err)
	}
	return
}
