package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	log "github.com/sirupsen/logrus"
)

// custom function for translating validation error into user readable errors
func translateValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "hundreds":
		return fmt.Sprintf("%s must be a multiple of 100", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", e.Field(), e.Param())
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", e.Field(), e.Param())
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "dive", "required_without":
		return fmt.Sprintf("%s is invalid", e.Field())
	default:
		return fmt.Sprintf("Validation failed for %s with rule %s", e.Field(), e.Tag())
	}
}

// ValidateInput validates the input struct using the package validator.
// If validation fails, it logs and returns the first user-friendly error message.
// Returns nil if input is valid.
func ValidateInput(inp any) error {
	if err := validate.Struct(inp); err != nil {
		var validationErrors validator.ValidationErrors
		// Check if the error is a set of validation errors
		if errors.As(err, &validationErrors) {
			if len(validationErrors) > 0 {
				// Grab and translate the first validation error for user feedback
				errorMessage := translateValidationError(validationErrors[0])
				log.Debug(errorMessage)
				// Wrap the error with a custom invalid input error
				return fmt.Errorf("%w, %s", tle_errors.ErrInvalidRequest, errorMessage)
			}
		}
		return fmt.Errorf("%w, %w", tle_errors.ErrInvalidRequest, err)
	}
	// All good, input is valid
	return nil
}

// RoundRating rounds to the nearest hundred, ties to even hundreds
// (1650 -> 1600, 1750 -> 1800).
func RoundRating(rating int) int {
	return int(math.RoundToEven(float64(rating)/100)) * 100
}

func ClampRating(rating, lo, hi int) int {
	return min(max(rating, lo), hi)
}

// StartOfDay truncates t to its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth truncates t to the first instant of its UTC month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Clock returns the current time. Services take one so tests control time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// HandlePersistenceError maps a store error like tle_errors.HandleDBErrors and
// escalates it when it is an internal failure.
func HandlePersistenceError(
	ctx context.Context,
	esc Escalator,
	err error,
	errMsgs map[string]map[string]string,
	operation string,
) error {
	err = tle_errors.HandleDBErrors(err, errMsgs, operation)
	if esc != nil && errors.Is(err, tle_errors.ErrInternal) {
		esc.EscalatePersistenceError(ctx, operation, err)
	}
	return err
}
