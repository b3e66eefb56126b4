package tle_errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const (
	CodeUniqueConstraint     = "23505"
	CodeForeignKeyConstraint = "23503"
)

var (
	ErrInternal       = errors.New("internal service error. please contact the ACD team")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflicting state")
	ErrNotFound       = errors.New("entity not found")
	ErrUnAuthorized   = errors.New("user not allowed to perform this action")
	ErrHttpResponse   = errors.New("error occurred with judge response")
	ErrPartialResult  = errors.New("unable to fetch complete list of requested entities")

	ErrNoActiveChallenge   = fmt.Errorf("%w, you do not have an active challenge", ErrNotFound)
	ErrChallengeNotSolved  = fmt.Errorf("%w, you haven't completed your challenge", ErrNotFound)
	ErrAlreadyClaimed      = fmt.Errorf("%w, you have already claimed your points", ErrConflict)
	ErrNoProblemFound      = fmt.Errorf("%w, problems not found within the search parameters", ErrNotFound)
	ErrProblemsExhausted   = fmt.Errorf("%w, all problems exhausted for your rating", ErrNotFound)
	ErrNoAssignmentToday   = fmt.Errorf("%w, you have not been assigned any problems today", ErrNotFound)
	ErrAlreadyUpdatedToday = fmt.Errorf("%w, your progress has already been updated today", ErrConflict)
	ErrHandleNotSet        = fmt.Errorf("%w, no handle is set for the user", ErrNotFound)
	ErrEmailServiceStopped = fmt.Errorf("%w, email service is not running", ErrInternal)
)

// ActiveChallengeError is returned when a user asks for a new challenge while
// one is still active. It carries enough to re-display the existing problem.
type ActiveChallengeError struct {
	ProblemName string
	ProblemURL  string
}

func (e *ActiveChallengeError) Error() string {
	return fmt.Sprintf("%v, you have an active challenge %s at %s", ErrConflict, e.ProblemName, e.ProblemURL)
}

func (e *ActiveChallengeError) Unwrap() error { return ErrConflict }

// SkipTooEarlyError carries how long the user must still wait before skipping.
type SkipTooEarlyError struct {
	Remaining time.Duration
}

func (e *SkipTooEarlyError) Error() string {
	return fmt.Sprintf("%v, think more. you can skip your challenge in %s", ErrConflict, PrettyDuration(e.Remaining))
}

func (e *SkipTooEarlyError) Unwrap() error { return ErrConflict }

// UnsolvedProblemsError lists the daily problems that still lack an accepted verdict.
type UnsolvedProblemsError struct {
	Names []string
}

func (e *UnsolvedProblemsError) Error() string {
	if len(e.Names) > 1 {
		return fmt.Sprintf("%v, you haven't completed either of the problems", ErrNotFound)
	}
	return fmt.Sprintf("%v, you haven't completed %v", ErrNotFound, e.Names)
}

func (e *UnsolvedProblemsError) Unwrap() error { return ErrNotFound }

func HandleDBErrors(
	err error,
	errMsgs map[string]map[string]string,
	contextMessage string,
) error {
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("%s, %v", contextMessage, ErrNotFound)
		return fmt.Errorf("%w, %s", ErrNotFound, contextMessage)
	}

	// check if its a pg error
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		err = fmt.Errorf("%w, %s, %w", ErrInternal, contextMessage, err)
		log.Error(err)
		return err
	}

	switch pgErr.Code {
	case CodeUniqueConstraint:
		return handleConstraintError(pgErr, errMsgs[CodeUniqueConstraint], ErrConflict)
	case CodeForeignKeyConstraint:
		return handleConstraintError(pgErr, errMsgs[CodeForeignKeyConstraint], ErrInvalidRequest)
	}

	// unknown error
	err = fmt.Errorf("%w, %s, %w", ErrInternal, contextMessage, err)
	log.Error(err)
	return err
}

func handleConstraintError(pgErr *pgconn.PgError, msgs map[string]string, kind error) error {
	msg, ok := msgs[pgErr.ConstraintName]
	if !ok {
		log.Warnf("unknown constraint violation, %s", pgErr.ConstraintName)
		msg = pgErr.Detail
	}
	err := fmt.Errorf("%w, %s", kind, msg)
	log.Error(err)
	return err
}

// PrettyDuration renders durations the way the bot always has: "1h 5m 3s".
func PrettyDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		return "0s"
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	out := ""
	if h > 0 {
		out += fmt.Sprintf("%dh ", h)
	}
	if m > 0 {
		out += fmt.Sprintf("%dm ", m)
	}
	if s > 0 {
		out += fmt.Sprintf("%ds ", s)
	}
	return out[:len(out)-1]
}
