package gitgud_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

func (g *GitgudService) now() time.Time {
	if g.Clock != nil {
		return g.Clock().UTC()
	}
	return service.SystemClock()
}

// Assign draws a problem around the user's rating and makes it the user's
// active challenge.
func (g *GitgudService) Assign(
	ctx context.Context,
	userID int64,
	request AssignRequest,
) (Assignment, error) {
	// validate
	if err := service.ValidateInput(request); err != nil {
		return Assignment{}, err
	}

	// fail early when a challenge is running
	if err := g.EnsureNoActive(ctx, userID); err != nil {
		return Assignment{}, err
	}

	handle, err := g.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return Assignment{}, err
	}
	rating, err := g.Users.EffectiveRating(ctx, handle)
	if err != nil {
		return Assignment{}, err
	}
	base := g.BaseRating(rating)

	delta := request.Delta
	if request.Rating != nil {
		delta = *request.Rating - base
	}

	// every problem the user ever submitted to and every skipped one is out
	subs, err := g.Judge.UserStatus(ctx, handle)
	if err != nil {
		return Assignment{}, err
	}
	noguds, err := g.DB.SkippedProblemNames(ctx, userID)
	if err != nil {
		return Assignment{}, service.HandlePersistenceError(
			ctx, g.Escalator, err, errMsgs,
			fmt.Sprintf("cannot fetch skipped problems of user %d", userID),
		)
	}

	problem, ok := g.Problems.PickOne(problem_service.Criteria{
		Target: problem_service.Relative(base, delta),
		Exclude: []map[string]struct{}{
			codeforces.SeenNames(subs),
			problem_service.NameSet(noguds),
		},
		Handles: []string{handle},
		Tags:    request.Tags,
		BanTags: request.BanTags,
	}, sampler.SkewSingle)
	if !ok {
		return Assignment{}, fmt.Errorf("%w, no problem rated %d to assign", tle_errors.ErrNoProblemFound, base+delta)
	}

	// tagged challenges are worth less
	if len(request.Tags) > 0 || len(request.BanTags) > 0 {
		delta -= g.Policy.TagPenalty
	}

	return g.AssignProblem(ctx, userID, handle, problem, delta)
}

// BaseRating is the user's rating rounded to a hundred and clamped to the
// gitgud range.
func (g *GitgudService) BaseRating(rating int) int {
	return service.ClampRating(service.RoundRating(rating), g.Policy.RatingFloor, g.Policy.RatingCeil)
}

// EnsureNoActive fails with an ActiveChallengeError when the user has an
// active challenge.
func (g *GitgudService) EnsureNoActive(ctx context.Context, userID int64) error {
	active, err := g.DB.GetActiveGitgud(ctx, userID)
	if err == nil {
		return activeChallengeError(active)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return service.HandlePersistenceError(
		ctx, g.Escalator, err, errMsgs,
		fmt.Sprintf("cannot fetch active challenge of user %d", userID),
	)
}

// AssignProblem stores the given problem as the user's active challenge.
// delta is the scoring delta.
func (g *GitgudService) AssignProblem(
	ctx context.Context,
	userID int64,
	handle string,
	problem codeforces.Problem,
	delta int,
) (Assignment, error) {
	issuedAt := g.now()
	challenge, err := g.DB.InsertGitgudIfNoneActive(ctx, database.InsertGitgudParams{
		ID:            uuid.New(),
		UserID:        userID,
		Handle:        handle,
		ProblemName:   problem.Name,
		ContestID:     int32(problem.ContestID),
		ProblemIndex:  problem.Index,
		ProblemRating: int32(problem.Rating),
		Delta:         int32(delta),
		IssuedAt:      issuedAt,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race to a concurrent assign, report the winner
			if err = g.EnsureNoActive(ctx, userID); err != nil {
				return Assignment{}, err
			}
			return Assignment{}, fmt.Errorf("%w, challenge was not stored, try again", tle_errors.ErrConflict)
		}
		return Assignment{}, service.HandlePersistenceError(
			ctx, g.Escalator, err, errMsgs,
			fmt.Sprintf("cannot store challenge %s for user %d", problem.Name, userID),
		)
	}

	points := g.Policy.ScoreFor(delta)
	res := Assignment{
		Challenge:     challenge,
		ProblemURL:    problem.URL(),
		Points:        points,
		MonthlyPoints: g.Policy.MonthlyScore(points, issuedAt, issuedAt),
	}
	if contest, ok := g.Problems.Catalog.Contest(problem.ContestID); ok {
		res.ContestName = contest.Name
	}

	logger.WithFields(logrus.Fields{
		"user_id": userID,
		"problem": problem.Name,
		"delta":   delta,
	}).Info("gitgud challenge assigned")
	return res, nil
}

// Complete claims the points of the active challenge once its problem has an
// accepted submission.
func (g *GitgudService) Complete(ctx context.Context, userID int64) (Completion, error) {
	handle, err := g.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return Completion{}, err
	}

	active, err := g.activeOrClaimed(ctx, userID)
	if err != nil {
		return Completion{}, err
	}

	subs, err := g.Judge.UserStatus(ctx, handle)
	if err != nil {
		return Completion{}, err
	}
	if _, ok := codeforces.SolvedNames(subs)[active.ProblemName]; !ok {
		return Completion{}, tle_errors.ErrChallengeNotSolved
	}

	finishedAt := g.now()
	score := g.Policy.ScoreFor(int(active.Delta))
	monthly := g.Policy.MonthlyScore(score, active.IssuedAt, finishedAt)

	rows, err := g.DB.CompleteGitgud(ctx, database.CompleteGitgudParams{
		ID:           active.ID,
		FinishedAt:   finishedAt,
		Score:        int32(score),
		MonthlyScore: int32(monthly),
	})
	if err != nil {
		return Completion{}, service.HandlePersistenceError(
			ctx, g.Escalator, err, errMsgs,
			fmt.Sprintf("cannot complete challenge %s of user %d", active.ID, userID),
		)
	}
	if rows == 0 {
		// a concurrent call claimed it first
		return Completion{}, tle_errors.ErrAlreadyClaimed
	}

	active.Status = database.GitgudCompleted
	active.FinishedAt = &finishedAt
	active.Score = int32(score)
	active.MonthlyScore = int32(monthly)

	logger.WithFields(logrus.Fields{
		"user_id": userID,
		"problem": active.ProblemName,
		"score":   score,
	}).Info("gitgud challenge completed")
	return Completion{
		Challenge:    active,
		Score:        score,
		MonthlyScore: monthly,
		Duration:     tle_errors.PrettyDuration(finishedAt.Sub(active.IssuedAt)),
	}, nil
}

// activeOrClaimed returns the active challenge. Without one, the error tells
// an already claimed challenge apart from no challenge at all.
func (g *GitgudService) activeOrClaimed(ctx context.Context, userID int64) (database.GitgudChallenge, error) {
	active, err := g.getActive(ctx, userID)
	if !errors.Is(err, tle_errors.ErrNoActiveChallenge) {
		return active, err
	}

	latest, latestErr := g.DB.LatestGitgud(ctx, userID)
	if latestErr == nil && latest.Status == database.GitgudCompleted {
		return database.GitgudChallenge{}, tle_errors.ErrAlreadyClaimed
	}
	if latestErr != nil && !errors.Is(latestErr, pgx.ErrNoRows) {
		return database.GitgudChallenge{}, service.HandlePersistenceError(
			ctx, g.Escalator, latestErr, errMsgs,
			fmt.Sprintf("cannot fetch latest challenge of user %d", userID),
		)
	}
	return database.GitgudChallenge{}, err
}

func (g *GitgudService) getActive(ctx context.Context, userID int64) (database.GitgudChallenge, error) {
	active, err := g.DB.GetActiveGitgud(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.GitgudChallenge{}, tle_errors.ErrNoActiveChallenge
		}
		return database.GitgudChallenge{}, service.HandlePersistenceError(
			ctx, g.Escalator, err, errMsgs,
			fmt.Sprintf("cannot fetch active challenge of user %d", userID),
		)
	}
	return active, nil
}

// Skip gives up the active challenge once the minimum wait has passed.
func (g *GitgudService) Skip(ctx context.Context, userID int64) (database.GitgudChallenge, error) {
	active, err := g.getActive(ctx, userID)
	if err != nil {
		return database.GitgudChallenge{}, err
	}

	elapsed := g.now().Sub(active.IssuedAt)
	if elapsed < g.Policy.SkipWait {
		return database.GitgudChallenge{}, &tle_errors.SkipTooEarlyError{Remaining: g.Policy.SkipWait - elapsed}
	}

	return g.skip(ctx, active, database.GitgudSkipped)
}

// ForceSkip skips another user's challenge without waiting. Only moderators
// and admins may do this.
func (g *GitgudService) ForceSkip(
	ctx context.Context,
	callerID int64,
	targetUserID int64,
) (database.GitgudChallenge, error) {
	err := g.Users.AuthorizeUserRole(
		ctx,
		callerID,
		fmt.Sprintf("user %d tried to force skip the challenge of %d", callerID, targetUserID),
		user_service.RoleModerator, user_service.RoleAdmin,
	)
	if err != nil {
		return database.GitgudChallenge{}, err
	}

	active, err := g.getActive(ctx, targetUserID)
	if err != nil {
		return database.GitgudChallenge{}, err
	}
	return g.skip(ctx, active, database.GitgudForceSkipped)
}

func (g *GitgudService) skip(
	ctx context.Context,
	active database.GitgudChallenge,
	status database.GitgudStatus,
) (database.GitgudChallenge, error) {
	rows, err := g.DB.SkipGitgud(ctx, database.SkipGitgudParams{ID: active.ID, Status: status})
	if err != nil {
		return database.GitgudChallenge{}, service.HandlePersistenceError(
			ctx, g.Escalator, err, errMsgs,
			fmt.Sprintf("cannot skip challenge %s", active.ID),
		)
	}
	if rows == 0 {
		return database.GitgudChallenge{}, tle_errors.ErrNoActiveChallenge
	}

	active.Status = status
	logger.WithFields(logrus.Fields{
		"user_id": active.UserID,
		"problem": active.ProblemName,
		"status":  status,
	}).Info("gitgud challenge skipped")
	return active, nil
}

func activeChallengeError(active database.GitgudChallenge) error {
	problem := codeforces.Problem{ContestID: int(active.ContestID), Index: active.ProblemIndex}
	return &tle_errors.ActiveChallengeError{
		ProblemName: active.ProblemName,
		ProblemURL:  problem.URL(),
	}
}
