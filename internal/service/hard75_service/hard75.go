package hard75_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

func (h *Hard75Service) now() time.Time {
	if h.Clock != nil {
		return h.Clock().UTC()
	}
	return service.SystemClock()
}

// AssignToday returns the user's pair for the current UTC day, drawing and
// storing one when the day has none yet. A stored pair is never re-rolled.
func (h *Hard75Service) AssignToday(ctx context.Context, userID int64) (DailyChallenge, error) {
	handle, err := h.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return DailyChallenge{}, err
	}

	now := h.now()
	today := service.StartOfDay(now)
	key := database.GetHard75Params{UserID: userID, AssignedOn: today}

	existing, err := h.DB.GetHard75(ctx, key)
	if err == nil {
		return h.present(existing, true, now), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return DailyChallenge{}, service.HandlePersistenceError(
			ctx, h.Escalator, err, errMsgs,
			fmt.Sprintf("cannot fetch hard75 assignment of user %d", userID),
		)
	}

	rating, err := h.Users.EffectiveRating(ctx, handle)
	if err != nil {
		return DailyChallenge{}, err
	}
	rating1 := service.ClampRating(service.RoundRating(rating), ratingFloor, ratingCeil)
	rating2 := rating1 + secondProblemOffset

	subs, err := h.Judge.UserStatus(ctx, handle)
	if err != nil {
		return DailyChallenge{}, err
	}
	seen := codeforces.SeenNames(subs)

	first, ok, err := h.pick(ctx, rating1, handle, seen)
	if err != nil {
		return DailyChallenge{}, err
	}
	if !ok {
		return DailyChallenge{}, fmt.Errorf("%w, nothing left at %d", tle_errors.ErrProblemsExhausted, rating1)
	}
	second, ok, err := h.pick(ctx, rating2, handle, seen, first.Name)
	if err != nil {
		return DailyChallenge{}, err
	}
	if !ok {
		return DailyChallenge{}, fmt.Errorf("%w, nothing left at %d", tle_errors.ErrProblemsExhausted, rating2)
	}

	assignment, err := h.DB.InsertHard75IfAbsent(ctx, database.Hard75Assignment{
		UserID:            userID,
		AssignedOn:        today,
		Handle:            handle,
		Rating:            int32(rating1),
		Problem1Name:      first.Name,
		Problem1ContestID: int32(first.ContestID),
		Problem1Index:     first.Index,
		Problem1Source:    string(first.Source),
		Problem2Name:      second.Name,
		Problem2ContestID: int32(second.ContestID),
		Problem2Index:     second.Index,
		Problem2Source:    string(second.Source),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// a concurrent call stored the day first, show its pair
			existing, err = h.DB.GetHard75(ctx, key)
			if err == nil {
				return h.present(existing, true, now), nil
			}
		}
		return DailyChallenge{}, service.HandlePersistenceError(
			ctx, h.Escalator, err, errMsgs,
			fmt.Sprintf("cannot store hard75 assignment of user %d", userID),
		)
	}

	logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"problem1": first.Name,
		"problem2": second.Name,
	}).Info("hard75 pair assigned")
	return h.present(assignment, false, now), nil
}

// pick prefers the curated ladder entries at the rating that are still
// eligible and falls back to the whole catalog.
func (h *Hard75Service) pick(
	ctx context.Context,
	rating int,
	handle string,
	seen map[string]struct{},
	also ...string,
) (problem_service.Candidate, bool, error) {
	criteria := problem_service.Criteria{
		Target:  problem_service.Exact(rating),
		Exclude: []map[string]struct{}{seen, problem_service.NameSet(also)},
		Handles: []string{handle},
	}
	eligible := h.Problems.Eligible(criteria)
	if len(eligible) == 0 {
		return problem_service.Candidate{}, false, nil
	}

	if h.Ladder != nil {
		entries, err := h.Ladder.CuratedProblems(ctx, rating)
		if err != nil {
			return problem_service.Candidate{}, false, err
		}
		type ref struct {
			name      string
			contestID int
		}
		curatedRefs := make(map[ref]struct{}, len(entries))
		for _, e := range entries {
			curatedRefs[ref{e.Name, e.ContestID}] = struct{}{}
		}
		curated := make([]codeforces.Problem, 0)
		for _, p := range eligible {
			if _, ok := curatedRefs[ref{p.Name, p.ContestID}]; ok {
				curated = append(curated, p)
			}
		}
		if len(curated) > 0 {
			p := curated[h.Problems.Sampler.Pick(len(curated), sampler.SkewSingle)]
			return problem_service.Candidate{Problem: p, Source: problem_service.SourceCurated}, true, nil
		}
	}

	p := eligible[h.Problems.Sampler.Pick(len(eligible), sampler.SkewSingle)]
	return problem_service.Candidate{Problem: p, Source: problem_service.SourceCatalog}, true, nil
}

func (h *Hard75Service) present(a database.Hard75Assignment, existing bool, now time.Time) DailyChallenge {
	problem := func(name string, contestID int32, index, source string, rating int) DailyProblem {
		p := codeforces.Problem{ContestID: int(contestID), Index: index, Name: name, Rating: rating}
		return DailyProblem{
			Candidate: problem_service.Candidate{Problem: p, Source: problem_service.Source(source)},
			URL:       p.URL(),
		}
	}

	res := DailyChallenge{
		Date:   a.AssignedOn.Format(dateLayout),
		Handle: a.Handle,
		Rating: int(a.Rating),
		Problems: [2]DailyProblem{
			problem(a.Problem1Name, a.Problem1ContestID, a.Problem1Index, a.Problem1Source, int(a.Rating)),
			problem(a.Problem2Name, a.Problem2ContestID, a.Problem2Index, a.Problem2Source, int(a.Rating)+secondProblemOffset),
		},
		Existing:  existing,
		Completed: a.Completed,
	}
	if a.Completed {
		next := service.StartOfDay(now).AddDate(0, 0, 1)
		res.NextChallengeIn = tle_errors.PrettyDuration(next.Sub(now))
	}
	return res
}

// CompleteToday marks the day done once both problems are accepted and moves
// the streak forward.
func (h *Hard75Service) CompleteToday(ctx context.Context, userID int64) (DayCompletion, error) {
	handle, err := h.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return DayCompletion{}, err
	}

	today := service.StartOfDay(h.now())
	key := database.GetHard75Params{UserID: userID, AssignedOn: today}

	assignment, err := h.DB.GetHard75(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DayCompletion{}, tle_errors.ErrNoAssignmentToday
		}
		return DayCompletion{}, service.HandlePersistenceError(
			ctx, h.Escalator, err, errMsgs,
			fmt.Sprintf("cannot fetch hard75 assignment of user %d", userID),
		)
	}
	if assignment.Completed {
		return DayCompletion{}, tle_errors.ErrAlreadyUpdatedToday
	}

	subs, err := h.Judge.UserStatus(ctx, handle)
	if err != nil {
		return DayCompletion{}, err
	}
	solved := codeforces.SolvedNames(subs)
	unsolved := make([]string, 0, 2)
	for _, name := range []string{assignment.Problem1Name, assignment.Problem2Name} {
		if _, ok := solved[name]; !ok {
			unsolved = append(unsolved, name)
		}
	}
	if len(unsolved) > 0 {
		return DayCompletion{}, &tle_errors.UnsolvedProblemsError{Names: unsolved}
	}

	streak, applied, err := h.DB.CompleteHard75Day(ctx, key, func(prev *database.StreakRecord) database.StreakRecord {
		return NextStreak(userID, prev, today)
	})
	if err != nil {
		return DayCompletion{}, service.HandlePersistenceError(
			ctx, h.Escalator, err, errMsgs,
			fmt.Sprintf("cannot update hard75 streak of user %d", userID),
		)
	}
	if !applied {
		return DayCompletion{}, tle_errors.ErrAlreadyUpdatedToday
	}

	logger.WithFields(logrus.Fields{
		"user_id": userID,
		"current": streak.CurrentStreak,
		"longest": streak.LongestStreak,
	}).Info("hard75 day completed")
	return DayCompletion{
		Date:   today.Format(dateLayout),
		Handle: handle,
		Streak: streak,
	}, nil
}

func (h *Hard75Service) Streak(ctx context.Context, userID int64) (database.StreakRecord, error) {
	streak, err := h.DB.GetStreak(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.StreakRecord{}, fmt.Errorf(
				"%w, no hard75 record for user %d, complete a day first",
				tle_errors.ErrNotFound, userID,
			)
		}
		return database.StreakRecord{}, service.HandlePersistenceError(
			ctx, h.Escalator, err, errMsgs,
			fmt.Sprintf("cannot fetch hard75 streak of user %d", userID),
		)
	}
	return streak, nil
}

// Leaderboard ranks by longest streak, then current streak, then user id.
func (h *Hard75Service) Leaderboard(ctx context.Context, request LeaderboardRequest) ([]LeaderboardEntry, error) {
	if err := service.ValidateInput(request); err != nil {
		return nil, err
	}
	limit := request.Limit
	if limit == 0 {
		limit = DefaultLeaderboardSize
	}

	streaks, err := h.DB.ListStreaksOrdered(ctx, int32(limit))
	if err != nil {
		return nil, service.HandlePersistenceError(ctx, h.Escalator, err, errMsgs, "cannot fetch hard75 leaderboard")
	}
	if len(streaks) == 0 {
		return nil, fmt.Errorf("%w, leaderboard is empty", tle_errors.ErrNotFound)
	}

	handles := make(map[int64]string)
	linked, err := h.DB.ListHandles(ctx)
	if err != nil {
		// handles only decorate the board
		logger.Warnf("cannot fetch handles for leaderboard, %v", err)
	}
	for _, l := range linked {
		handles[l.UserID] = l.Handle
	}

	res := make([]LeaderboardEntry, 0, len(streaks))
	for i, s := range streaks {
		res = append(res, LeaderboardEntry{
			Rank:          i + 1,
			UserID:        s.UserID,
			Handle:        handles[s.UserID],
			CurrentStreak: s.CurrentStreak,
			LongestStreak: s.LongestStreak,
			LastUpdated:   s.LastUpdated.Format(dateLayout),
		})
	}
	return res, nil
}
