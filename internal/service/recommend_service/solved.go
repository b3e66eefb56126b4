package recommend_service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/catalog"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/sirupsen/logrus"
)

type solvedSub struct {
	handle string
	sub    codeforces.Submission
}

// Stalk lists the problems the handles solved, newest first or hardest
// first. Each problem shows up once per handle, at its latest accepted
// submission.
func (r *RecommendService) Stalk(ctx context.Context, userID int64, request StalkRequest) ([]SolvedEntry, error) {
	if err := service.ValidateInput(request); err != nil {
		return nil, err
	}
	if request.RatingLow != nil && request.RatingHigh != nil && *request.RatingHigh < *request.RatingLow {
		return nil, fmt.Errorf("%w, rating_high must be at least rating_low", tle_errors.ErrInvalidRequest)
	}

	// unrated problems only pass when no bound was asked for
	var target *problem_service.RatingTarget
	if request.RatingLow != nil || request.RatingHigh != nil {
		low, high := 0, math.MaxInt
		if request.RatingLow != nil {
			low = *request.RatingLow
		}
		if request.RatingHigh != nil {
			high = *request.RatingHigh
		}
		t := problem_service.Between(low, high)
		target = &t
	}

	users, err := r.handlesOrCaller(ctx, userID, request.Handles)
	if err != nil {
		return nil, err
	}

	solved := make([]solvedSub, 0)
	for _, u := range users {
		subs, err := r.Judge.UserStatus(ctx, u.Handle)
		if err != nil {
			return nil, err
		}
		latest := make(map[string]codeforces.Submission)
		for _, sub := range subs {
			if sub.Verdict != codeforces.VerdictOK {
				continue
			}
			p := sub.Problem
			if target != nil && !target.Accepts(p) {
				continue
			}
			if !p.MatchesAllTags(request.Tags) || (len(request.BanTags) > 0 && p.MatchesAnyTag(request.BanTags)) {
				continue
			}
			if prev, ok := latest[p.Name]; !ok || prev.CreationTimeSeconds < sub.CreationTimeSeconds {
				latest[p.Name] = sub
			}
		}
		for _, sub := range latest {
			solved = append(solved, solvedSub{handle: u.Handle, sub: sub})
		}
	}
	if len(solved) == 0 {
		return nil, fmt.Errorf("%w, no solved problems within the search parameters", tle_errors.ErrNotFound)
	}

	sort.Slice(solved, func(i, j int) bool {
		a, b := solved[i].sub, solved[j].sub
		if request.Hardest && a.Problem.Rating != b.Problem.Rating {
			return a.Problem.Rating > b.Problem.Rating
		}
		if a.CreationTimeSeconds != b.CreationTimeSeconds {
			return a.CreationTimeSeconds > b.CreationTimeSeconds
		}
		if a.Problem.Name != b.Problem.Name {
			return a.Problem.Name < b.Problem.Name
		}
		return solved[i].handle < solved[j].handle
	})
	solved = solved[:min(len(solved), stalkListLimit)]

	res := make([]SolvedEntry, 0, len(solved))
	for _, s := range solved {
		res = append(res, SolvedEntry{
			Handle:         s.handle,
			SolvedAt:       time.Unix(s.sub.CreationTimeSeconds, 0).UTC().Format(time.RFC3339),
			Recommendation: r.recommendation(s.sub.Problem),
		})
	}
	return res, nil
}

// Fullsolve lists the finished contests the caller has started but not
// finished, fewest unsolved problems first.
func (r *RecommendService) Fullsolve(
	ctx context.Context,
	userID int64,
	request FullsolveRequest,
) ([]FullsolveEntry, error) {
	if err := service.ValidateInput(request); err != nil {
		return nil, err
	}
	handle, err := r.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs, err := r.Judge.UserStatus(ctx, handle)
	if err != nil {
		return nil, err
	}
	solvedNames := codeforces.SolvedNames(subs)

	// a problem shared by parallel divisions counts for both contests
	total := make(map[int]int)
	solved := make(map[int]int)
	for _, p := range r.Problems.Catalog.Problems() {
		total[p.ContestID]++
		if _, ok := solvedNames[p.Name]; ok {
			solved[p.ContestID]++
		}
	}

	type progress struct {
		contest   codeforces.Contest
		done, all int
	}
	started := make([]progress, 0)
	for _, contest := range r.Contests.ContestsInPhase(codeforces.PhaseFinished) {
		if len(request.Markers) > 0 && !contest.Matches(request.Markers) {
			continue
		}
		if catalog.IsNonstandardContest(contest) {
			continue
		}
		done, all := solved[contest.ID], total[contest.ID]
		if done == 0 || done >= all {
			continue
		}
		started = append(started, progress{contest: contest, done: done, all: all})
	}
	if len(started) == 0 {
		return nil, fmt.Errorf("%w, %s has no contests to fullsolve", tle_errors.ErrNotFound, handle)
	}

	sort.Slice(started, func(i, j int) bool {
		a, b := started[i], started[j]
		if a.all-a.done != b.all-b.done {
			return a.all-a.done < b.all-b.done
		}
		if a.contest.StartTimeSeconds != b.contest.StartTimeSeconds {
			return a.contest.StartTimeSeconds > b.contest.StartTimeSeconds
		}
		return a.contest.ID > b.contest.ID
	})

	res := make([]FullsolveEntry, 0, len(started))
	for _, s := range started {
		res = append(res, FullsolveEntry{
			ContestRecommendation: ContestRecommendation{
				ID:        s.contest.ID,
				Name:      s.contest.Name,
				URL:       s.contest.URL(),
				Duration:  tle_errors.PrettyDuration(s.contest.Duration()),
				StartTime: s.contest.StartTime().Format(time.RFC3339),
			},
			Solved: s.done,
			Total:  s.all,
		})
	}
	logger.WithFields(logrus.Fields{
		"handle":   handle,
		"contests": len(res),
	}).Debug("fullsolve list built")
	return res, nil
}
