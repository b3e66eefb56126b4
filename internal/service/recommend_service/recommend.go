package recommend_service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/catalog"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/sirupsen/logrus"
)

func (r *RecommendService) recommendation(p codeforces.Problem) Recommendation {
	rec := Recommendation{Problem: p, URL: p.URL()}
	if contest, ok := r.Problems.Catalog.Contest(p.ContestID); ok {
		rec.ContestName = contest.Name
	}
	return rec
}

// Gimme recommends one unsolved problem at the caller's rating, or within
// the requested range.
func (r *RecommendService) Gimme(ctx context.Context, userID int64, request GimmeRequest) (Recommendation, error) {
	if err := service.ValidateInput(request); err != nil {
		return Recommendation{}, err
	}
	if request.RatingHigh != nil && request.Rating == nil {
		return Recommendation{}, fmt.Errorf("%w, rating_high needs rating", tle_errors.ErrInvalidRequest)
	}
	if request.Rating != nil && request.RatingHigh != nil && *request.RatingHigh < *request.Rating {
		return Recommendation{}, fmt.Errorf("%w, rating_high must be at least rating", tle_errors.ErrInvalidRequest)
	}

	handle, err := r.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return Recommendation{}, err
	}

	var low, high int
	switch {
	case request.Rating == nil:
		rating, err := r.Users.EffectiveRating(ctx, handle)
		if err != nil {
			return Recommendation{}, err
		}
		low = service.RoundRating(rating)
		high = low
	case request.RatingHigh == nil:
		low, high = *request.Rating, *request.Rating
	default:
		low, high = *request.Rating, *request.RatingHigh
	}

	subs, err := r.Judge.UserStatus(ctx, handle)
	if err != nil {
		return Recommendation{}, err
	}

	problem, ok := r.Problems.PickOne(problem_service.Criteria{
		Target:  problem_service.Between(low, high),
		Exclude: []map[string]struct{}{codeforces.SolvedNames(subs)},
		Handles: []string{handle},
		Tags:    request.Tags,
		BanTags: request.BanTags,
	}, sampler.SkewGroup)
	if !ok {
		return Recommendation{}, tle_errors.ErrNoProblemFound
	}

	rec := r.recommendation(problem)
	rec.RatingHidden = low != high
	if len(request.Tags) > 0 {
		rec.MatchedTags = problem.MatchedTags(request.Tags)
	}
	return rec, nil
}

// handlesOrCaller resolves the requested handles on the judge, or the
// caller's linked handle when none are given.
func (r *RecommendService) handlesOrCaller(
	ctx context.Context,
	userID int64,
	requested []string,
) ([]codeforces.User, error) {
	if len(requested) == 0 {
		handle, err := r.Users.ResolveHandle(ctx, userID)
		if err != nil {
			return nil, err
		}
		requested = []string{handle}
	}
	return r.Users.Users(ctx, requested...)
}

func averageRating(users []codeforces.User) float64 {
	sum := 0
	for _, u := range users {
		sum += u.EffectiveRating()
	}
	return float64(sum) / float64(len(users))
}

// Mashup picks four distinct problems around the average rating of the
// handles that none of them has tried.
func (r *RecommendService) Mashup(ctx context.Context, userID int64, request MashupRequest) (Mashup, error) {
	if err := service.ValidateInput(request); err != nil {
		return Mashup{}, err
	}
	delta := mashupDefaultDelta
	if request.Delta != nil {
		delta += service.RoundRating(*request.Delta)
	}

	users, err := r.handlesOrCaller(ctx, userID, request.Handles)
	if err != nil {
		return Mashup{}, err
	}

	handles := make([]string, 0, len(users))
	seen := make([]map[string]struct{}, 0, len(users))
	for _, u := range users {
		handles = append(handles, u.Handle)
		subs, err := r.Judge.UserStatus(ctx, u.Handle)
		if err != nil {
			return Mashup{}, err
		}
		seen = append(seen, codeforces.SeenNames(subs))
	}

	rating := int(math.RoundToEven(averageRating(users)/100) * 100)
	rating = service.ClampRating(rating+delta, mashupRatingFloor, mashupRatingCeil)

	eligible := r.Problems.Eligible(problem_service.Criteria{
		Target:  problem_service.Between(rating-mashupSpread, rating+mashupSpread),
		Exclude: seen,
		Handles: handles,
		Tags:    request.Tags,
		BanTags: request.BanTags,
	})
	if len(eligible) < mashupSize {
		return Mashup{}, tle_errors.ErrNoProblemFound
	}

	picked := make([]codeforces.Problem, 0, mashupSize)
	for _, idx := range r.Problems.Sampler.PickDistinct(len(eligible), mashupSize, sampler.SkewDistinct) {
		picked = append(picked, eligible[idx])
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Rating < picked[j].Rating
	})

	res := Mashup{Handles: handles, Rating: rating, Problems: make([]Recommendation, 0, mashupSize)}
	for _, p := range picked {
		res.Problems = append(res.Problems, r.recommendation(p))
	}
	logger.WithFields(logrus.Fields{
		"handles": strings.Join(handles, ","),
		"rating":  rating,
	}).Debug("mashup created")
	return res, nil
}

// upsolveProblems lists the unsolved rated problems of contests the user
// was rated in, easiest first.
func (r *RecommendService) upsolveProblems(ctx context.Context, handle string) ([]codeforces.Problem, error) {
	changes, err := r.Judge.UserRating(ctx, handle)
	if err != nil {
		return nil, err
	}
	contests := make(map[int]struct{}, len(changes))
	for _, c := range changes {
		contests[c.ContestID] = struct{}{}
	}

	subs, err := r.Judge.UserStatus(ctx, handle)
	if err != nil {
		return nil, err
	}

	problems := r.Problems.Eligible(problem_service.Criteria{
		Target:   problem_service.AnyRated(),
		Exclude:  []map[string]struct{}{codeforces.SolvedNames(subs)},
		Contests: contests,
	})
	if len(problems) == 0 {
		return nil, tle_errors.ErrNoProblemFound
	}
	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Rating < problems[j].Rating
	})
	return problems, nil
}

func (r *RecommendService) Upsolve(ctx context.Context, userID int64) ([]UpsolveEntry, error) {
	handle, err := r.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return nil, err
	}
	problems, err := r.upsolveProblems(ctx, handle)
	if err != nil {
		return nil, err
	}

	problems = problems[:min(len(problems), upsolveListLimit)]
	res := make([]UpsolveEntry, 0, len(problems))
	for i, p := range problems {
		res = append(res, UpsolveEntry{Choice: i + 1, Recommendation: r.recommendation(p)})
	}
	return res, nil
}

// UpsolvePick assigns entry choice (1-based) of the upsolve list as the
// user's gitgud challenge.
func (r *RecommendService) UpsolvePick(ctx context.Context, userID int64, choice int) (gitgud_service.Assignment, error) {
	handle, err := r.Users.ResolveHandle(ctx, userID)
	if err != nil {
		return gitgud_service.Assignment{}, err
	}
	problems, err := r.upsolveProblems(ctx, handle)
	if err != nil {
		return gitgud_service.Assignment{}, err
	}
	if choice < 1 || choice > len(problems) {
		return gitgud_service.Assignment{}, fmt.Errorf(
			"%w, choice must be between 1 and %d", tle_errors.ErrInvalidRequest, len(problems),
		)
	}
	if err = r.Gitgud.EnsureNoActive(ctx, userID); err != nil {
		return gitgud_service.Assignment{}, err
	}

	rating, err := r.Users.EffectiveRating(ctx, handle)
	if err != nil {
		return gitgud_service.Assignment{}, err
	}
	problem := problems[choice-1]
	return r.Gitgud.AssignProblem(ctx, userID, handle, problem, problem.Rating-r.Gitgud.BaseRating(rating))
}

// VirtualContest recommends finished contests none of the handles has
// submitted to, newest first.
func (r *RecommendService) VirtualContest(
	ctx context.Context,
	userID int64,
	request VCRequest,
) ([]ContestRecommendation, error) {
	if err := service.ValidateInput(request); err != nil {
		return nil, err
	}
	users, err := r.handlesOrCaller(ctx, userID, request.Handles)
	if err != nil {
		return nil, err
	}

	markers := request.Markers
	if len(markers) == 0 {
		avg := averageRating(users)
		switch {
		case avg < vcDiv3Below:
			markers = []string{"div3"}
		case avg < vcDiv2Below:
			markers = []string{"div2"}
		default:
			markers = div1Markers
		}
	}

	visited := make(map[int]struct{})
	for _, u := range users {
		subs, err := r.Judge.UserStatus(ctx, u.Handle)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.Verdict != codeforces.VerdictCompilationError {
				visited[sub.ContestID] = struct{}{}
			}
		}
	}

	candidates := make([]codeforces.Contest, 0)
	for _, contest := range r.Contests.ContestsInPhase(codeforces.PhaseFinished) {
		if !contest.Matches(markers) || catalog.IsNonstandardContest(contest) {
			continue
		}
		if _, ok := visited[contest.ID]; ok {
			continue
		}
		if slices.ContainsFunc(users, func(u codeforces.User) bool {
			return r.Contests.IsContestWriter(contest.ID, u.Handle)
		}) {
			continue
		}
		candidates = append(candidates, contest)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w, unable to recommend a contest", tle_errors.ErrNotFound)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].StartTimeSeconds != candidates[j].StartTimeSeconds {
			return candidates[i].StartTimeSeconds > candidates[j].StartTimeSeconds
		}
		return candidates[i].ID > candidates[j].ID
	})
	candidates = candidates[:min(len(candidates), vcListLimit)]

	res := make([]ContestRecommendation, 0, len(candidates))
	for _, c := range candidates {
		res = append(res, ContestRecommendation{
			ID:        c.ID,
			Name:      c.Name,
			URL:       c.URL(),
			Duration:  tle_errors.PrettyDuration(c.Duration()),
			StartTime: c.StartTime().Format(time.RFC3339),
		})
	}
	return res, nil
}
