package recommend_service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/catalog"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database/memstore"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID int64 = 1
	carolID int64 = 3
)

type fakeJudge struct {
	users       map[string]codeforces.User
	submissions map[string][]codeforces.Submission
	ratings     map[string][]codeforces.RatingChange
}

func (f *fakeJudge) UserStatus(_ context.Context, handle string) ([]codeforces.Submission, error) {
	return f.submissions[handle], nil
}

func (f *fakeJudge) UserRating(_ context.Context, handle string) ([]codeforces.RatingChange, error) {
	return f.ratings[handle], nil
}

func (f *fakeJudge) UserInfo(_ context.Context, handles ...string) ([]codeforces.User, error) {
	res := make([]codeforces.User, 0, len(handles))
	for _, h := range handles {
		u, ok := f.users[h]
		if !ok {
			return nil, tle_errors.ErrNotFound
		}
		res = append(res, u)
	}
	return res, nil
}

func ptr(v int) *int { return &v }

func sub(contestID int, name, verdict string) codeforces.Submission {
	return codeforces.Submission{
		ContestID: contestID,
		Problem:   codeforces.Problem{ContestID: contestID, Name: name},
		Verdict:   verdict,
	}
}

func solvedAt(p codeforces.Problem, verdict string, at int64) codeforces.Submission {
	return codeforces.Submission{
		ContestID:           p.ContestID,
		CreationTimeSeconds: at,
		Problem:             p,
		Verdict:             verdict,
	}
}

func newTestService(t *testing.T) *RecommendService {
	t.Helper()
	snap := catalog.NewSnapshot(
		[]codeforces.Problem{
			{ContestID: 30, Index: "A", Name: "P30A", Rating: 1200, Tags: []string{"greedy"}},
			{ContestID: 30, Index: "B", Name: "P30B", Rating: 1400, Tags: []string{"dp"}},
			{ContestID: 30, Index: "C", Name: "P30C", Rating: 1600, Tags: []string{"dp", "math"}},
			{ContestID: 31, Index: "A", Name: "P31A", Rating: 1200},
			{ContestID: 31, Index: "B", Name: "P31B", Rating: 1400, Tags: []string{"dp"}},
			{ContestID: 31, Index: "C", Name: "P31C", Rating: 1600},
			{ContestID: 32, Index: "A", Name: "P32A", Rating: 1500},
			{ContestID: 32, Index: "B", Name: "P32B", Rating: 1700},
			{ContestID: 33, Index: "A", Name: "K33A", Rating: 1400},
			{ContestID: 34, Index: "A", Name: "P34A", Rating: 1400},
		},
		[]codeforces.Contest{
			{ID: 30, Name: "Codeforces Round 30 (Div. 3)", Phase: codeforces.PhaseFinished, StartTimeSeconds: 100, DurationSeconds: 7200},
			{ID: 31, Name: "Codeforces Round 31 (Div. 3)", Phase: codeforces.PhaseFinished, StartTimeSeconds: 200, DurationSeconds: 7200},
			{ID: 32, Name: "Codeforces Round 32 (Div. 2)", Phase: codeforces.PhaseFinished, StartTimeSeconds: 300, DurationSeconds: 7200},
			{ID: 33, Name: "Kotlin Heroes (Div. 3)", Phase: codeforces.PhaseFinished, StartTimeSeconds: 400, DurationSeconds: 9000},
			{ID: 34, Name: "Codeforces Round 34 (Div. 3)", Phase: codeforces.PhaseFinished, StartTimeSeconds: 500, DurationSeconds: 8100},
			{ID: 35, Name: "Codeforces Round 35 (Div. 3)", Phase: "BEFORE", StartTimeSeconds: 600},
		},
		map[int][]string{34: {"bob"}},
	)
	judge := &fakeJudge{
		users: map[string]codeforces.User{
			"alice": {Handle: "alice", Rating: ptr(1400)},
			"bob":   {Handle: "bob", Rating: ptr(1900)},
			"carol": {Handle: "carol", Rating: ptr(1500)},
		},
		submissions: map[string][]codeforces.Submission{
			"alice": {
				sub(30, "P30A", codeforces.VerdictOK),
				sub(30, "P30B", "WRONG_ANSWER"),
				sub(31, "P31A", codeforces.VerdictCompilationError),
			},
			"carol": {
				solvedAt(codeforces.Problem{ContestID: 31, Index: "A", Name: "P31A", Rating: 1200}, codeforces.VerdictOK, 10),
				solvedAt(codeforces.Problem{ContestID: 31, Index: "B", Name: "P31B", Rating: 1400, Tags: []string{"dp"}}, codeforces.VerdictOK, 20),
				solvedAt(codeforces.Problem{ContestID: 32, Index: "A", Name: "P32A", Rating: 1500}, codeforces.VerdictOK, 30),
				solvedAt(codeforces.Problem{ContestID: 30, Index: "C", Name: "P30C", Rating: 1600, Tags: []string{"dp", "math"}}, "WRONG_ANSWER", 5),
				solvedAt(codeforces.Problem{ContestID: 30, Index: "C", Name: "P30C", Rating: 1600, Tags: []string{"dp", "math"}}, codeforces.VerdictOK, 40),
				solvedAt(codeforces.Problem{ContestID: 31, Index: "A", Name: "P31A", Rating: 1200}, codeforces.VerdictOK, 50),
				solvedAt(codeforces.Problem{ContestID: 32, Index: "B", Name: "P32B", Rating: 1700}, "WRONG_ANSWER", 60),
			},
		},
		ratings: map[string][]codeforces.RatingChange{
			"alice": {{ContestID: 30}, {ContestID: 31}},
		},
	}
	store := memstore.New()
	for id, h := range map[int64]string{aliceID: "alice", carolID: "carol"} {
		_, err := store.UpsertHandle(context.Background(), database.UpsertHandleParams{UserID: id, Handle: h})
		require.NoError(t, err)
	}

	cat := catalog.New(snap)
	users := &user_service.UserService{DB: store, Judge: judge}
	problems := &problem_service.ProblemService{
		Catalog: cat,
		Sampler: sampler.NewWithSource(rand.NewSource(11)),
	}
	clock := func() time.Time { return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC) }
	return &RecommendService{
		Judge:    judge,
		Users:    users,
		Problems: problems,
		Contests: cat,
		Gitgud: &gitgud_service.GitgudService{
			DB:       store,
			Judge:    judge,
			Users:    users,
			Problems: problems,
			Policy:   gitgud_service.DefaultPolicy(),
			Clock:    clock,
		},
	}
}

func TestGimmeDefaultRating(t *testing.T) {
	svc := newTestService(t)
	for range 20 {
		rec, err := svc.Gimme(context.Background(), aliceID, GimmeRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1400, rec.Rating)
		assert.Contains(t, []string{"P30B", "P31B", "P34A"}, rec.Name)
		assert.False(t, rec.RatingHidden)
	}
}

func TestGimmeTagsAndRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Gimme(ctx, aliceID, GimmeRequest{Tags: []string{"dp"}, BanTags: []string{"math"}})
	require.NoError(t, err)
	assert.Contains(t, []string{"P30B", "P31B"}, rec.Name)
	assert.Equal(t, []string{"dp"}, rec.MatchedTags)

	rec, err = svc.Gimme(ctx, aliceID, GimmeRequest{Rating: ptr(1500), RatingHigh: ptr(1600)})
	require.NoError(t, err)
	assert.True(t, rec.RatingHidden)
	assert.GreaterOrEqual(t, rec.Rating, 1500)
	assert.LessOrEqual(t, rec.Rating, 1600)
	assert.NotEmpty(t, rec.ContestName)

	_, err = svc.Gimme(ctx, aliceID, GimmeRequest{Rating: ptr(3000)})
	assert.ErrorIs(t, err, tle_errors.ErrNoProblemFound)
}

func TestGimmeInvalidRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Gimme(ctx, aliceID, GimmeRequest{RatingHigh: ptr(1500)})
	assert.ErrorIs(t, err, tle_errors.ErrInvalidRequest)
	_, err = svc.Gimme(ctx, aliceID, GimmeRequest{Rating: ptr(1600), RatingHigh: ptr(1500)})
	assert.ErrorIs(t, err, tle_errors.ErrInvalidRequest)
}

func TestMashup(t *testing.T) {
	svc := newTestService(t)
	m, err := svc.Mashup(context.Background(), aliceID, MashupRequest{Handles: []string{"alice", "bob"}})
	require.NoError(t, err)
	assert.Equal(t, 1700, m.Rating)
	require.Len(t, m.Problems, 4)

	names := map[string]bool{}
	for i, p := range m.Problems {
		names[p.Name] = true
		if i > 0 {
			assert.LessOrEqual(t, m.Problems[i-1].Rating, p.Rating)
		}
	}
	assert.Len(t, names, 4)
	for _, excluded := range []string{"P30A", "P30B", "P31A", "K33A", "P34A"} {
		assert.False(t, names[excluded], excluded)
	}
}

func TestMashupNotEnoughProblems(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Mashup(context.Background(), aliceID, MashupRequest{Tags: []string{"math"}})
	assert.ErrorIs(t, err, tle_errors.ErrNoProblemFound)
}

func TestUpsolveList(t *testing.T) {
	svc := newTestService(t)
	list, err := svc.Upsolve(context.Background(), aliceID)
	require.NoError(t, err)

	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"P31A", "P30B", "P31B", "P30C", "P31C"}, names)
	assert.Equal(t, 1, list[0].Choice)
}

func TestUpsolvePick(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsolvePick(ctx, aliceID, 99)
	assert.ErrorIs(t, err, tle_errors.ErrInvalidRequest)

	a, err := svc.UpsolvePick(ctx, aliceID, 2)
	require.NoError(t, err)
	assert.Equal(t, "P30B", a.Challenge.ProblemName)
	assert.EqualValues(t, 0, a.Challenge.Delta)
	assert.Equal(t, 8, a.Points)

	_, err = svc.UpsolvePick(ctx, aliceID, 1)
	var active *tle_errors.ActiveChallengeError
	require.ErrorAs(t, err, &active)
	assert.Equal(t, "P30B", active.ProblemName)
}

func TestVirtualContest(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	recs, err := svc.VirtualContest(ctx, aliceID, VCRequest{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 34, recs[0].ID)
	assert.Equal(t, 31, recs[1].ID)
	assert.Equal(t, "2h 15m", recs[0].Duration)

	recs, err = svc.VirtualContest(ctx, aliceID, VCRequest{Handles: []string{"alice", "bob"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 32, recs[0].ID)

	recs, err = svc.VirtualContest(ctx, aliceID, VCRequest{Handles: []string{"alice", "bob"}, Markers: []string{"div3"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 31, recs[0].ID)

	_, err = svc.VirtualContest(ctx, aliceID, VCRequest{Markers: []string{"educational"}})
	assert.ErrorIs(t, err, tle_errors.ErrNotFound)
}

func solvedNames(entries []SolvedEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestStalk(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	recent, err := svc.Stalk(ctx, carolID, StalkRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"P31A", "P30C", "P32A", "P31B"}, solvedNames(recent))
	assert.Equal(t, "carol", recent[0].Handle)
	assert.Equal(t, "1970-01-01T00:00:50Z", recent[0].SolvedAt)
	assert.Equal(t, "Codeforces Round 31 (Div. 3)", recent[0].ContestName)

	hardest, err := svc.Stalk(ctx, carolID, StalkRequest{Hardest: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"P30C", "P32A", "P31B", "P31A"}, solvedNames(hardest))

	ranged, err := svc.Stalk(ctx, carolID, StalkRequest{RatingLow: ptr(1400), RatingHigh: ptr(1500)})
	require.NoError(t, err)
	assert.Equal(t, []string{"P32A", "P31B"}, solvedNames(ranged))

	tagged, err := svc.Stalk(ctx, carolID, StalkRequest{Tags: []string{"dp"}, BanTags: []string{"math"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"P31B"}, solvedNames(tagged))
}

func TestStalkSeveralHandles(t *testing.T) {
	svc := newTestService(t)
	list, err := svc.Stalk(context.Background(), aliceID, StalkRequest{Handles: []string{"alice", "carol"}})
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "P30A", list[4].Name)
	assert.Equal(t, "alice", list[4].Handle)
}

func TestStalkErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Stalk(ctx, carolID, StalkRequest{RatingLow: ptr(1600), RatingHigh: ptr(1500)})
	assert.ErrorIs(t, err, tle_errors.ErrInvalidRequest)

	_, err = svc.Stalk(ctx, carolID, StalkRequest{RatingLow: ptr(3000)})
	assert.ErrorIs(t, err, tle_errors.ErrNotFound)
}

func TestFullsolve(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	list, err := svc.Fullsolve(ctx, carolID, FullsolveRequest{})
	require.NoError(t, err)
	ids := make([]int, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{32, 31, 30}, ids)
	assert.Equal(t, 2, list[1].Solved)
	assert.Equal(t, 3, list[1].Total)

	div3, err := svc.Fullsolve(ctx, carolID, FullsolveRequest{Markers: []string{"div3"}})
	require.NoError(t, err)
	require.Len(t, div3, 2)
	assert.Equal(t, 31, div3[0].ID)
	assert.Equal(t, 30, div3[1].ID)

	alice, err := svc.Fullsolve(ctx, aliceID, FullsolveRequest{})
	require.NoError(t, err)
	require.Len(t, alice, 1)
	assert.Equal(t, 30, alice[0].ID)
	assert.Equal(t, 1, alice[0].Solved)

	_, err = svc.Fullsolve(ctx, aliceID, FullsolveRequest{Markers: []string{"div2"}})
	assert.ErrorIs(t, err, tle_errors.ErrNotFound)
}
