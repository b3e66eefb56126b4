package problem_service

import (
	"math/rand"
	"testing"

	"github.com/i-pranav/TLE-ACodeDaily/internal/catalog"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/stretchr/testify/assert"
)

func newTestService() *ProblemService {
	snap := catalog.NewSnapshot(
		[]codeforces.Problem{
			{ContestID: 3, Index: "A", Name: "Newest", Rating: 1600, Tags: []string{"dp"}},
			{ContestID: 1, Index: "A", Name: "Oldest", Rating: 1600, Tags: []string{"graphs", "dfs and similar"}},
			{ContestID: 2, Index: "A", Name: "Middle", Rating: 1700, Tags: []string{"math"}},
			{ContestID: 2, Index: "B", Name: "Unrated", Tags: []string{"math"}},
			{ContestID: 4, Index: "A", Name: "Joke", Rating: 1600},
			{ContestID: 5, Index: "A", Name: "Own Round", Rating: 1600},
		},
		[]codeforces.Contest{
			{ID: 1, Name: "Round 1", StartTimeSeconds: 10},
			{ID: 2, Name: "Round 2", StartTimeSeconds: 20},
			{ID: 3, Name: "Round 3", StartTimeSeconds: 30},
			{ID: 4, Name: "April Fools Day Contest", StartTimeSeconds: 40},
			{ID: 5, Name: "Round 5", StartTimeSeconds: 50},
		},
		map[int][]string{5: {"me"}},
	)
	return &ProblemService{
		Catalog: catalog.New(snap),
		Sampler: sampler.NewWithSource(rand.NewSource(1)),
	}
}

func names(problems []codeforces.Problem) []string {
	res := make([]string, 0, len(problems))
	for _, p := range problems {
		res = append(res, p.Name)
	}
	return res
}

func TestEligibleExactOrderedByContestStart(t *testing.T) {
	ps := newTestService()
	got := ps.Eligible(Criteria{Target: Exact(1600), Handles: []string{"me"}})
	// joke round and own round are dropped
	assert.Equal(t, []string{"Oldest", "Newest"}, names(got))
}

func TestEligibleRangeAndExclusions(t *testing.T) {
	ps := newTestService()
	got := ps.Eligible(Criteria{
		Target:  Between(1600, 1700),
		Exclude: []map[string]struct{}{NameSet([]string{"Oldest"})},
	})
	assert.Equal(t, []string{"Middle", "Newest", "Own Round"}, names(got))
}

func TestEligibleTags(t *testing.T) {
	ps := newTestService()

	got := ps.Eligible(Criteria{Target: AnyRated(), Tags: []string{"graph"}})
	assert.Equal(t, []string{"Oldest"}, names(got))

	got = ps.Eligible(Criteria{Target: Between(1600, 1700), BanTags: []string{"dp", "math"}})
	assert.Equal(t, []string{"Oldest", "Own Round"}, names(got))
}

func TestEligibleSkipsUnrated(t *testing.T) {
	ps := newTestService()
	got := ps.Eligible(Criteria{Target: AnyRated(), Contests: map[int]struct{}{2: {}}})
	assert.Equal(t, []string{"Middle"}, names(got))
}

func TestEligibleEmpty(t *testing.T) {
	ps := newTestService()
	got := ps.Eligible(Criteria{Target: Exact(3500)})
	assert.Empty(t, got)

	_, ok := ps.PickOne(Criteria{Target: Exact(3500)}, 5)
	assert.False(t, ok)
}

func TestPickOneSingleCandidate(t *testing.T) {
	ps := newTestService()
	p, ok := ps.PickOne(Criteria{Target: Exact(1700)}, 5)
	assert.True(t, ok)
	assert.Equal(t, "Middle", p.Name)
}

func TestRelativeTarget(t *testing.T) {
	assert.Equal(t, Exact(1800), Relative(1600, 200))
}

func TestUnion(t *testing.T) {
	u := Union(NameSet([]string{"a", "b"}), NameSet([]string{"b", "c"}))
	assert.Len(t, u, 3)
}
