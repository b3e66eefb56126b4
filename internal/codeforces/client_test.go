package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user.status", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "tourist", r.URL.Query().Get("handle"))
		w.Write([]byte(`{"status":"OK","result":[
			{"id":2,"contestId":1,"creationTimeSeconds":20,"problem":{"contestId":1,"index":"A","name":"Theatre Square","rating":1000,"tags":["math"]},"verdict":"OK"},
			{"id":1,"contestId":1,"creationTimeSeconds":10,"problem":{"contestId":1,"index":"B","name":"Spreadsheet","rating":1600,"tags":["implementation"]},"verdict":"WRONG_ANSWER"}
		]}`))
	})
	mux.HandleFunc("/api/user.info", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("handles") == "ghost" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle ghost not found"}`))
			return
		}
		w.Write([]byte(`{"status":"OK","result":[{"handle":"tourist","rating":3800,"maxRating":4000},{"handle":"newbie"}]}`))
	})
	mux.HandleFunc("/api/user.rating", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"status":"OK","result":[{"contestId":1,"contestName":"Round 1","handle":"tourist","newRating":1700}]}`))
	})
	mux.HandleFunc("/api/problemset.problems", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"problems":[{"contestId":1,"index":"A","name":"Theatre Square","rating":1000}],"problemStatistics":[]}}`))
	})
	mux.HandleFunc("/api/contest.list", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("gym"))
		w.Write([]byte(`{"status":"OK","result":[{"id":1,"name":"Codeforces Beta Round #1","phase":"FINISHED","startTimeSeconds":1266580800}]}`))
	})
	mux.HandleFunc("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T) (*Client, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	srv := newTestServer(t, hits)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL + "/api")
	require.NoError(t, err)
	return c, hits
}

func TestUserStatus(t *testing.T) {
	c, hits := newTestClient(t)
	subs, err := c.UserStatus(context.Background(), "tourist")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Theatre Square", subs[0].Problem.Name)

	// never cached
	_, err = c.UserStatus(context.Background(), "tourist")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())

	assert.Contains(t, SolvedNames(subs), "Theatre Square")
	assert.NotContains(t, SolvedNames(subs), "Spreadsheet")
	assert.Contains(t, SeenNames(subs), "Spreadsheet")
}

func TestUserInfoCachesAndDefaultsUnrated(t *testing.T) {
	c, hits := newTestClient(t)
	users, err := c.UserInfo(context.Background(), "tourist", "newbie")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 3800, users[0].EffectiveRating())
	assert.Equal(t, UnratedDefaultRating, users[1].EffectiveRating())

	_, err = c.UserInfo(context.Background(), "Tourist")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestUserInfoUnknownHandle(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.UserInfo(context.Background(), "ghost")
	assert.ErrorIs(t, err, tle_errors.ErrNotFound)
}

func TestUserRatingCached(t *testing.T) {
	c, hits := newTestClient(t)
	for range 3 {
		changes, err := c.UserRating(context.Background(), "tourist")
		require.NoError(t, err)
		require.Len(t, changes, 1)
	}
	assert.EqualValues(t, 1, hits.Load())
}

func TestProblemsetAndContests(t *testing.T) {
	c, _ := newTestClient(t)
	problems, err := c.Problemset(context.Background())
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "https://codeforces.com/contest/1/problem/A", problems[0].URL())

	contests, err := c.Contests(context.Background())
	require.NoError(t, err)
	require.Len(t, contests, 1)
	assert.Equal(t, PhaseFinished, contests[0].Phase)
}

func TestQueryBadBody(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := query[[]Submission](context.Background(), c, "broken", nil)
	assert.ErrorIs(t, err, tle_errors.ErrHttpResponse)
}

func TestProblemTagMatching(t *testing.T) {
	p := Problem{Tags: []string{"dp", "graphs", "*special"}}
	assert.True(t, p.MatchesAllTags([]string{"dp", "graph"}))
	assert.False(t, p.MatchesAllTags([]string{"dp", "math"}))
	assert.True(t, p.MatchesAnyTag([]string{"math", "graph"}))
	assert.False(t, p.MatchesAnyTag(nil))
	assert.True(t, p.MatchesAllTags(nil))
	assert.Equal(t, []string{"graphs"}, p.MatchedTags([]string{"graph"}))
}

func TestContestMatches(t *testing.T) {
	c := Contest{ID: 1500, Name: "Codeforces Round #700 (Div. 2)"}
	assert.True(t, c.Matches([]string{"div2"}))
	assert.False(t, c.Matches([]string{"div1", "global"}))
	assert.Equal(t, "https://codeforces.com/contest/1500", c.URL())

	gym := Contest{ID: 102000}
	assert.Equal(t, "https://codeforces.com/gym/102000", gym.URL())
}
