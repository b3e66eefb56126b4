package api

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/i-pranav/TLE-ACodeDaily/internal/catalog"
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database/memstore"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/hard75_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/rating_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/recommend_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

type fakeJudge struct {
	users map[string]codeforces.User
}

func (f *fakeJudge) UserStatus(context.Context, string) ([]codeforces.Submission, error) {
	return nil, nil
}

func (f *fakeJudge) UserRating(context.Context, string) ([]codeforces.RatingChange, error) {
	return nil, nil
}

func (f *fakeJudge) UserInfo(_ context.Context, handles ...string) ([]codeforces.User, error) {
	res := make([]codeforces.User, 0, len(handles))
	for _, h := range handles {
		u, ok := f.users[strings.ToLower(h)]
		if !ok {
			return nil, tle_errors.ErrNotFound
		}
		res = append(res, u)
	}
	return res, nil
}

func ptr(v int) *int { return &v }

// withTestClaims stands in for the jwt middleware.
func withTestClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if idStr := r.Header.Get(testUserHeader); idStr != "" {
			id, _ := strconv.ParseInt(idStr, 10, 64)
			r = r.WithContext(service.ContextWithClaims(r.Context(), service.UserCredentialClaims{UserID: id}))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer(t *testing.T, ready func(context.Context) error) *httptest.Server {
	t.Helper()
	snap := catalog.NewSnapshot(
		[]codeforces.Problem{
			{ContestID: 1, Index: "A", Name: "One", Rating: 1500},
			{ContestID: 1, Index: "B", Name: "Two", Rating: 1700},
			{ContestID: 2, Index: "A", Name: "Three", Rating: 1500},
		},
		[]codeforces.Contest{
			{ID: 1, Name: "Round 1", Phase: codeforces.PhaseFinished, StartTimeSeconds: 10},
			{ID: 2, Name: "Round 2", Phase: codeforces.PhaseFinished, StartTimeSeconds: 20},
		},
		nil,
	)
	judge := &fakeJudge{users: map[string]codeforces.User{
		"alice": {Handle: "Alice", Rating: ptr(1500), MaxRating: ptr(1600)},
	}}
	store := memstore.New()
	cat := catalog.New(snap)
	clock := func() time.Time { return time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC) }

	users := &user_service.UserService{DB: store, Judge: judge}
	problems := &problem_service.ProblemService{Catalog: cat, Sampler: sampler.NewWithSource(rand.NewSource(1))}
	gitgud := &gitgud_service.GitgudService{
		DB: store, Judge: judge, Users: users, Problems: problems,
		Policy: gitgud_service.DefaultPolicy(), Clock: clock,
	}
	a := &Api{
		UserServiceConfig:   users,
		GitgudServiceConfig: gitgud,
		Hard75ServiceConfig: &hard75_service.Hard75Service{
			DB: store, Judge: judge, Users: users, Problems: problems, Clock: clock,
		},
		RecommendServiceConfig: &recommend_service.RecommendService{
			Judge: judge, Users: users, Problems: problems, Contests: cat, Gitgud: gitgud,
		},
		RatingServiceConfig: &rating_service.RatingService{Users: users},
		Ready:               ready,
	}

	r := chi.NewRouter()
	r.Use(withTestClaims)
	r.Get("/healthz", a.HandlerReadiness)
	r.Post("/handles", a.HandlerSetHandle)
	r.Post("/gitgud", a.HandlerGitgud)
	r.Get("/gitgud/ranklist", a.HandlerGitgudders)
	r.Post("/hard75/letsgo", a.HandlerHard75LetsGo)
	r.Get("/hard75/streak", a.HandlerHard75Streak)
	r.Get("/hard75/leaderboard", a.HandlerHard75Leaderboard)
	r.Post("/recommend/upsolve/{choice}", a.HandlerUpsolvePick)
	r.Post("/recommend/fullsolve", a.HandlerFullsolve)
	r.Post("/recommend/stalk", a.HandlerStalk)
	r.Post("/rating/team", a.HandlerTeamRate)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, userID int64) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID > 0 {
		req.Header.Set(testUserHeader, strconv.FormatInt(userID, 10))
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	buf := new(strings.Builder)
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res.StatusCode, buf.String()
}

func TestReadiness(t *testing.T) {
	srv := newTestServer(t, nil)
	code, _ := do(t, srv, http.MethodGet, "/healthz", "", 0)
	assert.Equal(t, http.StatusOK, code)

	down := newTestServer(t, func(context.Context) error { return errors.New("pool closed") })
	code, _ = do(t, down, http.MethodGet, "/healthz", "", 0)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestGitgudFlowOverHttp(t *testing.T) {
	srv := newTestServer(t, nil)

	code, body := do(t, srv, http.MethodPost, "/gitgud", `{"delta":0}`, 1)
	assert.Equal(t, http.StatusNotFound, code, body)

	code, body = do(t, srv, http.MethodPost, "/handles", `{"handle":"alice"}`, 1)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"handle":"Alice"`)

	code, body = do(t, srv, http.MethodPost, "/gitgud", `{"delta":50}`, 1)
	assert.Equal(t, http.StatusBadRequest, code, body)

	code, body = do(t, srv, http.MethodPost, "/gitgud", `{"delta":0}`, 1)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Contains(t, body, `"points":8`)

	code, body = do(t, srv, http.MethodPost, "/gitgud", `{"delta":0}`, 1)
	assert.Equal(t, http.StatusConflict, code, body)

	code, _ = do(t, srv, http.MethodGet, "/gitgud/ranklist?monthly=maybe", "", 1)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHard75OverHttp(t *testing.T) {
	srv := newTestServer(t, nil)
	code, body := do(t, srv, http.MethodPost, "/handles", `{"handle":"alice"}`, 1)
	require.Equal(t, http.StatusOK, code, body)

	code, body = do(t, srv, http.MethodPost, "/hard75/letsgo", "", 1)
	require.Equal(t, http.StatusCreated, code, body)
	code, body = do(t, srv, http.MethodPost, "/hard75/letsgo", "", 1)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"existing":true`)

	code, _ = do(t, srv, http.MethodGet, "/hard75/streak", "", 1)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, srv, http.MethodGet, "/hard75/leaderboard?limit=x", "", 1)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSolvedHistoryOverHttp(t *testing.T) {
	srv := newTestServer(t, nil)
	code, body := do(t, srv, http.MethodPost, "/handles", `{"handle":"alice"}`, 1)
	require.Equal(t, http.StatusOK, code, body)

	// the judge reports no submissions for anyone
	code, body = do(t, srv, http.MethodPost, "/recommend/stalk", `{"hardest":true}`, 1)
	assert.Equal(t, http.StatusNotFound, code, body)
	code, body = do(t, srv, http.MethodPost, "/recommend/fullsolve", "", 1)
	assert.Equal(t, http.StatusNotFound, code, body)

	code, _ = do(t, srv, http.MethodPost, "/recommend/stalk", `{"rating_low":1600,"rating_high":1500}`, 1)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodPost, "/recommend/fullsolve", `{"contest":"div2"}`, 1)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	code, _ := do(t, srv, http.MethodPost, "/gitgud", `{"delta":0}`, 0)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, srv, http.MethodPost, "/gitgud", `{"unknown":1}`, 1)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, srv, http.MethodPost, "/recommend/upsolve/first", "", 1)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, srv, http.MethodPost, "/rating/team", `{"handles":["alice*x"]}`, 1)
	assert.Equal(t, http.StatusBadRequest, code, body)

	code, body = do(t, srv, http.MethodPost, "/rating/team", `{"handles":["alice"],"peak":true}`, 1)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"rating":1600`)
}

func TestHandlerErrorMapping(t *testing.T) {
	cases := map[error]int{
		tle_errors.ErrInvalidRequest:     http.StatusBadRequest,
		tle_errors.ErrUnAuthorized:       http.StatusForbidden,
		tle_errors.ErrNoProblemFound:     http.StatusNotFound,
		tle_errors.ErrAlreadyClaimed:     http.StatusConflict,
		tle_errors.ErrHttpResponse:       http.StatusBadGateway,
		errors.New("connection refused"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		rec := httptest.NewRecorder()
		handlerError(err, rec)
		assert.Equal(t, want, rec.Code, err.Error())
	}

	rec := httptest.NewRecorder()
	handlerError(errors.New("secret dsn in here"), rec)
	assert.NotContains(t, rec.Body.String(), "dsn")
}
