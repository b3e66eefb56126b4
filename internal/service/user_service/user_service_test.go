package user_service

import (
	"context"
	"testing"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database/memstore"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
		u, ok := f.users[h]
		if !ok {
			return nil, tle_errors.ErrNotFound
		}
		res = append(res, u)
	}
	return res, nil
}

func ptr(v int) *int { return &v }

func newTestService() (*UserService, *memstore.Store) {
	store := memstore.New()
	return &UserService{
		DB: store,
		Judge: &fakeJudge{users: map[string]codeforces.User{
			"tourist": {Handle: "tourist", Rating: ptr(3800)},
			"newbie":  {Handle: "Newbie"},
		}},
	}, store
}

func TestSetAndResolveHandle(t *testing.T) {
	ctx := context.Background()
	us, _ := newTestService()

	_, err := us.ResolveHandle(ctx, 1)
	assert.ErrorIs(t, err, tle_errors.ErrHandleNotSet)

	linked, err := us.SetHandle(ctx, 1, SetHandleRequest{Handle: "newbie"})
	require.NoError(t, err)
	assert.Equal(t, "Newbie", linked.Handle)
	assert.Nil(t, linked.Rating)

	handle, err := us.ResolveHandle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Newbie", handle)

	rating, err := us.EffectiveRating(ctx, "newbie")
	require.NoError(t, err)
	assert.Equal(t, codeforces.UnratedDefaultRating, rating)
}

func TestSetHandleErrors(t *testing.T) {
	ctx := context.Background()
	us, _ := newTestService()

	_, err := us.SetHandle(ctx, 1, SetHandleRequest{})
	assert.ErrorIs(t, err, tle_errors.ErrInvalidRequest)

	_, err = us.SetHandle(ctx, 1, SetHandleRequest{Handle: "ghost"})
	assert.ErrorIs(t, err, tle_errors.ErrNotFound)

	_, err = us.SetHandle(ctx, 1, SetHandleRequest{Handle: "tourist"})
	require.NoError(t, err)
	_, err = us.SetHandle(ctx, 2, SetHandleRequest{Handle: "tourist"})
	require.ErrorIs(t, err, tle_errors.ErrConflict)
	assert.Contains(t, err.Error(), "already linked")
}

func TestAuthorizeUserRole(t *testing.T) {
	ctx := context.Background()
	us, store := newTestService()

	err := us.AuthorizeUserRole(ctx, 1, "", RoleModerator, RoleAdmin)
	assert.ErrorIs(t, err, tle_errors.ErrUnAuthorized)

	store.SetRoles(1, string(RoleAdmin))
	assert.NoError(t, us.AuthorizeUserRole(ctx, 1, "", RoleModerator, RoleAdmin))

	// roles from the token count for the token owner only
	claimsCtx := service.ContextWithClaims(ctx, service.UserCredentialClaims{
		UserID: 2,
		Roles:  []string{string(RoleModerator)},
	})
	assert.NoError(t, us.AuthorizeUserRole(claimsCtx, 2, "", RoleModerator))
	assert.ErrorIs(t, us.AuthorizeUserRole(claimsCtx, 3, "", RoleModerator), tle_errors.ErrUnAuthorized)
}
