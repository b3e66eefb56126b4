package user_service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// ResolveHandle returns the judge handle linked to the user.
func (u *UserService) ResolveHandle(ctx context.Context, userID int64) (string, error) {
	handle, err := u.DB.GetHandle(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w, user %d must set a handle first", tle_errors.ErrHandleNotSet, userID)
		}
		return "", tle_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot fetch handle of user %d", userID),
		)
	}
	return handle, nil
}

// SetHandle links the user to a handle after checking it exists on the judge.
// The handle is stored with the judge's capitalization.
func (u *UserService) SetHandle(
	ctx context.Context,
	userID int64,
	request SetHandleRequest,
) (LinkedHandle, error) {
	// validate
	if err := service.ValidateInput(request); err != nil {
		return LinkedHandle{}, err
	}

	// confirm with judge
	users, err := u.Judge.UserInfo(ctx, request.Handle)
	if err != nil {
		return LinkedHandle{}, err
	}
	judgeUser := users[0]

	// store
	dbHandle, err := u.DB.UpsertHandle(ctx, database.UpsertHandleParams{
		UserID: userID,
		Handle: judgeUser.Handle,
	})
	if err != nil {
		return LinkedHandle{}, tle_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot link user %d to handle %s", userID, judgeUser.Handle),
		)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"handle":  dbHandle.Handle,
	}).Info("handle linked")
	return LinkedHandle{
		UserID: dbHandle.UserID,
		Handle: dbHandle.Handle,
		Rating: judgeUser.Rating,
	}, nil
}

func (u *UserService) ListHandles(ctx context.Context) ([]database.UserHandle, error) {
	handles, err := u.DB.ListHandles(ctx)
	if err != nil {
		return nil, tle_errors.HandleDBErrors(err, errMsgs, "cannot list linked handles")
	}
	return handles, nil
}

// Users fetches judge info for the handles, in request order.
func (u *UserService) Users(ctx context.Context, handles ...string) ([]codeforces.User, error) {
	return u.Judge.UserInfo(ctx, handles...)
}

// EffectiveRating is the current judge rating of the handle, unrated
// handles count as codeforces.UnratedDefaultRating.
func (u *UserService) EffectiveRating(ctx context.Context, handle string) (int, error) {
	users, err := u.Judge.UserInfo(ctx, handle)
	if err != nil {
		return 0, err
	}
	return users[0].EffectiveRating(), nil
}

// FetchUserRoles merges the roles carried by the caller's claims with the
// roles stored for the user. Everybody is a "User".
func (u *UserService) FetchUserRoles(ctx context.Context, userID int64) ([]string, error) {
	roles := []string{roleUser}

	if claims, err := service.GetClaimsFromContext(ctx); err == nil && claims.UserID == userID {
		roles = append(roles, claims.Roles...)
	}

	dbRoles, err := u.DB.GetUserRoles(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Errorf("error fetching roles for user %d, %v", userID, err)
		return nil, tle_errors.ErrInternal
	}
	for _, r := range dbRoles {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

// AuthorizeUserRole succeeds when the user holds any of the roles.
func (u *UserService) AuthorizeUserRole(
	ctx context.Context,
	userID int64,
	warnMessage string,
	allowed ...UserRole,
) error {
	roles, err := u.FetchUserRoles(ctx, userID)
	if err != nil {
		return err
	}
	for _, role := range allowed {
		if slices.Contains(roles, string(role)) {
			return nil
		}
	}
	if warnMessage != "" {
		log.Warn(warnMessage)
	}
	return tle_errors.ErrUnAuthorized
}
