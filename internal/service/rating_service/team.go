package rating_service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/sirupsen/logrus"
)

const serverLabel = "+server"

// ParseHandleMultipliers reads "handle" and "handle*n" arguments. Handles are
// matched case-insensitively and a repeated handle keeps the last multiplier.
func ParseHandleMultipliers(args []string) ([]HandleCount, error) {
	res := make([]HandleCount, 0, len(args))
	index := make(map[string]int, len(args))
	for _, arg := range args {
		handle, multiplier, found := strings.Cut(arg, "*")
		handle = strings.ToLower(strings.TrimSpace(handle))
		if handle == "" {
			return nil, fmt.Errorf("%w, empty handle in %q", tle_errors.ErrInvalidRequest, arg)
		}
		count := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(multiplier))
			if err != nil {
				return nil, fmt.Errorf("%w, can't multiply by non-integer %q", tle_errors.ErrInvalidRequest, multiplier)
			}
			if n <= 0 {
				return nil, fmt.Errorf("%w, how can you have nonpositive members in team", tle_errors.ErrInvalidRequest)
			}
			count = n
		}
		if i, ok := index[handle]; ok {
			res[i].Count = count
			continue
		}
		index[handle] = len(res)
		res = append(res, HandleCount{Handle: handle, Count: count})
	}
	return res, nil
}

// TeamRate composes the ratings of the given handles, or of the caller when
// none are given. Unrated handles are skipped.
func (r *RatingService) TeamRate(ctx context.Context, userID int64, request TeamRateRequest) (TeamRating, error) {
	if err := service.ValidateInput(request); err != nil {
		return TeamRating{}, err
	}
	if request.Server {
		return r.ServerRate(ctx, request.Peak)
	}

	members, err := ParseHandleMultipliers(request.Handles)
	if err != nil {
		return TeamRating{}, err
	}
	if len(members) == 0 {
		handle, err := r.Users.ResolveHandle(ctx, userID)
		if err != nil {
			return TeamRating{}, err
		}
		members = []HandleCount{{Handle: handle, Count: 1}}
	}

	handles := make([]string, 0, len(members))
	counts := make(map[string]int, len(members))
	for _, m := range members {
		handles = append(handles, m.Handle)
		counts[strings.ToLower(m.Handle)] = m.Count
	}
	users, err := r.Users.Users(ctx, handles...)
	if err != nil {
		return TeamRating{}, err
	}

	res := TeamRating{Members: make([]HandleCount, 0, len(members))}
	pairs := make([]Pair, 0, len(members))
	labels := make([]string, 0, len(members))
	for _, u := range users {
		count, ok := counts[strings.ToLower(u.Handle)]
		if !ok {
			// a renamed handle comes back under its new name
			logger.Warnf("judge returned unrequested handle %s, counting it once", u.Handle)
			count = 1
		}
		// judge capitalization
		member := HandleCount{Handle: u.Handle, Count: count}
		res.Members = append(res.Members, member)
		if member.Count > 1 {
			labels = append(labels, fmt.Sprintf("%s*%d", member.Handle, member.Count))
		} else {
			labels = append(labels, member.Handle)
		}

		rating := pickRating(u, request.Peak)
		if rating == nil {
			res.Unrated = append(res.Unrated, u.Handle)
			continue
		}
		pairs = append(pairs, Pair{Rating: float64(*rating), Weight: member.Count})
	}
	res.Label = strings.Join(labels, ", ")

	if len(pairs) == 0 {
		return TeamRating{}, fmt.Errorf("%w, no rated handles passed in", tle_errors.ErrNotFound)
	}
	res.Rating, err = Compose(pairs)
	if err != nil {
		return TeamRating{}, err
	}

	logger.WithFields(logrus.Fields{
		"team":   res.Label,
		"rating": res.Rating,
	}).Debug("team rated")
	return res, nil
}

// ServerRate composes the ratings of every linked user.
func (r *RatingService) ServerRate(ctx context.Context, peak bool) (TeamRating, error) {
	linked, err := r.Users.ListHandles(ctx)
	if err != nil {
		return TeamRating{}, err
	}
	if len(linked) == 0 {
		return TeamRating{}, fmt.Errorf("%w, no user has linked a handle", tle_errors.ErrNotFound)
	}

	handles := make([]string, 0, len(linked))
	for _, l := range linked {
		handles = append(handles, l.Handle)
	}
	users, err := r.Users.Users(ctx, handles...)
	if err != nil {
		return TeamRating{}, err
	}

	res := TeamRating{Label: serverLabel, Members: make([]HandleCount, 0, len(users))}
	pairs := make([]Pair, 0, len(users))
	for _, u := range users {
		rating := pickRating(u, peak)
		if rating == nil {
			res.Unrated = append(res.Unrated, u.Handle)
			continue
		}
		res.Members = append(res.Members, HandleCount{Handle: u.Handle, Count: 1})
		pairs = append(pairs, Pair{Rating: float64(*rating), Weight: 1})
	}
	if len(pairs) == 0 {
		return TeamRating{}, fmt.Errorf("%w, no linked user is rated", tle_errors.ErrNotFound)
	}
	res.Rating, err = Compose(pairs)
	if err != nil {
		return TeamRating{}, err
	}
	return res, nil
}

func pickRating(u codeforces.User, peak bool) *int {
	if peak {
		return u.MaxRating
	}
	return u.Rating
}
