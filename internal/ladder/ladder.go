// Package ladder serves the curated daily problem lists, grouped by rating.
package ladder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	log "github.com/sirupsen/logrus"
)

type Entry struct {
	Name      string `json:"name"`
	ContestID int    `json:"contest_id"`
	Index     string `json:"index"`
}

type Ladder interface {
	CuratedProblems(ctx context.Context, rating int) ([]Entry, error)
}

type ratingGroup struct {
	Rating   int     `json:"rating"`
	Problems []Entry `json:"problems"`
}

// FileLadder is loaded once from a json file and never modified afterwards.
type FileLadder struct {
	byRating map[int][]Entry
}

// Load reads a ladder file of the form
// [{"rating": 1200, "problems": [{"name": "...", "contest_id": 1, "index": "A"}]}].
// An empty path gives an empty ladder.
func Load(path string) (*FileLadder, error) {
	l := &FileLadder{byRating: map[int][]Entry{}}
	if path == "" {
		log.Warn("no ladder file configured, hard75 will use the catalog only")
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w, cannot read ladder file %s: %w", tle_errors.ErrInternal, path, err)
	}
	var groups []ratingGroup
	if err = json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("%w, cannot parse ladder file %s: %w", tle_errors.ErrInternal, path, err)
	}
	for _, g := range groups {
		l.byRating[g.Rating] = append(l.byRating[g.Rating], g.Problems...)
	}
	log.WithField("ratings", len(l.byRating)).Info("ladder loaded")
	return l, nil
}

func FromEntries(byRating map[int][]Entry) *FileLadder {
	return &FileLadder{byRating: byRating}
}

// CuratedProblems returns the curated entries for the rating in file order.
func (l *FileLadder) CuratedProblems(_ context.Context, rating int) ([]Entry, error) {
	entries := l.byRating[rating]
	res := make([]Entry, len(entries))
	copy(res, entries)
	return res, nil
}
