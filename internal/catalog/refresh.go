package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	"github.com/sirupsen/logrus"
)

type Source interface {
	Problemset(ctx context.Context) ([]codeforces.Problem, error)
	Contests(ctx context.Context) ([]codeforces.Contest, error)
}

var refresherLogger = logrus.WithField("from", "catalog-refresher")

type Refresher struct {
	Catalog     *Catalog
	Source      Source
	WritersFile string // optional json file with contest writers
	logger      *logrus.Entry
}

func NewRefresher(catalog *Catalog, source Source, writersFile string) *Refresher {
	return &Refresher{
		Catalog:     catalog,
		Source:      source,
		WritersFile: writersFile,
		logger:      refresherLogger,
	}
}

// log never writes to r, so Refresh and Run may share a Refresher.
func (r *Refresher) log() *logrus.Entry {
	if r.logger == nil {
		return refresherLogger
	}
	return r.logger
}

type contestWriters struct {
	ID      int      `json:"id"`
	Writers []string `json:"writers"`
}

// Refresh fetches everything first and swaps only when all of it succeeded,
// so a failed refresh leaves the previous snapshot in place.
func (r *Refresher) Refresh(ctx context.Context) error {
	problems, err := r.Source.Problemset(ctx)
	if err != nil {
		return err
	}
	contests, err := r.Source.Contests(ctx)
	if err != nil {
		return err
	}

	writers := map[int][]string{}
	if r.WritersFile != "" {
		writers, err = LoadWriters(r.WritersFile)
		if err != nil {
			return err
		}
	}

	r.Catalog.Swap(NewSnapshot(problems, contests, writers))
	r.log().WithFields(logrus.Fields{
		"problems": len(problems),
		"contests": len(contests),
	}).Info("catalog refreshed")
	return nil
}

// Run refreshes on every tick until ctx is done. Failures are logged and the
// old snapshot keeps serving.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.log().Errorf("catalog refresh failed, keeping previous snapshot: %v", err)
			}
		}
	}
}

func LoadWriters(path string) (map[int][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w, cannot read contest writers file %s: %w", tle_errors.ErrInternal, path, err)
	}
	var entries []contestWriters
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w, cannot parse contest writers file %s: %w", tle_errors.ErrInternal, path, err)
	}
	writers := make(map[int][]string, len(entries))
	for _, e := range entries {
		writers[e.ID] = append(writers[e.ID], e.Writers...)
	}
	return writers, nil
}
