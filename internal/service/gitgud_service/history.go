package gitgud_service

import (
	"context"
	"fmt"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/database"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
)

// Log returns the user's challenges, newest first, with the total score of
// the finished ones. Force skipped challenges are left out.
func (g *GitgudService) Log(ctx context.Context, userID int64) (GitgudLog, error) {
	challenges, err := g.history(ctx, userID)
	if err != nil {
		return GitgudLog{}, err
	}

	res := GitgudLog{UserID: userID, Entries: make([]LogEntry, 0, len(challenges))}
	for _, c := range challenges {
		entry := newLogEntry(c)
		if c.FinishedAt != nil {
			points := g.Policy.ScoreFor(int(c.Delta))
			entry.Points = &points
			res.TotalScore += points
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

// NogudLog returns the challenges that were never finished.
func (g *GitgudService) NogudLog(ctx context.Context, userID int64) ([]LogEntry, error) {
	challenges, err := g.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]LogEntry, 0)
	for _, c := range challenges {
		if c.FinishedAt == nil {
			res = append(res, newLogEntry(c))
		}
	}
	return res, nil
}

func (g *GitgudService) history(ctx context.Context, userID int64) ([]database.GitgudChallenge, error) {
	challenges, err := g.DB.ListGitgud(ctx, userID)
	if err != nil {
		return nil, service.HandlePersistenceError(
			ctx, g.Escalator, err, errMsgs,
			fmt.Sprintf("cannot fetch gitgud history of user %d", userID),
		)
	}
	if len(challenges) == 0 {
		return nil, fmt.Errorf("%w, user %d has no gitgud history", tle_errors.ErrNotFound, userID)
	}
	return challenges, nil
}

func newLogEntry(c database.GitgudChallenge) LogEntry {
	problem := codeforces.Problem{ContestID: int(c.ContestID), Index: c.ProblemIndex}
	return LogEntry{GitgudChallenge: c, ProblemURL: problem.URL()}
}

// Ranklist sums the points of completed challenges per user. The monthly
// list only counts completions of the current month, with bonus points.
func (g *GitgudService) Ranklist(ctx context.Context, monthly bool) ([]database.RanklistEntry, error) {
	var (
		entries []database.RanklistEntry
		err     error
	)
	if monthly {
		entries, err = g.DB.GitgudMonthlyRanklist(ctx, service.StartOfMonth(g.now()))
	} else {
		entries, err = g.DB.GitgudRanklist(ctx)
	}
	if err != nil {
		return nil, service.HandlePersistenceError(ctx, g.Escalator, err, errMsgs, "cannot fetch gitgud ranklist")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w, nobody has completed a challenge yet", tle_errors.ErrNotFound)
	}
	return entries, nil
}
