// Package catalog holds the read-only snapshot of problems and contests that
// every recommendation reads from. A refresh builds a new snapshot and swaps
// it in; a snapshot is never modified after it is published.
package catalog

import (
	"strings"
	"sync/atomic"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
)

var nonstandardContestIndicators = []string{
	"wild", "fools", "unrated", "surprise", "unknown", "friday", "q#",
	"testing", "marathon", "kotlin", "onsite", "experimental", "abbyy",
}

const specialTag = "*special"

type Snapshot struct {
	problems      []codeforces.Problem
	problemByName map[string]codeforces.Problem
	contests      map[int]codeforces.Contest
	// contest id -> lowercase handles of writers and testers
	writers map[int]map[string]struct{}
}

// NewSnapshot indexes the given data. Problems keep their input order.
func NewSnapshot(
	problems []codeforces.Problem,
	contests []codeforces.Contest,
	writers map[int][]string,
) *Snapshot {
	s := &Snapshot{
		problems:      make([]codeforces.Problem, len(problems)),
		problemByName: make(map[string]codeforces.Problem, len(problems)),
		contests:      make(map[int]codeforces.Contest, len(contests)),
		writers:       make(map[int]map[string]struct{}, len(writers)),
	}
	copy(s.problems, problems)
	for _, p := range problems {
		// names are unique in the problemset, first one wins on duplicates
		if _, ok := s.problemByName[p.Name]; !ok {
			s.problemByName[p.Name] = p
		}
	}
	for _, c := range contests {
		s.contests[c.ID] = c
	}
	for id, handles := range writers {
		set := make(map[string]struct{}, len(handles))
		for _, h := range handles {
			set[strings.ToLower(h)] = struct{}{}
		}
		s.writers[id] = set
	}
	return s
}

// Catalog is safe for concurrent use. Readers always see a whole snapshot.
type Catalog struct {
	current atomic.Pointer[Snapshot]
}

func New(initial *Snapshot) *Catalog {
	c := &Catalog{}
	if initial == nil {
		initial = NewSnapshot(nil, nil, nil)
	}
	c.current.Store(initial)
	return c
}

func (c *Catalog) Swap(s *Snapshot) {
	c.current.Store(s)
}

func (c *Catalog) snapshot() *Snapshot {
	return c.current.Load()
}

// Problems returns the problems of the current snapshot. Callers must not
// modify the returned slice.
func (c *Catalog) Problems() []codeforces.Problem {
	return c.snapshot().problems
}

func (c *Catalog) ProblemByName(name string) (codeforces.Problem, bool) {
	p, ok := c.snapshot().problemByName[name]
	return p, ok
}

func (c *Catalog) Contest(id int) (codeforces.Contest, bool) {
	contest, ok := c.snapshot().contests[id]
	return contest, ok
}

// ContestsInPhase returns the contests in the given phase, in no particular order.
func (c *Catalog) ContestsInPhase(phase string) []codeforces.Contest {
	res := make([]codeforces.Contest, 0)
	for _, contest := range c.snapshot().contests {
		if contest.Phase == phase {
			res = append(res, contest)
		}
	}
	return res
}

func IsNonstandardContest(contest codeforces.Contest) bool {
	name := strings.ToLower(contest.Name)
	for _, ind := range nonstandardContestIndicators {
		if strings.Contains(name, ind) {
			return true
		}
	}
	return false
}

func (c *Catalog) IsNonstandardProblem(p codeforces.Problem) bool {
	if contest, ok := c.Contest(p.ContestID); ok && IsNonstandardContest(contest) {
		return true
	}
	for _, tag := range p.Tags {
		if tag == specialTag {
			return true
		}
	}
	return false
}

func (c *Catalog) IsContestWriter(contestID int, handle string) bool {
	set, ok := c.snapshot().writers[contestID]
	if !ok {
		return false
	}
	_, ok = set[strings.ToLower(handle)]
	return ok
}

// StartTime returns the start of the contest owning the problem in unix
// seconds, or 0 when the contest is unknown.
func (c *Catalog) StartTime(p codeforces.Problem) int64 {
	if contest, ok := c.Contest(p.ContestID); ok {
		return contest.StartTimeSeconds
	}
	return 0
}
