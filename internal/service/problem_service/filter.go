package problem_service

import (
	"sort"

	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
)

// Qualifies reports whether p passes every rule of the criteria.
func (p *ProblemService) Qualifies(problem codeforces.Problem, c Criteria) bool {
	if !c.Target.Accepts(problem) {
		return false
	}
	for _, set := range c.Exclude {
		if _, ok := set[problem.Name]; ok {
			return false
		}
	}
	if c.Contests != nil {
		if _, ok := c.Contests[problem.ContestID]; !ok {
			return false
		}
	}
	for _, h := range c.Handles {
		if p.Catalog.IsContestWriter(problem.ContestID, h) {
			return false
		}
	}
	if p.Catalog.IsNonstandardProblem(problem) {
		return false
	}
	if !problem.MatchesAllTags(c.Tags) {
		return false
	}
	if len(c.BanTags) > 0 && problem.MatchesAnyTag(c.BanTags) {
		return false
	}
	return true
}

// Eligible returns the qualifying problems ordered by the start time of their
// contest, oldest first. An empty result is not an error.
func (p *ProblemService) Eligible(c Criteria) []codeforces.Problem {
	res := make([]codeforces.Problem, 0)
	for _, problem := range p.Catalog.Problems() {
		if p.Qualifies(problem, c) {
			res = append(res, problem)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return p.startTime(res[i]) < p.startTime(res[j])
	})
	return res
}

// PickOne runs the filter and draws one problem with skew k.
func (p *ProblemService) PickOne(c Criteria, k int) (codeforces.Problem, bool) {
	eligible := p.Eligible(c)
	if len(eligible) == 0 {
		return codeforces.Problem{}, false
	}
	return eligible[p.Sampler.Pick(len(eligible), k)], true
}

func (p *ProblemService) startTime(problem codeforces.Problem) int64 {
	if contest, ok := p.Catalog.Contest(problem.ContestID); ok {
		return contest.StartTimeSeconds
	}
	return 0
}

// Union merges name sets into a new set.
func Union(sets ...map[string]struct{}) map[string]struct{} {
	size := 0
	for _, s := range sets {
		size += len(s)
	}
	res := make(map[string]struct{}, size)
	for _, s := range sets {
		for name := range s {
			res[name] = struct{}{}
		}
	}
	return res
}

func NameSet(names []string) map[string]struct{} {
	res := make(map[string]struct{}, len(names))
	for _, n := range names {
		res[n] = struct{}{}
	}
	return res
}
