package problem_service

import (
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/sampler"
)

type TargetMode int

const (
	// TargetRated accepts any rated problem.
	TargetRated TargetMode = iota
	TargetExact
	TargetBetween
)

type RatingTarget struct {
	Mode TargetMode
	Low  int
	High int
}

func Exact(rating int) RatingTarget {
	return RatingTarget{Mode: TargetExact, Low: rating, High: rating}
}

// Between is inclusive on both ends.
func Between(low, high int) RatingTarget {
	return RatingTarget{Mode: TargetBetween, Low: low, High: high}
}

// Relative targets the given base rating moved by delta.
func Relative(base, delta int) RatingTarget {
	return Exact(base + delta)
}

func AnyRated() RatingTarget {
	return RatingTarget{Mode: TargetRated}
}

func (t RatingTarget) Accepts(p codeforces.Problem) bool {
	if !p.IsRated() {
		return false
	}
	switch t.Mode {
	case TargetExact:
		return p.Rating == t.Low
	case TargetBetween:
		return t.Low <= p.Rating && p.Rating <= t.High
	}
	return true
}

// Criteria is the single parameter set every recommendation flow passes to
// the eligibility filter.
type Criteria struct {
	Target RatingTarget
	// problem names never to return, usually the solved or seen set
	Exclude []map[string]struct{}
	// a problem is dropped when any of these handles wrote its contest
	Handles []string
	Tags    []string
	BanTags []string
	// when set, only problems from these contests qualify
	Contests map[int]struct{}
}

type Source string

const (
	SourceCatalog Source = "catalog"
	SourceCurated Source = "curated"
)

type Candidate struct {
	codeforces.Problem
	Source Source `json:"source"`
}

// CatalogView is the part of the problem catalog the filter reads.
type CatalogView interface {
	Problems() []codeforces.Problem
	Contest(id int) (codeforces.Contest, bool)
	IsNonstandardProblem(p codeforces.Problem) bool
	IsContestWriter(contestID int, handle string) bool
}

type ProblemService struct {
	Catalog CatalogView
	Sampler *sampler.Sampler
}
