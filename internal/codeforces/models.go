package codeforces

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultApiUrl  = "https://codeforces.com/api/"
	ContestBaseUrl = "https://codeforces.com/contest/"
	GymBaseUrl     = "https://codeforces.com/gym/"

	// gym contests start at this id
	gymContestIDStart = 100000

	// rating used for handles that never took part in a rated round
	UnratedDefaultRating = 1500

	VerdictOK               = "OK"
	VerdictCompilationError = "COMPILATION_ERROR"

	PhaseFinished = "FINISHED"
)

type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Rating    int      `json:"rating"` // 0 when the problem is unrated
	Tags      []string `json:"tags"`
}

func (p Problem) IsRated() bool {
	return p.Rating > 0
}

func (p Problem) URL() string {
	base := ContestBaseUrl
	if p.ContestID >= gymContestIDStart {
		base = GymBaseUrl
	}
	return fmt.Sprintf("%s%d/problem/%s", base, p.ContestID, p.Index)
}

// a requested tag matches a problem tag when it is a substring of it,
// so "dp" matches "dp" and "graph" matches "graphs"
func (p Problem) hasTagLike(match string) bool {
	for _, tag := range p.Tags {
		if strings.Contains(tag, match) {
			return true
		}
	}
	return false
}

func (p Problem) MatchesAllTags(tags []string) bool {
	for _, t := range tags {
		if !p.hasTagLike(t) {
			return false
		}
	}
	return true
}

func (p Problem) MatchesAnyTag(tags []string) bool {
	for _, t := range tags {
		if p.hasTagLike(t) {
			return true
		}
	}
	return false
}

// MatchedTags returns the problem tags hit by any of the requested tags.
func (p Problem) MatchedTags(tags []string) []string {
	matched := make([]string, 0)
	for _, tag := range p.Tags {
		for _, t := range tags {
			if strings.Contains(tag, t) {
				matched = append(matched, tag)
				break
			}
		}
	}
	return matched
}

type Contest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Phase            string `json:"phase"`
	DurationSeconds  int64  `json:"durationSeconds"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
}

func (c Contest) StartTime() time.Time {
	return time.Unix(c.StartTimeSeconds, 0).UTC()
}

func (c Contest) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

func (c Contest) URL() string {
	if c.ID >= gymContestIDStart {
		return fmt.Sprintf("%s%d", GymBaseUrl, c.ID)
	}
	return fmt.Sprintf("%s%d", ContestBaseUrl, c.ID)
}

// Matches reports whether any marker appears in the contest name, ignoring
// case and punctuation ("Div. 2" matches "div2").
func (c Contest) Matches(markers []string) bool {
	name := alnumLower(c.Name)
	for _, m := range markers {
		if strings.Contains(name, alnumLower(m)) {
			return true
		}
	}
	return false
}

func alnumLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type Member struct {
	Handle string `json:"handle"`
}

type Party struct {
	ContestID       int      `json:"contestId"`
	Members         []Member `json:"members"`
	ParticipantType string   `json:"participantType"`
}

type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
	Author              Party   `json:"author"`
	Verdict             string  `json:"verdict"`
}

type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type User struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating"`
	MaxRating *int   `json:"maxRating"`
}

// EffectiveRating is the current rating, or the unrated default.
func (u User) EffectiveRating() int {
	if u.Rating == nil {
		return UnratedDefaultRating
	}
	return *u.Rating
}

// SolvedNames returns the names of problems with an accepted verdict.
func SolvedNames(subs []Submission) map[string]struct{} {
	solved := make(map[string]struct{})
	for _, sub := range subs {
		if sub.Verdict == VerdictOK {
			solved[sub.Problem.Name] = struct{}{}
		}
	}
	return solved
}

// SeenNames returns the names of every problem the handle submitted to.
func SeenNames(subs []Submission) map[string]struct{} {
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		seen[sub.Problem.Name] = struct{}{}
	}
	return seen
}
