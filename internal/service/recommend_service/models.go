package recommend_service

import (
	"github.com/i-pranav/TLE-ACodeDaily/internal/codeforces"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/problem_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/sirupsen/logrus"
)

const (
	mashupSize         = 4
	mashupDefaultDelta = 100
	mashupSpread       = 300
	mashupRatingFloor  = 800
	mashupRatingCeil   = 3500
	upsolveListLimit   = 500
	stalkListLimit     = 100
	vcListLimit        = 25
	vcDiv3Below        = 1600
	vcDiv2Below        = 2100
)

var div1Markers = []string{"div1", "global", "avito", "goodbye", "hello"}

// ContestView is the part of the catalog contest recommendations read.
type ContestView interface {
	ContestsInPhase(phase string) []codeforces.Contest
	Contest(id int) (codeforces.Contest, bool)
	IsContestWriter(contestID int, handle string) bool
}

type RecommendService struct {
	Judge    codeforces.Judge
	Users    *user_service.UserService
	Problems *problem_service.ProblemService
	Contests ContestView
	Gitgud   *gitgud_service.GitgudService
}

var logger = logrus.WithField("from", "recommend-service")

type GimmeRequest struct {
	// lower bound, or the exact rating when RatingHigh is unset
	Rating     *int     `json:"rating" validate:"omitempty,gte=0"`
	RatingHigh *int     `json:"rating_high" validate:"omitempty,gte=0"`
	Tags       []string `json:"tags" validate:"max=10,dive,required"`
	BanTags    []string `json:"ban_tags" validate:"max=10,dive,required"`
}

type Recommendation struct {
	codeforces.Problem
	URL         string `json:"url"`
	ContestName string `json:"contest_name,omitempty"`
	// set when a range was asked for so the client can hide the rating
	RatingHidden bool     `json:"rating_hidden"`
	MatchedTags  []string `json:"matched_tags,omitempty"`
}

type MashupRequest struct {
	Handles []string `json:"handles" validate:"max=25,dive,required"`
	Tags    []string `json:"tags" validate:"max=10,dive,required"`
	BanTags []string `json:"ban_tags" validate:"max=10,dive,required"`
	// added to the default delta after rounding to a hundred
	Delta *int `json:"delta"`
}

type Mashup struct {
	Handles  []string         `json:"handles"`
	Rating   int              `json:"rating"`
	Problems []Recommendation `json:"problems"`
}

type UpsolveEntry struct {
	Choice int `json:"choice"`
	Recommendation
}

type VCRequest struct {
	Handles []string `json:"handles" validate:"max=25,dive,required"`
	Markers []string `json:"markers" validate:"max=10,dive,required"`
}

type ContestRecommendation struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Duration  string `json:"duration"`
	StartTime string `json:"start_time"`
}

type StalkRequest struct {
	Handles []string `json:"handles" validate:"max=25,dive,required"`
	// hardest first instead of newest first
	Hardest    bool     `json:"hardest"`
	RatingLow  *int     `json:"rating_low" validate:"omitempty,gte=0"`
	RatingHigh *int     `json:"rating_high" validate:"omitempty,gte=0"`
	Tags       []string `json:"tags" validate:"max=10,dive,required"`
	BanTags    []string `json:"ban_tags" validate:"max=10,dive,required"`
}

type SolvedEntry struct {
	Handle   string `json:"handle"`
	SolvedAt string `json:"solved_at"`
	Recommendation
}

type FullsolveRequest struct {
	// contest name markers, any contest when empty
	Markers []string `json:"markers" validate:"max=10,dive,required"`
}

type FullsolveEntry struct {
	ContestRecommendation
	Solved int `json:"solved"`
	Total  int `json:"total"`
}
