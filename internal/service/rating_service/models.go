package rating_service

import (
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
	"github.com/sirupsen/logrus"
)

type RatingService struct {
	Users *user_service.UserService
}

var logger = logrus.WithField("from", "rating-service")

// HandleCount is a handle with its multiplier, "tourist*3" counts tourist three times.
type HandleCount struct {
	Handle string `json:"handle"`
	Count  int    `json:"count"`
}

type TeamRateRequest struct {
	Handles []string `json:"handles" validate:"dive,required"`
	Peak    bool     `json:"peak"`
	// rate every linked user instead of the given handles
	Server bool `json:"server"`
}

type TeamRating struct {
	Members []HandleCount `json:"members"`
	Label   string        `json:"label"`
	Rating  int           `json:"rating"`
	// handles left out because they have no rating
	Unrated []string `json:"unrated,omitempty"`
}
