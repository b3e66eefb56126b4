package api

import (
	"context"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/hard75_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/rating_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/recommend_service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
)

type Api struct {
	UserServiceConfig      *user_service.UserService
	GitgudServiceConfig    *gitgud_service.GitgudService
	Hard75ServiceConfig    *hard75_service.Hard75Service
	RecommendServiceConfig *recommend_service.RecommendService
	RatingServiceConfig    *rating_service.RatingService
	// Ready reports whether the store can serve requests
	Ready func(ctx context.Context) error
}

type forceSkipRequest struct {
	UserID int64 `json:"user_id"`
}
