package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/i-pranav/TLE-ACodeDaily/middleware"
)

func NewV1Router() *chi.Mux {
	v1 := chi.NewRouter()

	// probes carry no session
	v1.Get("/healthz", apiConfig.HandlerReadiness)

	// handles
	v1.Post("/handles", middleware.JWTMiddleware(apiConfig.HandlerSetHandle))

	// gitgud layer
	v1.Post("/gitgud", middleware.JWTMiddleware(apiConfig.HandlerGitgud))
	v1.Post("/gitgud/complete", middleware.JWTMiddleware(apiConfig.HandlerGotgud))
	v1.Post("/gitgud/skip", middleware.JWTMiddleware(apiConfig.HandlerNogud))
	v1.Post("/gitgud/force-skip", middleware.JWTMiddleware(apiConfig.HandlerForceNogud))
	v1.Get("/gitgud/log", middleware.JWTMiddleware(apiConfig.HandlerGitlog))
	v1.Get("/gitgud/nogud-log", middleware.JWTMiddleware(apiConfig.HandlerNogudLog))
	v1.Get("/gitgud/ranklist", middleware.JWTMiddleware(apiConfig.HandlerGitgudders))

	// hard75 layer
	v1.Post("/hard75/letsgo", middleware.JWTMiddleware(apiConfig.HandlerHard75LetsGo))
	v1.Post("/hard75/completed", middleware.JWTMiddleware(apiConfig.HandlerHard75Completed))
	v1.Get("/hard75/streak", middleware.JWTMiddleware(apiConfig.HandlerHard75Streak))
	v1.Get("/hard75/leaderboard", middleware.JWTMiddleware(apiConfig.HandlerHard75Leaderboard))

	// recommendations
	v1.Post("/recommend/gimme", middleware.JWTMiddleware(apiConfig.HandlerGimme))
	v1.Post("/recommend/mashup", middleware.JWTMiddleware(apiConfig.HandlerMashup))
	v1.Get("/recommend/upsolve", middleware.JWTMiddleware(apiConfig.HandlerUpsolve))
	v1.Post("/recommend/upsolve/{choice}", middleware.JWTMiddleware(apiConfig.HandlerUpsolvePick))
	v1.Post("/recommend/vc", middleware.JWTMiddleware(apiConfig.HandlerVirtualContest))
	v1.Post("/recommend/fullsolve", middleware.JWTMiddleware(apiConfig.HandlerFullsolve))
	v1.Post("/recommend/stalk", middleware.JWTMiddleware(apiConfig.HandlerStalk))

	// ratings
	v1.Post("/rating/team", middleware.JWTMiddleware(apiConfig.HandlerTeamRate))

	return v1
}
