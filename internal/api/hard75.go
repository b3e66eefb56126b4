package api

import (
	"net/http"
	"strconv"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service/hard75_service"
)

func (a *Api) HandlerHard75LetsGo(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	challenge, err := a.Hard75ServiceConfig.AssignToday(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}

	status := http.StatusCreated
	if challenge.Existing {
		status = http.StatusOK
	}
	respond(w, status, challenge)
}

func (a *Api) HandlerHard75Completed(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	completion, err := a.Hard75ServiceConfig.CompleteToday(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, completion)
}

func (a *Api) HandlerHard75Streak(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	streak, err := a.Hard75ServiceConfig.Streak(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, streak)
}

func (a *Api) HandlerHard75Leaderboard(w http.ResponseWriter, r *http.Request) {
	var request hard75_service.LeaderboardRequest
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		request.Limit = limit
	}

	board, err := a.Hard75ServiceConfig.Leaderboard(r.Context(), request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, board)
}
