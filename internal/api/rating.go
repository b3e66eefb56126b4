package api

import (
	"net/http"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service/rating_service"
)

func (a *Api) HandlerTeamRate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request rating_service.TeamRateRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rating, err := a.RatingServiceConfig.TeamRate(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, rating)
}
