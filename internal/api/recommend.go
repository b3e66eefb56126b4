package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/i-pranav/TLE-ACodeDaily/internal/service/recommend_service"
)

func (a *Api) HandlerGimme(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request recommend_service.GimmeRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := a.RecommendServiceConfig.Gimme(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, rec)
}

func (a *Api) HandlerMashup(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request recommend_service.MashupRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mashup, err := a.RecommendServiceConfig.Mashup(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, mashup)
}

func (a *Api) HandlerUpsolve(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	list, err := a.RecommendServiceConfig.Upsolve(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *Api) HandlerUpsolvePick(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	choice, err := strconv.Atoi(chi.URLParam(r, "choice"))
	if err != nil {
		http.Error(w, "choice must be an integer", http.StatusBadRequest)
		return
	}

	assignment, err := a.RecommendServiceConfig.UpsolvePick(r.Context(), userID, choice)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusCreated, assignment)
}

func (a *Api) HandlerVirtualContest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request recommend_service.VCRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contests, err := a.RecommendServiceConfig.VirtualContest(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, contests)
}

func (a *Api) HandlerStalk(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request recommend_service.StalkRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	solved, err := a.RecommendServiceConfig.Stalk(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, solved)
}

func (a *Api) HandlerFullsolve(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request recommend_service.FullsolveRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contests, err := a.RecommendServiceConfig.Fullsolve(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, contests)
}
