package api

import (
	"net/http"
	"strconv"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service/gitgud_service"
)

func (a *Api) HandlerGitgud(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request gitgud_service.AssignRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	assignment, err := a.GitgudServiceConfig.Assign(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusCreated, assignment)
}

func (a *Api) HandlerGotgud(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	completion, err := a.GitgudServiceConfig.Complete(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, completion)
}

func (a *Api) HandlerNogud(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	skipped, err := a.GitgudServiceConfig.Skip(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, skipped)
}

func (a *Api) HandlerForceNogud(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request forceSkipRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.UserID <= 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	skipped, err := a.GitgudServiceConfig.ForceSkip(r.Context(), userID, request.UserID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, skipped)
}

func (a *Api) HandlerGitlog(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	history, err := a.GitgudServiceConfig.Log(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, history)
}

func (a *Api) HandlerNogudLog(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	entries, err := a.GitgudServiceConfig.NogudLog(r.Context(), userID)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, entries)
}

func (a *Api) HandlerGitgudders(w http.ResponseWriter, r *http.Request) {
	monthly := false
	if monthlyStr := r.URL.Query().Get("monthly"); monthlyStr != "" {
		var err error
		monthly, err = strconv.ParseBool(monthlyStr)
		if err != nil {
			http.Error(w, "monthly must be a boolean", http.StatusBadRequest)
			return
		}
	}

	ranklist, err := a.GitgudServiceConfig.Ranklist(r.Context(), monthly)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, ranklist)
}
