package api

import (
	"net/http"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service/user_service"
)

func (a *Api) HandlerSetHandle(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		handlerError(err, w)
		return
	}

	var request user_service.SetHandleRequest
	if err = decodeJsonBody(r.Body, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	linked, err := a.UserServiceConfig.SetHandle(r.Context(), userID, request)
	if err != nil {
		handlerError(err, w)
		return
	}
	respond(w, http.StatusOK, linked)
}
