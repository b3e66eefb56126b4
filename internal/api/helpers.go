package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/i-pranav/TLE-ACodeDaily/internal/service"
	"github.com/i-pranav/TLE-ACodeDaily/internal/tle_errors"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

func decodeJsonBody(body io.ReadCloser, v any) error {
	defer body.Close()
	decoder := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			// an empty body means all defaults
			return nil
		}
		return fmt.Errorf("invalid request body, %v", err)
	}
	return nil
}

func respondWithJson(w http.ResponseWriter, status int, response []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		log.Errorf("cannot write response, %v", err)
	}
}

// respond marshals v and writes it with the status.
func respond(w http.ResponseWriter, status int, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal %v, %v", v, err)
		http.Error(w, tle_errors.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}
	respondWithJson(w, status, bytes)
}

func handlerError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, tle_errors.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, tle_errors.ErrUnAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, tle_errors.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, tle_errors.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, tle_errors.ErrHttpResponse):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		// internal details stay in the logs
		log.Errorf("request failed, %v", err)
		http.Error(w, tle_errors.ErrInternal.Error(), http.StatusInternalServerError)
	}
}

func callerID(r *http.Request) (int64, error) {
	claims, err := service.GetClaimsFromContext(r.Context())
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// targetUserID reads the optional user_id query parameter and defaults to
// the caller.
func targetUserID(r *http.Request) (int64, error) {
	idStr := r.URL.Query().Get("user_id")
	if idStr == "" {
		return callerID(r)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w, user_id must be a positive integer", tle_errors.ErrInvalidRequest)
	}
	return id, nil
}
