package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (a *Api) HandlerReadiness(w http.ResponseWriter, r *http.Request) {
	if a.Ready != nil {
		if err := a.Ready(r.Context()); err != nil {
			log.Errorf("readiness check failed, %v", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
