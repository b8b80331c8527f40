package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		startupTime: startupTime,
	}
}

// health is the liveness probe.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
