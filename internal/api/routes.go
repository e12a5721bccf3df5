package api

import (
	"net/http"
)

// RegisterRoutes регистрирует маршруты HTTP-оболочки.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	mux.Handle("GET /health", chain(http.HandlerFunc(h.Health)))
	mux.Handle("POST /trigger-notifications", chain(http.HandlerFunc(h.TriggerNotifications)))
	mux.Handle("GET /status", chain(http.HandlerFunc(h.Status)))
}
