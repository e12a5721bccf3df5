package api

import (
	"context"
	"net/http"
	"time"
)

// Health отвечает на проверку живости (её же опрашивает backup).
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Timezone:  h.timezone,
		Server:    ServerName,
	})
}

// TriggerNotifications запускает один цикл вручную.
//
// Частичные ошибки доставки не влияют на ответ: 500 возвращается только
// если сам цикл вернул ошибку.
func (h *Handler) TriggerNotifications(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("manual notification trigger requested")

	// Цикл доводится до конца даже если клиент отключился
	ctx := context.WithoutCancel(r.Context())

	report, err := h.cycles.RunNotificationCycle(ctx)
	if err != nil {
		h.logger.Error("manual trigger failed", "error", err)
		JSON(w, http.StatusInternalServerError, TriggerResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	JSON(w, http.StatusOK, TriggerResponse{
		Success: true,
		Message: "Notifications processed",
		Report:  &report,
	})
}

// Status возвращает конфигурацию primary/backup и последнее решение монитора.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.status.Status())
}
