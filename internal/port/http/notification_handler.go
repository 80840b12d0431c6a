package http

import (
	"net/http"

	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	log                 logger.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, log: log}
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.ListForUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllRead(r.Context(), userIDFromContext(r.Context())); err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
