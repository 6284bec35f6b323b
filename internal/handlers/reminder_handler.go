package handlers

import (
	"net/http"

	"orderflow-backend/internal/services"
	"orderflow-backend/pkg/utils"
)

type ReminderHandler struct {
	Service *services.ReminderService
}

func NewReminderHandler(s *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: s}
}

// RunReminders triggers a reminder sweep immediately instead of waiting
// for the scheduled hour.
func (h *ReminderHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.RunOnce(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, summary)
}
