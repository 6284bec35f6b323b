package handlers

import (
	"net/http"

	"orderflow-backend/internal/apperror"
	"orderflow-backend/pkg/utils"
)

// writeError maps service errors to HTTP responses. Typed application
// errors carry their own status and machine code; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := apperror.As(err); ok {
		utils.Error(w, appErr.Status, appErr.Code, appErr.Message)
		return
	}
	utils.Error(w, http.StatusInternalServerError, "INTERNAL", err.Error())
}
