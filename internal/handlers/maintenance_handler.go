package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
)

// MaintenanceHandler exposes on-demand temp file cleanup
type MaintenanceHandler struct {
	cleaner     interfaces.TempFileCleaner
	defaultDays int
	logger      arbor.ILogger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(cleaner interfaces.TempFileCleaner, defaultDays int, logger arbor.ILogger) *MaintenanceHandler {
	return &MaintenanceHandler{
		cleaner:     cleaner,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

type cleanupRequest struct {
	Days *int `json:"days,omitempty"`
}

// CleanupHandler handles POST /api/maintenance/cleanup
func (h *MaintenanceHandler) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req cleanupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	days := h.defaultDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < 1 {
		WriteError(w, http.StatusBadRequest, "days must be at least 1")
		return
	}

	removed, err := h.cleaner.CleanupOldFiles(days)
	if err != nil {
		h.logger.Error().Err(err).Msg("Temp cleanup failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{
		"removed":      removed,
		"days_to_keep": days,
	})
}
