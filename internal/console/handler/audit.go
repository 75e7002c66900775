package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/xela07ax/complitic/internal/audit"
)

type ActivityLog interface {
	FetchLogs(ctx context.Context, f audit.Filter) ([]audit.Event, error)
}

type AuditHandler struct {
	service ActivityLog
}

func NewAuditHandler(s ActivityLog) *AuditHandler {
	return &AuditHandler{service: s}
}

// GetLogs возвращает журнал действий с фильтрацией.
// GET /v1/admin/activity?user_id=...&action=...&limit=...
func (h *AuditHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		UserID: q.Get("user_id"),
		Action: q.Get("action"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	logs, err := h.service.FetchLogs(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch activity", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []audit.Event{}
	}

	writeJSON(w, http.StatusOK, logs)
}
