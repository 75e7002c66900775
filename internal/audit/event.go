package audit

import "time"

// Действия, которые фиксируются в журнале
const (
	ActionDocumentGenerated = "document.generated"
	ActionDocumentSaved     = "document.saved"
	ActionDocumentDeleted   = "document.deleted"
	ActionAdvisorAsked      = "advisor.asked"
	ActionLogin             = "auth.login"
)

type Event struct {
	ID           string            `json:"id"`       // UUID события
	TraceID      string            `json:"trace_id"` // Сквозной ID запроса
	UserID       string            `json:"user_id"`  // Кто делал
	Action       string            `json:"action"`   // Что сделал
	TemplateSlug string            `json:"template_slug,omitempty"`
	DocumentID   string            `json:"document_id,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// Filter — параметры выборки журнала. Пустые поля не фильтруют.
type Filter struct {
	UserID string
	Action string
	Limit  int
}
