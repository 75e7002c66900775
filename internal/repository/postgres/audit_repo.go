package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xela07ax/complitic/internal/audit"
)

// Количество колонок в таблице activity_log
const auditFields = 8

// WriteBatch реализует audit.Storage: одна INSERT на всю пачку.
func (r *Repo) WriteBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	query, vals, err := buildAuditInsert(events)
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("postgres: failed to write audit batch: %w", err)
	}
	return nil
}

// buildAuditInsert динамически строит запрос для пакетной вставки
func buildAuditInsert(events []audit.Event) (string, []any, error) {
	var placeholders strings.Builder
	vals := make([]any, 0, len(events)*auditFields)

	for i, e := range events {
		if i > 0 {
			placeholders.WriteString(", ")
		}
		p := i * auditFields
		fmt.Fprintf(&placeholders, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7, p+8)

		var details []byte
		if len(e.Details) > 0 {
			var err error
			if details, err = json.Marshal(e.Details); err != nil {
				return "", nil, fmt.Errorf("postgres: encode audit details: %w", err)
			}
		}

		vals = append(vals,
			e.ID, e.TraceID, e.UserID, e.Action, e.TemplateSlug, e.DocumentID, details, e.Timestamp,
		)
	}

	query := "INSERT INTO activity_log (id, trace_id, user_id, action, template_slug, document_id, details, timestamp) VALUES " +
		placeholders.String()
	return query, vals, nil
}

// FetchEvents читает журнал с фильтрацией, новые события первыми.
func (r *Repo) FetchEvents(ctx context.Context, f audit.Filter) ([]audit.Event, error) {
	query, args := buildAuditSelect(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query activity log: %w", err)
	}
	defer rows.Close()

	events := make([]audit.Event, 0)
	for rows.Next() {
		var (
			e       audit.Event
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.TraceID, &e.UserID, &e.Action, &e.TemplateSlug, &e.DocumentID, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan activity event: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("postgres: decode activity details: %w", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}
	return events, nil
}

func buildAuditSelect(f audit.Filter) (string, []any) {
	query := `SELECT id::text, trace_id, user_id, action, template_slug, document_id, details, timestamp FROM activity_log`

	var (
		conds []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args))

	return query, args
}
