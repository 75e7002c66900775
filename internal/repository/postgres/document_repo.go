package postgres

/*
Файл document_repo.go хранит сгенерированные пользователями документы.
*/

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/complitic/internal/domain"
)

const documentColumns = `id::text, user_id::text, template_slug, template_name, form_data, content, format, created_at`

// CreateDocument сохраняет документ. ID задает сервис, created_at — база.
func (r *Repo) CreateDocument(ctx context.Context, d *domain.Document) error {
	formData, err := json.Marshal(d.FormData)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode form data: %w", err)
	}

	query := `
		INSERT INTO documents (id, user_id, template_slug, template_name, form_data, content, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err = r.pool.QueryRow(ctx, query,
		d.ID, d.UserID, d.TemplateSlug, d.TemplateName, formData, d.Content, string(d.Format),
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to create document: %w", err)
	}
	return nil
}

// GetDocument возвращает nil, nil если документа нет (404 решает сервис).
func (r *Repo) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	d, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to get document: %w", err)
	}
	return d, nil
}

// ListDocuments — не больше limit документов пользователя, новые первыми.
func (r *Repo) ListDocuments(ctx context.Context, userID string, limit int) ([]*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query documents: %w", err)
	}
	defer rows.Close()

	// Инициализируем пустой слайс, чтобы в JSON был [] вместо null
	results := make([]*domain.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan document: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}
	return results, nil
}

// DeleteDocument удаляет документ только если он принадлежит userID.
func (r *Repo) DeleteDocument(ctx context.Context, userID, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete document: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("postgres: %w", domain.ErrDocumentNotFound)
	}
	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var (
		d        domain.Document
		formData []byte
		format   string
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.TemplateSlug, &d.TemplateName, &formData, &d.Content, &format, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Format = domain.DocumentFormat(format)
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &d.FormData); err != nil {
			return nil, fmt.Errorf("decode form data: %w", err)
		}
	}
	return &d, nil
}
