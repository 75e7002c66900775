package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/complitic/internal/console/service"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra/auth"
	"go.uber.org/zap"
)

type DocumentStore interface {
	Save(ctx context.Context, userID string, doc domain.Document) (*domain.Document, error)
	Get(ctx context.Context, userID, id string) (*domain.Document, error)
	List(ctx context.Context, userID string) ([]*domain.Document, error)
	Delete(ctx context.Context, userID, id string) error
}

type DocumentHandler struct {
	service DocumentStore
	logger  *zap.Logger
}

func NewDocumentHandler(s DocumentStore, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{service: s, logger: logger.Named("document-handler")}
}

type saveDocumentRequest struct {
	TemplateSlug string             `json:"template_slug"`
	TemplateName string             `json:"template_name"`
	FormData     domain.FieldValues `json:"form_data"`
	Content      string             `json:"content"`
	Format       string             `json:"format"`
}

// Save POST /v1/documents
func (h *DocumentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	format, err := domain.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.service.Save(r.Context(), auth.UserIDFromContext(r.Context()), domain.Document{
		TemplateSlug: req.TemplateSlug,
		TemplateName: req.TemplateName,
		FormData:     req.FormData,
		Content:      req.Content,
		Format:       format,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTemplateNotFound), errors.Is(err, service.ErrEmptyContent):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to save document", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      doc.ID,
	})
}

// List GET /v1/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		http.Error(w, "Failed to fetch documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get GET /v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Download отдает документ файлом.
// GET /v1/documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}

	ext, contentType := "txt", "text/plain; charset=utf-8"
	if doc.Format == domain.FormatHTML {
		ext, contentType = "html", "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(doc, ext)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Content))
}

// Delete DELETE /v1/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		h.logger.Error("delete failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Document, bool) {
	id := chi.URLParam(r, "id")
	doc, err := h.service.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, "Failed to fetch document", http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

// downloadName: privacy_policy-20240120.txt
func downloadName(doc *domain.Document, ext string) string {
	base := strings.ReplaceAll(doc.TemplateSlug, "_", "-")
	if base == "" {
		base = "document"
	}
	if !doc.CreatedAt.IsZero() {
		base += "-" + doc.CreatedAt.Format("20060102")
	}
	return base + "." + ext
}
