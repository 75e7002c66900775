package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/infra/auth"
	"github.com/xela07ax/complitic/internal/templates"
	"go.uber.org/zap"
)

// TemplateCatalog — каталог шаблонов (templates.Store).
type TemplateCatalog interface {
	Get(slug string) (domain.PolicyTemplate, bool)
	Search(q templates.Query) []domain.PolicyTemplate
}

type DocumentGenerator interface {
	Generate(ctx context.Context, userID, slug string, values domain.FieldValues, format domain.DocumentFormat) (*domain.GenerateResult, error)
}

type TemplateHandler struct {
	catalog   TemplateCatalog
	generator DocumentGenerator
	logger    *zap.Logger
}

func NewTemplateHandler(c TemplateCatalog, g DocumentGenerator, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{catalog: c, generator: g, logger: logger.Named("template-handler")}
}

// List — каталог с поиском.
// GET /v1/templates?q=...&category=legal|operational&sort=name
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := templates.Query{
		Text:   params.Get("q"),
		SortBy: params.Get("sort"),
	}
	if raw := params.Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		query.Category = category
	}

	writeJSON(w, http.StatusOK, h.catalog.Search(query))
}

// Get GET /v1/templates/{slug}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	t, ok := h.catalog.Get(slug)
	if !ok {
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type renderRequest struct {
	Values domain.FieldValues `json:"values"`
	Format string             `json:"format"`
}

// Render подставляет значения формы в шаблон. Незаполненные поля не мешают
// рендеру, фронтенд получает их в missing_fields.
// POST /v1/templates/{slug}/render
func (h *TemplateHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	format, err := domain.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slug := chi.URLParam(r, "slug")
	result, err := h.generator.Generate(r.Context(), auth.UserIDFromContext(r.Context()), slug, req.Values, format)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return
		}
		h.logger.Error("render failed", zap.String("template", slug), zap.Error(err))
		http.Error(w, "Failed to render document", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
