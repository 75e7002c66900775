package domain

import (
	"errors"
	"time"
)

// DocumentFormat определяет, в каком виде отдается сгенерированный документ
type DocumentFormat string

const (
	FormatText DocumentFormat = "text"
	FormatHTML DocumentFormat = "html"
)

// DocumentListLimit — сколько последних документов пользователя отдает список.
const DocumentListLimit = 200

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidFormat    = errors.New("unsupported document format")
)

// ParseFormat: пустая строка означает text.
func ParseFormat(s string) (DocumentFormat, error) {
	switch f := DocumentFormat(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatHTML:
		return f, nil
	default:
		return "", ErrInvalidFormat
	}
}

// Document — сохраненный результат рендеринга шаблона.
type Document struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	TemplateSlug string         `json:"template_slug"`
	TemplateName string         `json:"template_name"`
	FormData     FieldValues    `json:"form_data"`
	Content      string         `json:"content"`
	Format       DocumentFormat `json:"format"`
	CreatedAt    time.Time      `json:"created_at"`
}

// GenerateResult — то, что возвращает рендер для предпросмотра.
type GenerateResult struct {
	Template   PolicyTemplate `json:"-"`
	Content    string         `json:"content"`
	Format     DocumentFormat `json:"format"`
	Missing    []string       `json:"missing_fields"` // Обязательные поля без значения
	Unresolved []string       `json:"unresolved"`     // Плейсхолдеры, оставшиеся в тексте
}
