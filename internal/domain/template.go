package domain

import (
	"errors"
	"fmt"
)

// Category — закрытый набор категорий шаблонов.
type Category string

const (
	CategoryLegal       Category = "legal"       // Юридические документы (Privacy, Terms, Cookies)
	CategoryOperational Category = "operational" // Операционные правила магазина (Refund, Shipping)
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidCategory  = errors.New("invalid template category")
)

// ParseCategory приводит строку к Category, отклоняя всё, что вне набора.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryLegal, CategoryOperational:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// PolicyTemplate — неизменяемая запись шаблона документа.
// Content содержит плейсхолдеры вида {{field_name}}.
type PolicyTemplate struct {
	Slug           string   `json:"slug" yaml:"slug"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Category       Category `json:"category" yaml:"category"`
	RequiredFields []string `json:"required_fields" yaml:"required_fields"`
	Content        string   `json:"content" yaml:"content"`
}

// FieldValues — значения полей формы, которыми заполняется шаблон.
type FieldValues map[string]string
