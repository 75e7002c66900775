// Package templates хранит каталог шаблонов документов.
// Каталог собирается один раз при старте и дальше только читается,
// поэтому Store безопасен для конкурентного доступа без блокировок.
package templates

import (
	"embed"
	"fmt"

	"github.com/xela07ax/complitic/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/policies.yaml
var builtinFS embed.FS

// Store — неизменяемая таблица slug -> шаблон.
type Store struct {
	order  []string
	bySlug map[string]domain.PolicyTemplate
}

// NewStore собирает каталог из переданных шаблонов, сохраняя их порядок.
// Используется и для встроенного набора, и для фикстур в тестах.
func NewStore(list ...domain.PolicyTemplate) (*Store, error) {
	s := &Store{
		order:  make([]string, 0, len(list)),
		bySlug: make(map[string]domain.PolicyTemplate, len(list)),
	}

	for _, t := range list {
		if t.Slug == "" {
			return nil, fmt.Errorf("templates: empty slug in template %q", t.Name)
		}
		if _, exists := s.bySlug[t.Slug]; exists {
			return nil, fmt.Errorf("templates: duplicate slug %q", t.Slug)
		}
		if _, err := domain.ParseCategory(string(t.Category)); err != nil {
			return nil, fmt.Errorf("templates: template %q: %w", t.Slug, err)
		}

		// Копируем срез, чтобы вызывающий код не мог изменить запись после сборки
		t.RequiredFields = append([]string(nil), t.RequiredFields...)
		s.bySlug[t.Slug] = t
		s.order = append(s.order, t.Slug)
	}

	return s, nil
}

// LoadBuiltin читает встроенные шаблоны из embed.
func LoadBuiltin() (*Store, error) {
	data, err := builtinFS.ReadFile("builtin/policies.yaml")
	if err != nil {
		return nil, fmt.Errorf("templates: read builtin: %w", err)
	}
	return Parse(data)
}

// Parse собирает Store из YAML-списка шаблонов.
func Parse(data []byte) (*Store, error) {
	var list []domain.PolicyTemplate
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("templates: parse yaml: %w", err)
	}
	return NewStore(list...)
}

// Get возвращает шаблон по slug. Второе значение false — шаблон не найден.
func (s *Store) Get(slug string) (domain.PolicyTemplate, bool) {
	t, ok := s.bySlug[slug]
	if !ok {
		return domain.PolicyTemplate{}, false
	}
	t.RequiredFields = append([]string(nil), t.RequiredFields...)
	return t, true
}

// All возвращает все шаблоны в порядке объявления.
func (s *Store) All() []domain.PolicyTemplate {
	out := make([]domain.PolicyTemplate, 0, len(s.order))
	for _, slug := range s.order {
		t, _ := s.Get(slug)
		out = append(out, t)
	}
	return out
}

// Len — количество шаблонов в каталоге.
func (s *Store) Len() int {
	return len(s.order)
}
