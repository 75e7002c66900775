// Package render подставляет значения полей в тело шаблона.
//
// Тело разбирается на литеральные сегменты и плейсхолдеры {{field}},
// после чего собирается за один линейный проход. Подставленное значение
// повторно не сканируется: если пользователь ввел "{{country}}" в поле
// store_name, в документе останется ровно этот текст.
package render

import (
	"regexp"
	"strings"

	"github.com/xela07ax/complitic/internal/domain"
)

var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Segment — кусок тела шаблона: либо литерал, либо плейсхолдер.
type Segment struct {
	Literal string
	Field   string // Непустое только у плейсхолдера
}

func (s Segment) IsPlaceholder() bool { return s.Field != "" }

// Parse разбивает тело на сегменты. Склейка Literal/{{Field}} дает исходную строку.
func Parse(content string) []Segment {
	matches := placeholderRe.FindAllStringSubmatchIndex(content, -1)
	segments := make([]Segment, 0, len(matches)*2+1)

	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			segments = append(segments, Segment{Literal: content[pos:m[0]]})
		}
		segments = append(segments, Segment{
			Literal: content[m[0]:m[1]],
			Field:   content[m[2]:m[3]],
		})
		pos = m[1]
	}
	if pos < len(content) {
		segments = append(segments, Segment{Literal: content[pos:]})
	}
	return segments
}

// Render заменяет каждый {{key}}, для которого есть значение в values.
// Плейсхолдеры без значения остаются как есть, лишние ключи игнорируются.
func Render(content string, values domain.FieldValues) string {
	return assemble(Parse(content), values, func(v string) string { return v })
}

func assemble(segments []Segment, values domain.FieldValues, transform func(string) string) string {
	var b strings.Builder
	b.Grow(len(segments) * 16)

	for _, seg := range segments {
		if seg.IsPlaceholder() {
			if v, ok := values[seg.Field]; ok {
				b.WriteString(transform(v))
				continue
			}
		}
		b.WriteString(seg.Literal)
	}
	return b.String()
}

// Placeholders возвращает уникальные имена полей в порядке первого появления.
func Placeholders(content string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// Unresolved — плейсхолдеры, оставшиеся в уже отрендеренном документе.
func Unresolved(rendered string) []string {
	return Placeholders(rendered)
}

// MissingFields возвращает обязательные поля шаблона без непустого значения.
// Рендер это не проверяет: проверка нужна формам перед генерацией.
func MissingFields(t domain.PolicyTemplate, values domain.FieldValues) []string {
	missing := make([]string, 0)
	for _, field := range t.RequiredFields {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
