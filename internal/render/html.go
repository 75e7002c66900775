package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown

	strictPolicy = bluemonday.StrictPolicy()
	htmlPolicy   = bluemonday.UGCPolicy()
)

func markdownConverter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// RenderHTML отдает документ в HTML для встраивания в страницу.
// Из значений полей вырезается любая разметка, итоговый HTML
// дополнительно проходит через UGC-политику bluemonday.
func RenderHTML(content string, values domain.FieldValues) (string, error) {
	body := assemble(Parse(content), values, SanitizeValue)

	var buf bytes.Buffer
	if err := markdownConverter().Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render: markdown to html: %w", err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}

// SanitizeValue удаляет из пользовательского значения HTML-теги.
func SanitizeValue(v string) string {
	return strictPolicy.Sanitize(v)
}
