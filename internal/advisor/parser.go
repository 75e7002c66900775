// Package advisor связывает чат советника с внешним AI-сервисом
// и разбирает его markdown-ответы для отображения в чате.
package advisor

import (
	"regexp"
	"strings"

	"github.com/xela07ax/complitic/internal/domain"
)

var (
	imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// ParseMessage в два прохода достает из ответа картинки и ссылки.
// Картинки вырезаются из текста, ссылки остаются на месте.
func ParseMessage(text string) domain.AdvisorMessage {
	msg := domain.AdvisorMessage{
		Images: make([]domain.Link, 0),
		Links:  make([]domain.Link, 0),
	}

	// 1. Картинки
	for _, m := range imageRe.FindAllStringSubmatch(text, -1) {
		msg.Images = append(msg.Images, domain.Link{Label: m[1], URL: m[2]})
	}
	stripped := imageRe.ReplaceAllString(text, "")

	// 2. Ссылки ищем уже без картинок, чтобы ![..](..) не попал в оба списка
	for _, m := range linkRe.FindAllStringSubmatch(stripped, -1) {
		msg.Links = append(msg.Links, domain.Link{Label: m[1], URL: m[2]})
	}

	msg.Text = strings.TrimSpace(stripped)
	return msg
}
