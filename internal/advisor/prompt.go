package advisor

import (
	"strings"

	"github.com/xela07ax/complitic/internal/domain"
)

const systemPreamble = "You are the Complitic compliance advisor for e-commerce store owners. " +
	"Answer concisely in markdown. When a store needs a document, recommend one of the available templates by name."

// BuildPrompt склеивает контекст, историю чата и вопрос в один промпт.
func BuildPrompt(req domain.ChatRequest, catalog []domain.PolicyTemplate) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\nAvailable templates:\n")
	for _, t := range catalog {
		b.WriteString("- ")
		b.WriteString(t.Name)
		b.WriteString(" (")
		b.WriteString(t.Slug)
		b.WriteString("): ")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	if len(req.History) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range req.History {
			if turn.Role == "assistant" {
				b.WriteString("Advisor: ")
			} else {
				b.WriteString("User: ")
			}
			b.WriteString(strings.TrimSpace(turn.Content))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUser: ")
	b.WriteString(strings.TrimSpace(req.Question))
	b.WriteString("\nAdvisor:")
	return b.String()
}
