package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xela07ax/complitic/internal/domain"
)

func TestParseMessage(t *testing.T) {
	text := "Start with a [Privacy Policy](https://app.example/templates/privacy_policy).\n" +
		"![GDPR checklist](https://cdn.example/gdpr.png)\n" +
		"See also [Cookie Policy](/templates/cookie_policy)."

	msg := ParseMessage(text)

	assert.Equal(t, []domain.Link{{Label: "GDPR checklist", URL: "https://cdn.example/gdpr.png"}}, msg.Images)
	assert.Equal(t, []domain.Link{
		{Label: "Privacy Policy", URL: "https://app.example/templates/privacy_policy"},
		{Label: "Cookie Policy", URL: "/templates/cookie_policy"},
	}, msg.Links)
	assert.NotContains(t, msg.Text, "gdpr.png")
	assert.Contains(t, msg.Text, "[Privacy Policy](https://app.example/templates/privacy_policy)")
}

func TestParseMessagePlainText(t *testing.T) {
	msg := ParseMessage("  You need a refund policy.  ")
	assert.Equal(t, "You need a refund policy.", msg.Text)
	assert.Empty(t, msg.Images)
	assert.Empty(t, msg.Links)
	assert.NotNil(t, msg.Links, "empty lists must encode as []")
}

func TestParseMessageImageWithEmptyAlt(t *testing.T) {
	msg := ParseMessage("![](https://cdn.example/a.png)")
	assert.Equal(t, []domain.Link{{Label: "", URL: "https://cdn.example/a.png"}}, msg.Images)
	assert.Empty(t, msg.Links)
	assert.Equal(t, "", msg.Text)
}

func TestParseMessageIgnoresBrokenMarkup(t *testing.T) {
	msg := ParseMessage("[label](no closing paren and [other]")
	assert.Empty(t, msg.Links)
}
