package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/templates"
)

func TestRenderLeavesUnmatchedPlaceholders(t *testing.T) {
	out := Render("Contact {{contact_email}} at {{store_name}}", domain.FieldValues{"store_name": "Acme"})
	assert.Equal(t, "Contact {{contact_email}} at Acme", out)
}

func TestRenderSingleOccurrence(t *testing.T) {
	out := Render("Welcome to {{store_name}}!", domain.FieldValues{"store_name": "Acme"})
	assert.Equal(t, "Welcome to Acme!", out)
	assert.NotContains(t, out, "{{store_name}}")
}

func TestRenderMultipleOccurrences(t *testing.T) {
	content := "{{store_name}} / {{store_name}} / {{store_name}}"
	out := Render(content, domain.FieldValues{"store_name": "Acme"})
	assert.Equal(t, "Acme / Acme / Acme", out)
	assert.Equal(t, 3, strings.Count(out, "Acme"))
	assert.NotContains(t, out, "{{store_name}}")
}

func TestRenderIgnoresUnusedKeys(t *testing.T) {
	content := "Hello {{store_name}}, ship to {{country}}"
	base := domain.FieldValues{"store_name": "Acme"}
	extra := domain.FieldValues{"store_name": "Acme", "affiliate_id": "AFF-1"}
	assert.Equal(t, Render(content, base), Render(content, extra))
}

func TestRenderEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  domain.FieldValues
		want    string
	}{
		{name: "empty content", content: "", values: domain.FieldValues{"a": "b"}, want: ""},
		{name: "nil values", content: "x {{a}} y", values: nil, want: "x {{a}} y"},
		{name: "empty value replaces token", content: "[{{a}}]", values: domain.FieldValues{"a": ""}, want: "[]"},
		{name: "adjacent tokens", content: "{{a}}{{b}}", values: domain.FieldValues{"a": "1", "b": "2"}, want: "12"},
		{name: "not a placeholder with spaces", content: "{{ a }}", values: domain.FieldValues{"a": "1"}, want: "{{ a }}"},
		{name: "single braces untouched", content: "{a} {{a}", values: domain.FieldValues{"a": "1"}, want: "{a} {{a}"},
		{name: "nested braces", content: "{{{a}}}", values: domain.FieldValues{"a": "1"}, want: "{1}"},
		{name: "value is literal text", content: "{{a}}", values: domain.FieldValues{"a": "<b>$1 & \\n</b>"}, want: "<b>$1 & \\n</b>"},
		{name: "unicode value", content: "Магазин {{a}}", values: domain.FieldValues{"a": "Ёлка"}, want: "Магазин Ёлка"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.content, tt.values))
		})
	}
}

func TestRenderDoesNotResubstituteValues(t *testing.T) {
	values := domain.FieldValues{
		"store_name": "{{country}}",
		"country":    "France",
	}
	out := Render("{{store_name}} in {{country}}", values)
	assert.Equal(t, "{{country}} in France", out)
}

func TestRenderIsDeterministic(t *testing.T) {
	content := "{{a}} {{b}} {{c}} {{a}}"
	values := domain.FieldValues{"a": "1", "b": "2", "c": "3"}
	first := Render(content, values)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Render(content, values))
	}
}

func TestParseRoundTrip(t *testing.T) {
	content := "Intro {{a}} middle {{b}}{{a}} tail {not} {{}}"
	var b strings.Builder
	for _, seg := range Parse(content) {
		b.WriteString(seg.Literal)
	}
	assert.Equal(t, content, b.String())

	fields := make([]string, 0)
	for _, seg := range Parse(content) {
		if seg.IsPlaceholder() {
			fields = append(fields, seg.Field)
		}
	}
	assert.Equal(t, []string{"a", "b", "a"}, fields)
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{b}} {{a}} {{b}} {{c_1}}")
	if diff := cmp.Diff([]string{"b", "a", "c_1"}, got); diff != "" {
		t.Fatalf("placeholders mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Placeholders("no tokens"))
}

func TestMissingFields(t *testing.T) {
	tmpl := domain.PolicyTemplate{RequiredFields: []string{"store_name", "contact_email", "country"}}
	values := domain.FieldValues{"store_name": "Acme", "contact_email": "   "}
	assert.Equal(t, []string{"contact_email", "country"}, MissingFields(tmpl, values))
	assert.Empty(t, MissingFields(tmpl, domain.FieldValues{"store_name": "a", "contact_email": "b", "country": "c"}))
}

func TestRefundPolicyEndToEnd(t *testing.T) {
	store, err := templates.LoadBuiltin()
	require.NoError(t, err)

	tmpl, ok := store.Get("refund_policy")
	require.True(t, ok)

	values := domain.FieldValues{
		"store_name":    "Eco Style Boutique",
		"contact_email": "support@eco.example",
		"country":       "United States",
		"current_date":  "2024-01-20",
		"contact_phone": "555-1000",
		"store_address": "1 Main St",
		"timezone":      "UTC",
	}

	out := Render(tmpl.Content, values)
	assert.True(t, strings.HasPrefix(out, "Refund Policy for Eco Style Boutique"), "got prefix %q", out[:40])
	assert.Contains(t, out, "Email: support@eco.example")
	for key := range values {
		assert.NotContains(t, out, "{{"+key+"}}")
	}
	assert.Empty(t, Unresolved(out))
	assert.Empty(t, MissingFields(tmpl, values))
}
