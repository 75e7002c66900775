package templates

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/domain"
)

func TestLoadBuiltinLookup(t *testing.T) {
	store, err := LoadBuiltin()
	require.NoError(t, err)

	tmpl, ok := store.Get("privacy_policy")
	require.True(t, ok)
	assert.Equal(t, "Privacy Policy", tmpl.Name)
	assert.Equal(t, domain.CategoryLegal, tmpl.Category)
	assert.NotEmpty(t, tmpl.Content)

	_, ok = store.Get("does_not_exist")
	assert.False(t, ok)

	_, ok = store.Get("")
	assert.False(t, ok)
}

func TestLoadBuiltinListing(t *testing.T) {
	store, err := LoadBuiltin()
	require.NoError(t, err)

	all := store.All()
	slugs := make([]string, 0, len(all))
	for _, tmpl := range all {
		slugs = append(slugs, tmpl.Slug)
		got, ok := store.Get(tmpl.Slug)
		require.True(t, ok, "slug %q must resolve", tmpl.Slug)
		assert.Equal(t, tmpl.Name, got.Name)
	}

	want := []string{"privacy_policy", "terms_conditions", "cookie_policy", "refund_policy", "shipping_policy"}
	if diff := cmp.Diff(want, slugs); diff != "" {
		t.Fatalf("unexpected template order (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, store.Len())
}

func TestStoreIsReadOnly(t *testing.T) {
	store, err := NewStore(domain.PolicyTemplate{
		Slug:           "fixture",
		Name:           "Fixture",
		Category:       domain.CategoryLegal,
		RequiredFields: []string{"store_name"},
		Content:        "Hello {{store_name}}",
	})
	require.NoError(t, err)

	all := store.All()
	all[0].Name = "Mutated"
	all[0].RequiredFields[0] = "mutated"

	got, ok := store.Get("fixture")
	require.True(t, ok)
	assert.Equal(t, "Fixture", got.Name)
	assert.Equal(t, []string{"store_name"}, got.RequiredFields)
}

func TestNewStoreRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		list []domain.PolicyTemplate
	}{
		{
			name: "empty slug",
			list: []domain.PolicyTemplate{{Name: "x", Category: domain.CategoryLegal}},
		},
		{
			name: "duplicate slug",
			list: []domain.PolicyTemplate{
				{Slug: "a", Category: domain.CategoryLegal},
				{Slug: "a", Category: domain.CategoryOperational},
			},
		},
		{
			name: "unknown category",
			list: []domain.PolicyTemplate{{Slug: "a", Category: "marketing"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.list...)
			assert.Error(t, err)
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("slug: [unterminated"))
	assert.Error(t, err)
}
