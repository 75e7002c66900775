package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/complitic/internal/domain"
)

func slugsOf(list []domain.PolicyTemplate) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Slug)
	}
	return out
}

func TestSearch(t *testing.T) {
	store, err := LoadBuiltin()
	require.NoError(t, err)

	t.Run("empty query keeps declaration order", func(t *testing.T) {
		assert.Equal(t, slugsOf(store.All()), slugsOf(store.Search(Query{})))
	})

	t.Run("category filter", func(t *testing.T) {
		got := slugsOf(store.Search(Query{Category: domain.CategoryOperational}))
		assert.Equal(t, []string{"refund_policy", "shipping_policy"}, got)
	})

	t.Run("case insensitive text on name", func(t *testing.T) {
		got := slugsOf(store.Search(Query{Text: "COOKIE"}))
		assert.Equal(t, []string{"cookie_policy"}, got)
	})

	t.Run("text matches description", func(t *testing.T) {
		got := slugsOf(store.Search(Query{Text: "lost parcel"}))
		assert.Equal(t, []string{"shipping_policy"}, got)
	})

	t.Run("sort by name", func(t *testing.T) {
		got := slugsOf(store.Search(Query{SortBy: SortByName}))
		assert.Equal(t, []string{"cookie_policy", "privacy_policy", "refund_policy", "shipping_policy", "terms_conditions"}, got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, store.Search(Query{Text: "affiliate"}))
	})
}
