package templates

import (
	"sort"
	"strings"

	"github.com/xela07ax/complitic/internal/domain"
)

const SortByName = "name"

// Query — фильтр каталога: подстрока по name/description, категория и сортировка.
type Query struct {
	Text     string
	Category domain.Category
	SortBy   string
}

// Search фильтрует каталог. Без SortBy сохраняется порядок объявления.
func (s *Store) Search(q Query) []domain.PolicyTemplate {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	result := make([]domain.PolicyTemplate, 0, len(s.order))
	for _, t := range s.All() {
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Name), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		result = append(result, t)
	}

	if q.SortBy == SortByName {
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	}
	return result
}
