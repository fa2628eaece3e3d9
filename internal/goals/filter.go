package goals

import "github.com/benvon/goaltracker/internal/models"

// FilterByCategory returns the goals whose category equals category, in their original order.
// The models.CategoryAll sentinel returns every goal. An empty result is not an error.
func FilterByCategory(goals []*models.Goal, category string) []*models.Goal {
	out := make([]*models.Goal, 0, len(goals))
	for _, g := range goals {
		if category == models.CategoryAll || string(g.Category) == category {
			out = append(out, g)
		}
	}
	return out
}
