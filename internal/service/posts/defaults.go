package posts

import (
	"context"
	"fmt"

	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
)

// DefaultCategories are the global categories every user sees
var DefaultCategories = []string{
	"General",
	"Marketing",
	"Technology",
	"Business",
	"Tutorials",
}

// EnsureDefaultCategories creates any missing global default category.
// Safe to run on every start.
func EnsureDefaultCategories(ctx context.Context, repo repositories.CategoryRepository) ([]blog.Category, error) {
	out := make([]blog.Category, 0, len(DefaultCategories))
	for _, name := range DefaultCategories {
		c, err := repo.EnsureGlobal(ctx, name, blog.Slugify(name))
		if err != nil {
			return nil, fmt.Errorf("ensure category %q: %w", name, err)
		}
		out = append(out, *c)
	}
	return out, nil
}
