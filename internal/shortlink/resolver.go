package shortlink

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/models"
)

// RecipeLookup is implemented by the recipe store.
type RecipeLookup interface {
	// RecipeByShortCode returns a NotFound error for unknown codes.
	RecipeByShortCode(ctx context.Context, code string) (*models.Recipe, error)
	// EnsureShortLink returns the recipe's code, assigning one first if the
	// recipe has none.
	EnsureShortLink(ctx context.Context, recipeID uint64) (string, error)
}

type Resolver struct {
	lookup RecipeLookup
	cache  *Cache
	codes  *Generator
}

// NewResolver builds a resolver. When codes is set, strings the generator
// could not have produced are rejected without touching redis or the store.
func NewResolver(lookup RecipeLookup, cache *Cache, codes *Generator) *Resolver {
	return &Resolver{lookup: lookup, cache: cache, codes: codes}
}

// Resolve maps a code to the recipe's relative path, /recipes/<id>.
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	if r.codes != nil && r.codes.Decode(code) == nil {
		return "", apperrors.NotFound("recipe not found")
	}
	if id, ok := r.cache.Get(ctx, code); ok {
		return RecipePath(id), nil
	}
	recipe, err := r.lookup.RecipeByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	r.cache.Set(ctx, code, recipe.ID)
	return RecipePath(recipe.ID), nil
}

// Link returns the absolute short link <baseURL>/s/<code>/ for a recipe.
func (r *Resolver) Link(ctx context.Context, recipeID uint64, baseURL string) (string, error) {
	code, err := r.lookup.EnsureShortLink(ctx, recipeID)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/s/" + code + "/", nil
}

// Forget drops a cached code, for recipes that were deleted.
func (r *Resolver) Forget(ctx context.Context, code string) {
	r.cache.Delete(ctx, code)
}

func RecipePath(id uint64) string {
	return fmt.Sprintf("/recipes/%d", id)
}
