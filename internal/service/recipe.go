package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/store"
)

// RecipeService handles recipe operations on behalf of a requesting user.
// A viewer id of 0 is an anonymous request.
type RecipeService struct {
	store      *store.Store
	aggregator *shoppinglist.Aggregator
	resolver   *shortlink.Resolver
	log        *zap.SugaredLogger
}

func NewRecipeService(
	s *store.Store,
	aggregator *shoppinglist.Aggregator,
	resolver *shortlink.Resolver,
	log *zap.SugaredLogger,
) *RecipeService {
	return &RecipeService{
		store:      s,
		aggregator: aggregator,
		resolver:   resolver,
		log:        log,
	}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint64, w integrity.RecipeWrite) (*RecipeView, error) {
	recipe, err := s.store.CreateRecipe(ctx, authorID, w)
	if err != nil {
		return nil, err
	}
	s.log.Infow("recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.view(ctx, authorID, recipe)
}

// UpdateRecipe rejects non-authors before the write is validated.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uint64, w integrity.RecipeWrite) (*RecipeView, error) {
	if err := s.requireAuthor(ctx, actorID, recipeID); err != nil {
		return nil, err
	}
	recipe, err := s.store.UpdateRecipe(ctx, recipeID, w)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, actorID, recipe)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uint64) error {
	if err := s.requireAuthor(ctx, actorID, recipeID); err != nil {
		return err
	}
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	if recipe.ShortLinkCode != nil {
		s.resolver.Forget(ctx, *recipe.ShortLinkCode)
	}
	s.log.Infow("recipe deleted", "recipe_id", recipeID, "author_id", actorID)
	return nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, viewerID, recipeID uint64) (*RecipeView, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, viewerID, recipe)
}

func (s *RecipeService) ListRecipes(ctx context.Context, viewerID uint64, f store.RecipeFilter) ([]RecipeView, error) {
	recipes, err := s.store.ListRecipes(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, viewerID, recipes)
}

// ListRelated lists the viewer's favorites or cart.
func (s *RecipeService) ListRelated(ctx context.Context, viewerID uint64, kind models.RelationKind) ([]RecipeView, error) {
	recipes, err := s.store.ListRelatedRecipes(ctx, viewerID, kind)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, viewerID, recipes)
}

func (s *RecipeService) AddRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) (*RecipeShort, error) {
	if err := s.store.AddRelation(ctx, userID, recipeID, kind); err != nil {
		return nil, err
	}
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	short := newRecipeShort(recipe)
	return &short, nil
}

func (s *RecipeService) RemoveRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) error {
	return s.store.RemoveRelation(ctx, userID, recipeID, kind)
}

// ShoppingList renders the user's cart as a plain-text document.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uint64) (string, error) {
	return s.aggregator.Document(ctx, userID)
}

func (s *RecipeService) ShortLink(ctx context.Context, recipeID uint64, baseURL string) (string, error) {
	return s.resolver.Link(ctx, recipeID, baseURL)
}

// ResolveShortLink returns the recipe path for a short code.
func (s *RecipeService) ResolveShortLink(ctx context.Context, code string) (string, error) {
	return s.resolver.Resolve(ctx, code)
}

func (s *RecipeService) requireAuthor(ctx context.Context, actorID, recipeID uint64) error {
	authorID, err := s.store.GetRecipeAuthor(ctx, recipeID)
	if err != nil {
		return err
	}
	if authorID != actorID {
		return apperrors.Forbidden(apperrors.CodeNotAuthor, "only the author can change this recipe")
	}
	return nil
}

func (s *RecipeService) view(ctx context.Context, viewerID uint64, recipe *models.Recipe) (*RecipeView, error) {
	var set store.RelationSet
	var err error
	if set.Favorited, err = s.store.HasRelation(ctx, viewerID, recipe.ID, models.RelationFavorite); err != nil {
		return nil, err
	}
	if set.InCart, err = s.store.HasRelation(ctx, viewerID, recipe.ID, models.RelationCart); err != nil {
		return nil, err
	}
	subscribed, err := s.store.IsFollowing(ctx, viewerID, recipe.AuthorID)
	if err != nil {
		return nil, err
	}
	view := newRecipeView(recipe, set, subscribed)
	return &view, nil
}

func (s *RecipeService) views(ctx context.Context, viewerID uint64, recipes []models.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint64, 0, len(recipes))
	authorIDs := make([]uint64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	relations, err := s.store.RelationsFor(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	following, err := s.store.FollowingSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		out = append(out, newRecipeView(r, relations[r.ID], following[r.AuthorID]))
	}
	return out, nil
}
