package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uint64, w integrity.RecipeWrite) (*service.RecipeView, error) {
	args := m.Called(ctx, authorID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uint64, w integrity.RecipeWrite) (*service.RecipeView, error) {
	args := m.Called(ctx, actorID, recipeID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uint64) error {
	return m.Called(ctx, actorID, recipeID).Error(0)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, viewerID, recipeID uint64) (*service.RecipeView, error) {
	args := m.Called(ctx, viewerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewerID uint64, f store.RecipeFilter) ([]service.RecipeView, error) {
	args := m.Called(ctx, viewerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) AddRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) (*service.RecipeShort, error) {
	args := m.Called(ctx, userID, recipeID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeShort), args.Error(1)
}

func (m *MockRecipeService) RemoveRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) error {
	return m.Called(ctx, userID, recipeID, kind).Error(0)
}

func (m *MockRecipeService) ShoppingList(ctx context.Context, userID uint64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockRecipeService) ShortLink(ctx context.Context, recipeID uint64, baseURL string) (string, error) {
	args := m.Called(ctx, recipeID, baseURL)
	return args.String(0), args.Error(1)
}

func (m *MockRecipeService) ResolveShortLink(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}
