package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, userID uint64, current, next string) error
	ValidateToken(token string) (*middleware.TokenClaims, error)
}

// IUserService defines the interface for user and subscription operations
type IUserService interface {
	GetUser(ctx context.Context, viewerID, userID uint64) (*UserView, error)
	ListUsers(ctx context.Context, viewerID uint64) ([]UserView, error)
	UpdateProfile(ctx context.Context, userID uint64, w integrity.UserWrite) (*UserView, error)
	SetAvatar(ctx context.Context, userID uint64, ref *string) (*UserView, error)
	DeleteUser(ctx context.Context, userID uint64) error
	Subscribe(ctx context.Context, userID, authorID uint64, recipesLimit int) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, userID, authorID uint64) error
	Subscriptions(ctx context.Context, userID uint64, recipesLimit int) ([]SubscriptionView, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint64, w integrity.RecipeWrite) (*RecipeView, error)
	UpdateRecipe(ctx context.Context, actorID, recipeID uint64, w integrity.RecipeWrite) (*RecipeView, error)
	DeleteRecipe(ctx context.Context, actorID, recipeID uint64) error
	GetRecipe(ctx context.Context, viewerID, recipeID uint64) (*RecipeView, error)
	ListRecipes(ctx context.Context, viewerID uint64, f store.RecipeFilter) ([]RecipeView, error)
	AddRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) (*RecipeShort, error)
	RemoveRelation(ctx context.Context, userID, recipeID uint64, kind models.RelationKind) error
	ShoppingList(ctx context.Context, userID uint64) (string, error)
	ShortLink(ctx context.Context, recipeID uint64, baseURL string) (string, error)
	ResolveShortLink(ctx context.Context, code string) (string, error)
}

// ICatalogService defines the read-only tag and ingredient operations
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint64) (*models.Tag, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint64) (*models.Ingredient, error)
}

var (
	_ IAuthService    = (*AuthService)(nil)
	_ IUserService    = (*UserService)(nil)
	_ IRecipeService  = (*RecipeService)(nil)
	_ ICatalogService = (*store.Store)(nil)
)
