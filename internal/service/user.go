package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/store"
)

type UserService struct {
	store    *store.Store
	resolver *shortlink.Resolver
}

func NewUserService(s *store.Store, resolver *shortlink.Resolver) *UserService {
	return &UserService{store: s, resolver: resolver}
}

func (s *UserService) GetUser(ctx context.Context, viewerID, userID uint64) (*UserView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.store.IsFollowing(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	view := newUserView(user, subscribed)
	return &view, nil
}

func (s *UserService) ListUsers(ctx context.Context, viewerID uint64) ([]UserView, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	following, err := s.store.FollowingSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, newUserView(&users[i], following[users[i].ID]))
	}
	return out, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, w integrity.UserWrite) (*UserView, error) {
	user, err := s.store.UpdateUser(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	view := newUserView(user, false)
	return &view, nil
}

// SetAvatar replaces the avatar; a nil ref clears it.
func (s *UserService) SetAvatar(ctx context.Context, userID uint64, ref *string) (*UserView, error) {
	user, err := s.store.SetAvatar(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	view := newUserView(user, false)
	return &view, nil
}

// DeleteUser removes the account and drops the cached short links of every
// recipe that went with it.
func (s *UserService) DeleteUser(ctx context.Context, userID uint64) error {
	codes, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, code := range codes {
		s.resolver.Forget(ctx, code)
	}
	return nil
}

// Subscribe follows authorID and returns the author with up to recipesLimit
// of their recipes (all of them when recipesLimit is 0).
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uint64, recipesLimit int) (*SubscriptionView, error) {
	if err := s.store.Follow(ctx, userID, authorID); err != nil {
		return nil, err
	}
	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	views, err := s.subscriptions(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uint64) error {
	return s.store.Unfollow(ctx, userID, authorID)
}

func (s *UserService) Subscriptions(ctx context.Context, userID uint64, recipesLimit int) ([]SubscriptionView, error) {
	authors, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.subscriptions(ctx, authors, recipesLimit)
}

func (s *UserService) subscriptions(ctx context.Context, authors []models.User, recipesLimit int) ([]SubscriptionView, error) {
	ids := make([]uint64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.store.CountRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]SubscriptionView, 0, len(authors))
	for i := range authors {
		author := &authors[i]
		recipes, err := s.store.ListRecipes(ctx, store.RecipeFilter{AuthorID: author.ID, Limit: recipesLimit})
		if err != nil {
			return nil, err
		}
		shorts := make([]RecipeShort, 0, len(recipes))
		for j := range recipes {
			shorts = append(shorts, newRecipeShort(&recipes[j]))
		}
		out = append(out, SubscriptionView{
			UserView:     newUserView(author, true),
			Recipes:      shorts,
			RecipesCount: counts[author.ID],
		})
	}
	return out, nil
}
