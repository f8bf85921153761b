package service

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/store"
)

// UserView is a user as seen by the requesting user.
type UserView struct {
	ID           uint64  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Avatar       *string `json:"avatar"`
	IsSubscribed bool    `json:"is_subscribed"`
}

type IngredientAmount struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               uint64             `json:"id"`
	Author           UserView           `json:"author"`
	Name             string             `json:"name"`
	Text             string             `json:"text"`
	Image            string             `json:"image"`
	CookingTime      int                `json:"cooking_time"`
	Tags             []models.Tag       `json:"tags"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
}

// RecipeShort is the compact form returned by relation endpoints and
// subscriptions.
type RecipeShort struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionView struct {
	UserView
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func newUserView(u *models.User, subscribed bool) UserView {
	if u == nil {
		return UserView{}
	}
	return UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		IsSubscribed: subscribed,
	}
}

func newRecipeView(r *models.Recipe, rel store.RelationSet, authorFollowed bool) RecipeView {
	ingredients := make([]IngredientAmount, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		item := IngredientAmount{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeView{
		ID:               r.ID,
		Author:           newUserView(r.Author, authorFollowed),
		Name:             r.Name,
		Text:             r.Text,
		Image:            r.Image,
		CookingTime:      r.CookingTime,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      rel.Favorited,
		IsInShoppingCart: rel.InCart,
	}
}

func newRecipeShort(r *models.Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}
