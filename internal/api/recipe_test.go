package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
)

func createRecipe(t *testing.T, a *TestAPI, token, name string, flour int) service.RecipeView {
	t.Helper()
	w := PerformRequest(a.Router, http.MethodPost, "/api/recipes", a.RecipeBody(name, flour), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recipe service.RecipeView
	decode(t, w, &recipe)
	return recipe
}

func TestCreateAndGetRecipe(t *testing.T) {
	a := SetupTestAPI(t)
	authorID, token := a.CreateTestUserAndToken(t, "author")

	created := createRecipe(t, a, token, "pancakes", 200)
	assert.Equal(t, authorID, created.Author.ID)
	assert.Len(t, created.Ingredients, 2)
	assert.Equal(t, "flour", created.Ingredients[0].Name)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)

	w := PerformRequest(a.Router, http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched service.RecipeView
	decode(t, w, &fetched)
	assert.Equal(t, created.Name, fetched.Name)
	assert.False(t, fetched.IsFavorited)

	w = PerformRequest(a.Router, http.MethodGet, "/api/recipes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []service.RecipeView
	decode(t, w, &list)
	assert.Len(t, list, 1)
}

func TestCreateRecipeValidation(t *testing.T) {
	a := SetupTestAPI(t)
	_, token := a.CreateTestUserAndToken(t, "author")

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
		code   string
	}{
		{"no ingredients", func(b map[string]interface{}) { b["ingredients"] = []interface{}{} }, "EmptyIngredientList"},
		{"duplicate ingredient", func(b map[string]interface{}) {
			b["ingredients"] = []map[string]interface{}{{"id": a.Flour.ID, "amount": 1}, {"id": a.Flour.ID, "amount": 2}}
		}, "DuplicateIngredient"},
		{"no tags", func(b map[string]interface{}) { b["tags"] = []uint64{} }, "EmptyTagList"},
		{"zero amount", func(b map[string]interface{}) {
			b["ingredients"] = []map[string]interface{}{{"id": a.Flour.ID, "amount": 0}}
		}, "InvalidAmount"},
		{"zero cooking time", func(b map[string]interface{}) { b["cooking_time"] = 0 }, "InvalidCookingTime"},
		{"unknown ingredient", func(b map[string]interface{}) {
			b["ingredients"] = []map[string]interface{}{{"id": 9999, "amount": 1}}
		}, "UnknownIngredient"},
		{"unknown tag", func(b map[string]interface{}) { b["tags"] = []uint64{9999} }, "UnknownTag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := a.RecipeBody("broken", 100)
			tt.mutate(body)
			w := PerformRequest(a.Router, http.MethodPost, "/api/recipes", body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.code, resp.Code)
		})
	}

	w := PerformRequest(a.Router, http.MethodGet, "/api/recipes", nil, "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateAndDeleteRecipe(t *testing.T) {
	a := SetupTestAPI(t)
	_, authorToken := a.CreateTestUserAndToken(t, "author")
	_, otherToken := a.CreateTestUserAndToken(t, "other")
	recipe := createRecipe(t, a, authorToken, "pancakes", 200)
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)

	update := a.RecipeBody("waffles", 300)
	delete(update, "image")

	w := PerformRequest(a.Router, http.MethodPatch, path, update, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = PerformRequest(a.Router, http.MethodDelete, path, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = PerformRequest(a.Router, http.MethodPut, path, update, authorToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated service.RecipeView
	decode(t, w, &updated)
	assert.Equal(t, "waffles", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image)
	assert.Equal(t, 300, updated.Ingredients[0].Amount)

	w = PerformRequest(a.Router, http.MethodDelete, path, nil, authorToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = PerformRequest(a.Router, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = PerformRequest(a.Router, http.MethodGet, "/api/recipes/not-a-number", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteAndCartRelations(t *testing.T) {
	a := SetupTestAPI(t)
	_, authorToken := a.CreateTestUserAndToken(t, "author")
	_, readerToken := a.CreateTestUserAndToken(t, "reader")
	recipe := createRecipe(t, a, authorToken, "pancakes", 200)
	favorite := fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID)
	cart := fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe.ID)

	w := PerformRequest(a.Router, http.MethodPost, favorite, nil, readerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var short service.RecipeShort
	decode(t, w, &short)
	assert.Equal(t, recipe.ID, short.ID)

	w = PerformRequest(a.Router, http.MethodPost, favorite, nil, readerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequest(a.Router, http.MethodPost, cart, nil, readerToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = PerformRequest(a.Router, http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipe.ID), nil, readerToken)
	var view service.RecipeView
	decode(t, w, &view)
	assert.True(t, view.IsFavorited)
	assert.True(t, view.IsInShoppingCart)

	w = PerformRequest(a.Router, http.MethodDelete, favorite, nil, readerToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = PerformRequest(a.Router, http.MethodDelete, favorite, nil, readerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequest(a.Router, http.MethodPost, "/api/recipes/9999/favorite", nil, readerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	a := SetupTestAPI(t)
	_, token := a.CreateTestUserAndToken(t, "cook")
	first := createRecipe(t, a, token, "pancakes", 200)
	second := createRecipe(t, a, token, "bread", 300)

	for _, id := range []uint64{first.ID, second.ID} {
		w := PerformRequest(a.Router, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), nil, token)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := PerformRequest(a.Router, http.MethodGet, "/api/recipes/download_shopping_cart", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "flour — 500 g\nsalt — 10 g", w.Body.String())
}

func TestShortLinkRedirect(t *testing.T) {
	a := SetupTestAPI(t)
	_, token := a.CreateTestUserAndToken(t, "author")
	recipe := createRecipe(t, a, token, "pancakes", 200)

	w := PerformRequest(a.Router, http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", recipe.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var link ShortLinkResponse
	decode(t, w, &link)
	require.True(t, strings.HasPrefix(link.ShortLink, testBaseURL+"/s/"), link.ShortLink)
	assert.True(t, strings.HasSuffix(link.ShortLink, "/"))

	path := strings.TrimPrefix(link.ShortLink, testBaseURL)
	for _, p := range []string{path, "/api" + path} {
		w = PerformRequest(a.Router, http.MethodGet, p, nil, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, fmt.Sprintf("%s/recipes/%d", testBaseURL, recipe.ID), w.Header().Get("Location"))
	}

	w = PerformRequest(a.Router, http.MethodGet, "/s/nosuchcode/", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testBaseURL+"/404", w.Header().Get("Location"))

	w = PerformRequest(a.Router, http.MethodGet, "/api/recipes/9999/get-link", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
