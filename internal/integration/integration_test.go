// Package integration runs the HTTP surface against real postgres and redis.
package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const baseURL = "http://foodgram.test"

func TestFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupPostgres(t)
	rdb := testhelpers.SetupRedis(t)
	log := zap.NewNop().Sugar()

	gen, err := shortlink.NewGenerator()
	require.NoError(t, err)
	s := store.New(db, integrity.New(), gen, storage.Nop{}, log)
	resolver := shortlink.NewResolver(s, shortlink.NewCache(rdb, time.Minute, log), gen)
	auth := service.NewAuthService(s, "integration-secret", time.Hour)

	cfg := &config.Config{Environment: config.Test, ServerHost: "127.0.0.1", ServerPort: "0", BaseURL: baseURL}
	router := server.NewRouter(cfg, log, api.Deps{
		DB:            db,
		Auth:          auth,
		Users:         service.NewUserService(s, resolver),
		Recipes:       service.NewRecipeService(s, shoppinglist.NewAggregator(db), resolver, log),
		Catalog:       s,
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(rdb, 2),
		BaseURL:       baseURL,
		Log:           log,
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	milk := testhelpers.CreateIngredient(t, db, "milk", "ml")
	tag := testhelpers.CreateTag(t, db, "breakfast")

	client := resty.New().
		SetBaseURL(srv.URL).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	resp, err := client.R().
		SetBody(map[string]string{"email": "cook@example.com", "username": "cook", "password": "correct-horse"}).
		Post("/api/auth/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	var token api.TokenResponse
	_, err = client.R().
		SetBody(map[string]string{"email": "cook@example.com", "password": "correct-horse"}).
		SetResult(&token).
		Post("/api/auth/token/login")
	require.NoError(t, err)
	client.SetAuthToken(token.AuthToken)

	body := func(name string, flourAmount int) map[string]interface{} {
		return map[string]interface{}{
			"name":         name,
			"text":         "Whisk and bake.",
			"image":        "recipes/" + name + ".png",
			"cooking_time": 20,
			"tags":         []uint64{tag.ID},
			"ingredients": []map[string]interface{}{
				{"id": flour.ID, "amount": flourAmount},
				{"id": milk.ID, "amount": 250},
			},
		}
	}

	var ids []uint64
	for i, name := range []string{"pancakes", "crepes"} {
		var recipe service.RecipeView
		resp, err = client.R().SetBody(body(name, 100*(i+1))).SetResult(&recipe).Post("/api/recipes")
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
		ids = append(ids, recipe.ID)
	}

	// third creation in the same hour trips the limit
	resp, err = client.R().SetBody(body("waffles", 100)).Post("/api/recipes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())

	for _, id := range ids {
		resp, err = client.R().Post(fmt.Sprintf("/api/recipes/%d/shopping_cart", id))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode())
	}

	resp, err = client.R().Get("/api/recipes/download_shopping_cart")
	require.NoError(t, err)
	assert.Equal(t, "flour — 300 g\nmilk — 500 ml", resp.String())

	var link api.ShortLinkResponse
	_, err = client.R().SetResult(&link).Get(fmt.Sprintf("/api/recipes/%d/get-link", ids[0]))
	require.NoError(t, err)
	path := link.ShortLink[len(baseURL):]

	for i := 0; i < 2; i++ {
		resp, err = client.R().Get(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		assert.Equal(t, fmt.Sprintf("%s/recipes/%d", baseURL, ids[0]), resp.Header().Get("Location"))
	}

	// deleting the recipe also drops the cached code
	resp, err = client.R().Delete(fmt.Sprintf("/api/recipes/%d", ids[0]))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().Get(path)
	require.NoError(t, err)
	assert.Equal(t, baseURL+"/404", resp.Header().Get("Location"))

	resp, err = client.R().Get("/api/recipes/download_shopping_cart")
	require.NoError(t, err)
	assert.Equal(t, "flour — 200 g\nmilk — 250 ml", resp.String())
}
