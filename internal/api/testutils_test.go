package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testBaseURL = "http://foodgram.test"

func init() {
	gin.SetMode(gin.TestMode)
}

// TestAPI is a router wired to a fresh in-memory database.
type TestAPI struct {
	Router *gin.Engine
	Store  *store.Store
	Auth   *service.AuthService

	Flour, Salt *models.Ingredient
	Tag         *models.Tag
}

func SetupTestAPI(t *testing.T) *TestAPI {
	t.Helper()
	db := testhelpers.NewSQLite(t)
	log := zap.NewNop().Sugar()

	gen, err := shortlink.NewGenerator()
	require.NoError(t, err)
	s := store.New(db, integrity.New(), gen, storage.Nop{}, log)
	resolver := shortlink.NewResolver(s, shortlink.NewCache(nil, 0, log), gen)
	auth := service.NewAuthService(s, "test-secret", time.Hour)

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	RegisterRoutes(router, Deps{
		DB:            db,
		Auth:          auth,
		Users:         service.NewUserService(s, resolver),
		Recipes:       service.NewRecipeService(s, shoppinglist.NewAggregator(db), resolver, log),
		Catalog:       s,
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(nil, 0),
		BaseURL:       testBaseURL,
		Log:           log,
	})

	return &TestAPI{
		Router: router,
		Store:  s,
		Auth:   auth,
		Flour:  testhelpers.CreateIngredient(t, db, "flour", "g"),
		Salt:   testhelpers.CreateIngredient(t, db, "salt", "g"),
		Tag:    testhelpers.CreateTag(t, db, "breakfast"),
	}
}

// CreateTestUserAndToken registers name through the API and logs in.
func (a *TestAPI) CreateTestUserAndToken(t *testing.T, name string) (uint64, string) {
	t.Helper()
	w := PerformRequest(a.Router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":    name + "@example.com",
		"username": name,
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user struct {
		ID uint64 `json:"id"`
	}
	decode(t, w, &user)

	w = PerformRequest(a.Router, http.MethodPost, "/api/auth/token/login", map[string]interface{}{
		"email":    name + "@example.com",
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token TokenResponse
	decode(t, w, &token)
	return user.ID, token.AuthToken
}

// RecipeBody is a valid create payload using the seeded ingredients and tag.
func (a *TestAPI) RecipeBody(name string, flour int) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix and fry.",
		"image":        "recipes/" + name + ".png",
		"cooking_time": 15,
		"tags":         []uint64{a.Tag.ID},
		"ingredients": []map[string]interface{}{
			{"id": a.Flour.ID, "amount": flour},
			{"id": a.Salt.ID, "amount": 5},
		},
	}
}

// PerformRequest sends body as JSON, with a bearer token when one is given.
func PerformRequest(router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
