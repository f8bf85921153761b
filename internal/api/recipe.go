package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	recipeService service.IRecipeService
	baseURL       string
	creationLimit *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, baseURL string, creationLimit *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		baseURL:       baseURL,
		creationLimit: creationLimit,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", requireAuth, h.creationLimit.RateLimitMiddleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)

		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)

		recipes.POST("/:id/favorite", requireAuth, h.addRelation(models.RelationFavorite))
		recipes.DELETE("/:id/favorite", requireAuth, h.removeRelation(models.RelationFavorite))
		recipes.POST("/:id/shopping_cart", requireAuth, h.addRelation(models.RelationCart))
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.removeRelation(models.RelationCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), currentUser(c), store.RecipeFilter{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req integrity.RecipeWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err)
		return
	}
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe serves both PUT and PATCH. The body always replaces the
// ingredient lines and tags; an omitted image keeps the current one.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req integrity.RecipeWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err)
		return
	}
	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addRelation(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		short, err := h.recipeService.AddRelation(c.Request.Context(), currentUser(c), id, kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (h *RecipeHandler) removeRelation(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := h.recipeService.RemoveRelation(c.Request.Context(), currentUser(c), id, kind); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	doc, err := h.recipeService.ShoppingList(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	link, err := h.recipeService.ShortLink(c.Request.Context(), id, h.baseURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ShortLinkResponse{ShortLink: link})
}
