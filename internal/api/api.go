package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Deps carries everything the HTTP handlers need.
type Deps struct {
	DB            *gorm.DB
	Auth          service.IAuthService
	Users         service.IUserService
	Recipes       service.IRecipeService
	Catalog       service.ICatalogService
	RecipeLimiter *middleware.RateLimiter
	// BaseURL is the public origin used for short links and redirects.
	BaseURL string
	Log     *zap.SugaredLogger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, d Deps) {
	health := NewHealthHandler(d.DB)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)

	requireAuth := middleware.AuthMiddleware(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)

	authHandler := NewAuthHandler(d.Auth, d.Log)
	userHandler := NewUserHandler(d.Users, d.Auth)
	catalogHandler := NewCatalogHandler(d.Catalog)
	recipeHandler := NewRecipeHandler(d.Recipes, d.BaseURL, d.RecipeLimiter)
	shortLinkHandler := NewShortLinkHandler(d.Recipes, d.BaseURL, d.Log)

	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, requireAuth, optionalAuth)
	catalogHandler.RegisterRoutes(api)
	recipeHandler.RegisterRoutes(api, requireAuth, optionalAuth)

	shortLinkHandler.RegisterRoutes(router.Group(""))
	shortLinkHandler.RegisterRoutes(api)
}

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		if err := database.HealthCheck(c.Request.Context(), h.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "detail": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
