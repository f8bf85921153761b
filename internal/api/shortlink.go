package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/service"
)

// ShortLinkHandler redirects short codes to the frontend recipe page.
type ShortLinkHandler struct {
	recipeService service.IRecipeService
	baseURL       string
	log           *zap.SugaredLogger
}

func NewShortLinkHandler(recipeService service.IRecipeService, baseURL string, log *zap.SugaredLogger) *ShortLinkHandler {
	return &ShortLinkHandler{
		recipeService: recipeService,
		baseURL:       strings.TrimRight(baseURL, "/"),
		log:           log,
	}
}

func (h *ShortLinkHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/s/:code/", h.Redirect)
}

// Redirect sends unknown codes to the frontend's 404 page rather than
// answering with an error body.
func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	path, err := h.recipeService.ResolveShortLink(c.Request.Context(), c.Param("code"))
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindNotFound {
			h.log.Errorw("failed to resolve short link", "code", c.Param("code"), "error", err)
		}
		c.Redirect(http.StatusFound, h.baseURL+"/404")
		return
	}
	c.Redirect(http.StatusFound, h.baseURL+path)
}
