package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/integrity"
	"github.com/pageza/foodgram/backend/internal/service"
)

type UserHandler struct {
	userService service.IUserService
	authService service.IAuthService
}

func NewUserHandler(userService service.IUserService, authService service.IAuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("", optionalAuth, h.ListUsers)
		users.GET("/:id", optionalAuth, h.GetUser)

		users.GET("/me", requireAuth, h.Me)
		users.PATCH("/me", requireAuth, h.UpdateMe)
		users.DELETE("/me", requireAuth, h.DeleteMe)
		users.PUT("/me/avatar", requireAuth, h.SetAvatar)
		users.DELETE("/me/avatar", requireAuth, h.ClearAvatar)
		users.POST("/set_password", requireAuth, h.SetPassword)

		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := currentUser(c)
	user, err := h.userService.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req integrity.UserWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err)
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "avatar", err)
		return
	}
	user, err := h.userService.SetAvatar(c.Request.Context(), currentUser(c), &req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AvatarResponse{Avatar: user.Avatar})
}

func (h *UserHandler) ClearAvatar(c *gin.Context) {
	if _, err := h.userService.SetAvatar(c.Request.Context(), currentUser(c), nil); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err)
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	subs, err := h.userService.Subscriptions(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	sub, err := h.userService.Subscribe(c.Request.Context(), currentUser(c), authorID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Unsubscribe(c.Request.Context(), currentUser(c), authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
