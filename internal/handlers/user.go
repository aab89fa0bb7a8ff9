package handlers

import (
	"errors"
	"net/http"

	"Bookmarker/internal/auth"
	dom "Bookmarker/internal/domain"
	"Bookmarker/internal/dto"
	"Bookmarker/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles the caller's own profile.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetSelf godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/get-self [get]
func (h *UserHandler) GetSelf(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	u, err := h.svc.GetSelf(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// Edit godoc
// @Summary      Edit own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.EditUserRequest  true  "Partial update"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/edit [patch]
func (h *UserHandler) Edit(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.EditSelf(c.Request.Context(), userID, req.Email, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "credentials taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit profile"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
