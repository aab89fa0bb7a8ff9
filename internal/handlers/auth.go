package handlers

import (
	"errors"
	"net/http"

	"Bookmarker/internal/auth"
	"Bookmarker/internal/dto"
	"Bookmarker/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup and signin.
type AuthHandler struct {
	tokens  *auth.TokenManager
	userSvc *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.TokenManager, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, userSvc: userSvc}
}

// Signup godoc
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "Credentials"
// @Success      201   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "credentials taken"})
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	// Login-on-signup: a fresh account gets a token exactly as signin does.
	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, dto.TokenResponse{AccessToken: token})
}

// Signin godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "credentials incorrect"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signin failed"})
		return
	}
	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token})
}
