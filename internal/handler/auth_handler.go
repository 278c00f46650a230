package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wiremail/wiremail-backend/internal/common"
	"github.com/wiremail/wiremail-backend/pkg/jwt"
)

// AuthHandler issues access tokens.
// Identity here is ambient: a participant claims a username and gets
// a token for it, mirroring the platform this mailbox fronts. The
// token exists so every later request and WebSocket upgrade carries
// one verified identity, not as an account system.
type AuthHandler struct {
	jwtManager *jwt.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtManager *jwt.Manager) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager}
}

// LoginRequest claims a participant username
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

// Login handles POST /auth/login
// @Summary Issue an access token for a participant username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "username"
// @Success 200 {object} common.APIResponse{data=LoginResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Username is required", nil)
		return
	}

	token, err := h.jwtManager.GenerateToken(username)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	common.SuccessResponse(c, &LoginResponse{Username: username, AccessToken: token}, nil)
}
