package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wiremail/wiremail-backend/internal/common"
	"github.com/wiremail/wiremail-backend/internal/middleware"
	"github.com/wiremail/wiremail-backend/internal/service"
)

// DirectoryHandler handles recipient directory HTTP requests
type DirectoryHandler struct {
	service service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(service service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Reachable handles GET /directory/reachable
// @Summary List currently reachable recipient identities
// @Tags directory
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]string}
// @Router /directory/reachable [get]
func (h *DirectoryHandler) Reachable(c *gin.Context) {
	if middleware.GetUsername(c) == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	common.SuccessResponse(c, h.service.Reachable(), nil)
}

// Suggest handles GET /directory/suggest
// @Summary Autocomplete compose targets
// @Tags directory
// @Produce json
// @Param q query string false "partial target"
// @Param typed query string false "fully-typed target to exclude"
// @Success 200 {object} common.APIResponse{data=[]directory.Suggestion}
// @Router /directory/suggest [get]
func (h *DirectoryHandler) Suggest(c *gin.Context) {
	if middleware.GetUsername(c) == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	suggestions := h.service.Suggest(c.Query("q"), c.Query("typed"))
	common.SuccessResponse(c, suggestions, nil)
}
