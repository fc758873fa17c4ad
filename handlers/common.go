package handlers

import (
	"net/http"

	"innkeep/middleware"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.GetLogger().Debug("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", utils.BindingDetails(err))
		return false
	}
	return true
}

// callerID returns the authenticated owner or answers 401.
func callerID(c *gin.Context) (string, bool) {
	id := middleware.CallerID(c)
	if id == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return "", false
	}
	return id, true
}
