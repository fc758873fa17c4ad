package handlers

import (
	"net/http"

	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last database and cache probe. It answers 503 when the database is down.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Database {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "checks": status})
}
