package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvkv/pairline/internal/app/orch"
	"github.com/nvkv/pairline/internal/config"
)

// handleRoomList serves the group-room directory. Pair rooms are ephemeral
// matchmaker artifacts and never listed.
func handleRoomList(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.List()})
	}
}

func handleRTCConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": cfg.RTCConfiguration().ICEServers})
	}
}

func handleStats(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"connections": o.Registry.Count(),
			"waiting":     o.Matches.PoolSize(),
		})
	}
}
