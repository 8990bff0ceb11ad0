package handlers

import (
	"net/http"

	"evcharge/models"
	"evcharge/utils"

	"github.com/gin-gonic/gin"
)

// RebuildStationIndexHandler recomputes a station's derived booking index
// from the bookings collection.
func (hb *HandlerBundle) RebuildStationIndexHandler(c *gin.Context) {
	stationID := c.Param("id")
	if err := hb.BookingSvc.RebuildStationIndex(stationID); err != nil {
		utils.JSONError(c, statusFor(err), "Failed to rebuild station index", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rebuilt": true, "stationId": stationID})
}

// BroadcastNotificationHandler pushes an operator announcement to every
// registered device.
func (hb *HandlerBundle) BroadcastNotificationHandler(c *gin.Context) {
	var req models.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sent, err := hb.Notifier.BroadcastToAll(c.Request.Context(), req.Title, req.Body, req.Data)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to broadcast notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// HealthHandler serves the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
}
