package handlers

import (
	"net/http"
	"strconv"

	"evcharge/models"
	"evcharge/utils"

	"github.com/gin-gonic/gin"
)

// CreateStationHandler registers a new station.
func (hb *HandlerBundle) CreateStationHandler(c *gin.Context) {
	var st models.Station
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := hb.StationSvc.CreateStation(&st)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to create station", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetStationHandler returns one station with its charging points.
func (hb *HandlerBundle) GetStationHandler(c *gin.Context) {
	st, err := hb.StationSvc.GetStation(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Station not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

// ListStationsHandler returns the full directory.
func (hb *HandlerBundle) ListStationsHandler(c *gin.Context) {
	stations, err := hb.StationSvc.ListStations()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list stations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

// UpdateStationHandler replaces a station's details.
func (hb *HandlerBundle) UpdateStationHandler(c *gin.Context) {
	var st models.Station
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	st.ID = c.Param("id")

	updated, err := hb.StationSvc.UpdateStation(&st)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to update station", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteStationHandler removes a station.
func (hb *HandlerBundle) DeleteStationHandler(c *gin.Context) {
	if err := hb.StationSvc.DeleteStation(c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete station", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AddChargingPointHandler appends a charger to a station.
func (hb *HandlerBundle) AddChargingPointHandler(c *gin.Context) {
	var point models.ChargingPoint
	if err := c.ShouldBindJSON(&point); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.StationSvc.AddChargingPoint(c.Param("id"), point); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to add charging point", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

// RemoveChargingPointHandler pulls a charger off a station.
func (hb *HandlerBundle) RemoveChargingPointHandler(c *gin.Context) {
	if err := hb.StationSvc.RemoveChargingPoint(c.Param("id"), c.Param("pointId")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to remove charging point", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// NearbyStationsHandler returns stations around a coordinate, closest first.
func (hb *HandlerBundle) NearbyStationsHandler(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat is required and must be a number"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng is required and must be a number"})
		return
	}
	radiusKm, _ := strconv.ParseFloat(c.DefaultQuery("radiusKm", "0"), 64)

	stations, err := hb.StationSvc.NearbyStations(lat, lng, radiusKm)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to search stations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}
