package handlers

import (
	"net/http"
	"strings"

	"evcharge/models"
	"evcharge/utils"

	"github.com/gin-gonic/gin"
)

// RegisterUserHandler creates a new account and opens a session.
func (hb *HandlerBundle) RegisterUserHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := hb.UserSvc.Register(req)
	if err != nil {
		utils.JSONError(c, http.StatusConflict, "Failed to register", err.Error())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler verifies credentials and opens a session.
func (hb *HandlerBundle) AuthenticateUserHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := hb.UserSvc.Authenticate(req)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfileHandler returns the authenticated user's account.
func (hb *HandlerBundle) GetProfileHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	u, err := hb.UserSvc.GetUser(userID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "User not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfileHandler applies account edits for the authenticated user.
func (hb *HandlerBundle) UpdateProfileHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	u, err := hb.UserSvc.UpdateProfile(userID, req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteAccountHandler removes the authenticated user's account.
func (hb *HandlerBundle) DeleteAccountHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	if err := hb.UserSvc.DeleteAccount(userID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete account", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// RenewTokenHandler exchanges an expired token for a fresh one. The expired
// token is presented as a bearer credential; only its signature is checked.
func (hb *HandlerBundle) RenewTokenHandler(c *gin.Context) {
	const prefix = "Bearer "
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, prefix) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	token, err := hb.UserSvc.RenewToken(strings.TrimPrefix(authHeader, prefix))
	if err != nil {
		utils.JSONError(c, http.StatusForbidden, "Token renewal failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ValidateTokenHandler reports whether a session token is currently valid.
func (hb *HandlerBundle) ValidateTokenHandler(c *gin.Context) {
	var req models.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"isValid": false, "error": "Token is required"})
		return
	}

	if _, err := utils.ValidateToken(req.Token); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"isValid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isValid": true})
}

// UpdatePushTokenHandler stores the device push token for booking
// notifications.
func (hb *HandlerBundle) UpdatePushTokenHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req models.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.UserSvc.UpdatePushToken(userID, req); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update push token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
