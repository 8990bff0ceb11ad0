package handlers

import (
	"net/http"

	"evcharge/models"
	"evcharge/utils"

	"github.com/gin-gonic/gin"
)

// ForgotPasswordHandler starts the OTP reset flow. It always reports
// success so account existence cannot be probed.
func (hb *HandlerBundle) ForgotPasswordHandler(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.UserSvc.ForgotPassword(req.Email); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to send reset code", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If that email has an account, a reset code is on its way"})
}

// ResetPasswordHandler completes the OTP reset flow.
func (hb *HandlerBundle) ResetPasswordHandler(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.UserSvc.ResetPassword(req); err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Failed to reset password", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
