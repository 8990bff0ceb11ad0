package handlers

import (
	"net/http"

	"evcharge/models"
	"evcharge/services/booking"
	"evcharge/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps booking service error codes onto HTTP statuses.
func statusFor(err error) int {
	switch booking.CodeOf(err) {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeConflict, booking.CodeInvalidState:
		return http.StatusConflict
	case booking.CodePayment:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func authedUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return "", false
	}
	return userID, true
}

// CreatePaymentIntentHandler opens a payment intent for a prospective
// booking.
func (hb *HandlerBundle) CreatePaymentIntentHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := hb.BookingSvc.CreatePaymentIntent(c.Request.Context(), userID, req)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to create payment intent", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmBookingHandler admits a reservation once its payment succeeded.
func (hb *HandlerBundle) ConfirmBookingHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req models.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := hb.BookingSvc.ConfirmBooking(c.Request.Context(), userID, req)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to confirm booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler cancels a booking and reports the refund outcome.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	resp, err := hb.BookingSvc.CancelBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to cancel booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListBookingsHandler returns the authenticated user's bookings.
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	summaries, err := hb.BookingSvc.ListBookings(userID)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": summaries})
}

// ListBookedSlotsHandler returns the reserved intervals of a charging point
// on a date.
func (hb *HandlerBundle) ListBookedSlotsHandler(c *gin.Context) {
	stationID := c.Param("id")
	pointID := c.Query("chargingPointId")
	date := c.Query("date")

	slots, err := hb.BookingSvc.ListBookedSlots(stationID, pointID, date)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to list booked slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// VerifySlotHandler reports whether a candidate interval is free.
func (hb *HandlerBundle) VerifySlotHandler(c *gin.Context) {
	var req models.VerifySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	available, err := hb.BookingSvc.VerifySlot(req)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to verify slot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
