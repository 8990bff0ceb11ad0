package models

// PaymentIntentRequest starts a reservation: it opens a payment intent and
// writes the pending ledger record for the requested slot.
type PaymentIntentRequest struct {
	Amount          float64 `json:"amount" binding:"required"`
	StationID       string  `json:"stationId" binding:"required"`
	ChargingPointID string  `json:"chargingPointId" binding:"required"`
	Date            string  `json:"date" binding:"required"`      // "2006-01-02"
	StartTime       string  `json:"startTime" binding:"required"` // "15:04"
	Duration        int     `json:"duration" binding:"required"`  // minutes
	VehiclePlateNo  string  `json:"vehiclePlateNo" binding:"required"`
}

// PaymentIntentResponse carries the client secret back to the app.
type PaymentIntentResponse struct {
	ClientSecret    string        `json:"clientSecret"`
	PaymentIntentID string        `json:"paymentIntentId"`
	MerchantName    string        `json:"merchantName"`
	ChargingPoint   PointSnapshot `json:"chargingPoint"`
}

// ConfirmBookingRequest finalizes a reservation once the payment intent
// has succeeded on the gateway side.
type ConfirmBookingRequest struct {
	PaymentIntentID string  `json:"paymentIntentId" binding:"required"`
	StationID       string  `json:"stationId" binding:"required"`
	ChargingPointID string  `json:"chargingPointId" binding:"required"`
	Date            string  `json:"date" binding:"required"`      // "2006-01-02"
	StartTime       string  `json:"startTime" binding:"required"` // "15:04"
	Duration        int     `json:"duration" binding:"required"`  // minutes
	Amount          float64 `json:"amount" binding:"required"`
	VehiclePlateNo  string  `json:"vehiclePlateNo"`
	UserEmail       string  `json:"userEmail"`
}

// VerifySlotRequest asks whether a candidate interval is free.
type VerifySlotRequest struct {
	StationID       string `json:"stationId" binding:"required"`
	ChargingPointID string `json:"chargingPointId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	Duration        int    `json:"duration" binding:"required"`
}

// CancelBookingResponse reports the refund outcome of a cancellation.
type CancelBookingResponse struct {
	BookingRef   string  `json:"bookingRef"`
	RefundAmount float64 `json:"refundAmount"`
	RefundStatus string  `json:"refundStatus"`
}
