package booking

// Refund brackets relative to the booking start. Both cutoffs are strict:
// exactly 24 hours out falls to the 50% bracket, exactly 12 to zero.
const (
	fullRefundHours = 24
	halfRefundHours = 12
)

// RefundAmount maps the time remaining until the booking starts into the
// refundable fraction of the paid amount.
func RefundAmount(amount, hoursUntilStart float64) float64 {
	switch {
	case hoursUntilStart > fullRefundHours:
		return amount
	case hoursUntilStart > halfRefundHours:
		return amount * 0.5
	default:
		return 0
	}
}
