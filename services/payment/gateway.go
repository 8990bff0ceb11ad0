package payment

import "context"

// Intent is the gateway-side payment intent state the booking engine
// consumes.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// IntentSucceeded is the gateway status required to confirm a booking.
const IntentSucceeded = "succeeded"

// RefundResult reports the outcome of a refund request.
type RefundResult struct {
	ID     string
	Status string
}

// Gateway abstracts the third-party payment processor.
type Gateway interface {
	// CreateIntent opens a payment intent for the given amount (major
	// currency units) and returns its ID and client secret.
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error)
	// RetrieveIntent fetches the current state of a payment intent.
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	// Refund returns part or all of a captured intent to the payer.
	Refund(ctx context.Context, intentID string, amount float64) (*RefundResult, error)
}
