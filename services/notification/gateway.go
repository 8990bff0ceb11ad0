package notification

import "context"

// DeliveryGateway abstracts the push transport so the sweep logic can be
// exercised without a live messaging backend.
type DeliveryGateway interface {
	// Send pushes one notification to a device token.
	Send(ctx context.Context, token, title, body string, data map[string]string) error
	// SendMulticast pushes the same notification to many tokens and returns
	// the number of successful deliveries. Used by station-wide broadcasts.
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error)
}
