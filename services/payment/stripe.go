package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway against the Stripe API. The package-level
// stripe.Key must be set before use (done at startup from config).
type StripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway constructs the production payment gateway.
func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{logger: logger}
}

// CreateIntent opens a Stripe payment intent. Amounts are converted to the
// smallest currency unit as Stripe requires.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, errors.New("invalid amount")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("failed to create payment intent", zap.Error(err))
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	g.logger.Info("payment intent created",
		zap.String("paymentIntentId", pi.ID),
		zap.String("status", string(pi.Status)),
	)

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

// RetrieveIntent fetches the current state of a payment intent.
func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	if intentID == "" {
		return nil, errors.New("payment intent ID is required")
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		g.logger.Error("failed to retrieve payment intent",
			zap.String("paymentIntentId", intentID), zap.Error(err))
		return nil, fmt.Errorf("stripe: retrieve payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

// Refund returns the given amount of a captured intent to the payer.
func (g *StripeGateway) Refund(ctx context.Context, intentID string, amount float64) (*RefundResult, error) {
	if intentID == "" {
		return nil, errors.New("payment intent ID is required")
	}
	if amount <= 0 {
		return nil, errors.New("invalid refund amount")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(int64(math.Round(amount * 100))),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		g.logger.Error("failed to refund payment",
			zap.String("paymentIntentId", intentID), zap.Error(err))
		return nil, fmt.Errorf("stripe: refund payment: %w", err)
	}

	g.logger.Info("payment refunded",
		zap.String("refundId", r.ID),
		zap.String("status", string(r.Status)),
	)

	return &RefundResult{ID: r.ID, Status: string(r.Status)}, nil
}
