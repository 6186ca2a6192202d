package stripe

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"coffeehouse/internal/config"
	"coffeehouse/internal/interfaces"
)

type gateway struct {
	currency   string
	successURL string
	cancelURL  string
}

// NewGateway configures the Stripe client. The secret key is process wide,
// matching how the stripe-go bindings expect to be initialized.
func NewGateway(cfg config.PaymentConfig) interfaces.PaymentGateway {
	stripeapi.Key = cfg.SecretKey

	return &gateway{
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (g *gateway) CreateSession(ctx context.Context, orderID string, amount float64) (*interfaces.PaymentSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(g.successURL),
		CancelURL:  stripeapi.String(g.cancelURL),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(g.currency),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(fmt.Sprintf("Coffee order %s", orderID)),
					},
					UnitAmount: stripeapi.Int64(int64(amount * 100)),
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		ClientReferenceID: stripeapi.String(orderID),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &interfaces.PaymentSession{
		ID:          s.ID,
		RedirectURL: s.URL,
	}, nil
}

func (g *gateway) RetrieveStatus(ctx context.Context, sessionID string) (string, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	return string(s.PaymentStatus), nil
}
