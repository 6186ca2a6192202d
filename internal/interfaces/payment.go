package interfaces

import "context"

// PaymentSession is the gateway's handle for one hosted checkout session.
type PaymentSession struct {
	ID          string
	RedirectURL string
}

// PaymentGateway creates hosted payment sessions for completed orders. The
// checkout workflow treats it as fire-and-forget: a gateway failure is
// surfaced as a warning, never as an order rollback.
type PaymentGateway interface {
	CreateSession(ctx context.Context, orderID string, amount float64) (*PaymentSession, error)
	RetrieveStatus(ctx context.Context, sessionID string) (string, error)
}
