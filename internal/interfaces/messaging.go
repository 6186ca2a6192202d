package interfaces

import (
	"context"
	"time"

	"coffeehouse/internal/domain"
)

// OrderPlacedMessage is published by the checkout workflow once an order is
// durable, and consumed by barista workers.
type OrderPlacedMessage struct {
	OrderID       string             `json:"order_id"`
	BranchID      string             `json:"branch_id"`
	Customer      string             `json:"customer"`
	Lines         []domain.OrderLine `json:"lines"`
	TotalQuantity int                `json:"total_quantity"`
	TotalPrice    float64            `json:"total_price"`
	OrderedAt     time.Time          `json:"ordered_at"`
}

// OrderReadyMessage fans out when a barista marks an order prepared.
type OrderReadyMessage struct {
	OrderID    string    `json:"order_id"`
	BranchID   string    `json:"branch_id"`
	Customer   string    `json:"customer"`
	PreparedBy string    `json:"prepared_by"`
	PreparedAt time.Time `json:"prepared_at"`
}

type MessagePublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) error
	PublishOrderReady(ctx context.Context, msg OrderReadyMessage) error
}

type MessageConsumer interface {
	ConsumeOrders(ctx context.Context, handler OrderMessageHandler) error
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type (
	OrderMessageHandler func(ctx context.Context, body []byte) error
	NotificationHandler func(ctx context.Context, body []byte) error
)
