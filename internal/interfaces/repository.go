package interfaces

import (
	"context"
	"time"

	"coffeehouse/internal/domain"
)

type InventoryRepository interface {
	GetBranch(ctx context.Context, branchID string) (*domain.Branch, error)
	ListBranches(ctx context.Context) ([]*domain.Branch, error)
	// UpdateStock writes the whole inventory document back, conditionally on
	// the version read with it. Returns domain.ErrStockConflict when another
	// writer got there first.
	UpdateStock(ctx context.Context, branchID string, stock domain.Stock, expectedVersion int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customer string) ([]*domain.Order, error)
	ListByBranch(ctx context.Context, branchID string) ([]*domain.Order, error)
	ListUnprepared(ctx context.Context, branchID string) ([]*domain.Order, error)
	MarkPrepared(ctx context.Context, orderID string, at time.Time, by string) error
}

type PromotionRepository interface {
	// ListActive returns unexpired instruments and purges expired ones.
	ListActive(ctx context.Context, now time.Time) ([]*domain.Instrument, error)
	FindCoupon(ctx context.Context, code string) (*domain.Instrument, error)
	Create(ctx context.Context, instrument *domain.Instrument) error
	Delete(ctx context.Context, instrumentID string) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	ListByOrder(ctx context.Context, orderID string) ([]*domain.Feedback, error)
}

type BaristaRepository interface {
	Create(ctx context.Context, barista *domain.Barista) error
	FindByName(ctx context.Context, name string) (*domain.Barista, error)
	Update(ctx context.Context, barista *domain.Barista) error
	UpdateHeartbeat(ctx context.Context, name string) error
	ListAll(ctx context.Context) ([]*domain.Barista, error)
	IncrementOrdersPrepared(ctx context.Context, name string) error
}
