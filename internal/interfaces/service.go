package interfaces

import (
	"context"
	"time"

	"coffeehouse/internal/domain"
)

// Checkout workflow states, in order of progress. Every non-terminal state
// has a failure edge to StateFailed.
type CheckoutState string

const (
	StateIdle           CheckoutState = "idle"
	StateValidating     CheckoutState = "validating"
	StateReserving      CheckoutState = "reserving"
	StatePersisting     CheckoutState = "persisting"
	StatePaymentPending CheckoutState = "payment_pending"
	StateCompleted      CheckoutState = "completed"
	StateFailed         CheckoutState = "failed"
)

// CheckoutStep records one step of a checkout run for the result trail.
type CheckoutStep struct {
	State CheckoutState `json:"state"`
	Error string        `json:"error,omitempty"`
}

// CheckoutRequest carries a snapshot of the session's cart and applied
// instruments into the workflow. Lines is a copy taken under the session
// manager's lock; ClearCart hands cart clearing back to the manager so the
// workflow never touches the live cart directly.
type CheckoutRequest struct {
	Customer  string
	BranchID  string
	Lines     []domain.CartLine
	Promotion *domain.Instrument
	Coupon    *domain.Instrument
	ClearCart func()
}

type CheckoutResult struct {
	State          CheckoutState
	Steps          []CheckoutStep
	OrderID        string
	TotalPrice     float64
	PaymentURL     string
	PaymentWarning string
}

type CheckoutService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

// CartService is the per-customer session surface: cart mutation and
// discount instrument application.
type CartService interface {
	AddItem(ctx context.Context, customer, item string, quantity int, branchID string) error
	RemoveItem(ctx context.Context, customer string, index int) error
	ClearCart(customer string)
	ViewCart(ctx context.Context, customer string) (*CartView, error)
	ApplyCoupon(ctx context.Context, customer, code string) (*domain.Instrument, error)
	ApplyPromotion(ctx context.Context, customer, name string) (*domain.Instrument, error)
}

type CartView struct {
	Lines     []domain.CartLine
	Totals    domain.CartTotals
	Promotion string
	Coupon    string
}

type TrackingService interface {
	GetOrderStatus(ctx context.Context, orderID string) (*OrderStatusResponse, error)
	GetOrderHistory(ctx context.Context, customer string) ([]*domain.Order, error)
	GetPickupBoard(ctx context.Context, customer string, day time.Time) ([]*OrderStatusResponse, error)
	GetPendingOrders(ctx context.Context, branchID string) ([]*OrderStatusResponse, error)
	GetBaristasStatus(ctx context.Context) ([]*BaristaStatusResponse, error)
	SubmitFeedback(ctx context.Context, cmd FeedbackCommand) (*domain.Feedback, error)
	GetOrderFeedback(ctx context.Context, orderID string) ([]*domain.Feedback, error)
}

type OrderStatusResponse struct {
	OrderID        string
	BranchID       string
	Customer       string
	Lines          []domain.OrderLine
	TotalPrice     float64
	Status         string
	OrderedAt      time.Time
	PreparedAt     *time.Time
	PreparedBy     *string
	EstimatedReady *time.Time
}

type BaristaStatusResponse struct {
	Name           string
	BranchID       string
	Status         domain.BaristaStatus
	OrdersPrepared int
	LastSeen       time.Time
}

type FeedbackCommand struct {
	OrderID       string
	Customer      string
	Item          string
	CoffeeRating  int
	ServiceRating int
	Review        string
}

type BaristaService interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	PrepareOrder(ctx context.Context, msg OrderPlacedMessage) error
}

type InventoryService interface {
	Overview(ctx context.Context, branchID string) (*InventoryOverview, error)
	Restock(ctx context.Context, branchID, resource string, quantity int) (*InventoryOverview, error)
}

type InventoryOverview struct {
	BranchID   string
	BranchName string
	Stock      domain.Stock
	LowStock   []LowStockAlert
}

type LowStockAlert struct {
	Resource  string
	Quantity  int
	Threshold int
}

type PromotionService interface {
	ListActive(ctx context.Context) ([]*domain.Instrument, error)
	Create(ctx context.Context, cmd CreatePromotionCommand) (*domain.Instrument, error)
	Terminate(ctx context.Context, instrumentID string) error
}

type CreatePromotionCommand struct {
	Type            string
	Name            string
	CouponCode      string
	Items           []string
	DiscountPercent int
	ExpiresAt       time.Time
}

type ReportingService interface {
	SalesSummary(ctx context.Context, branchID string) (*SalesSummary, error)
}

type SalesSummary struct {
	BranchID  string
	Orders    int
	UnitsSold int
	Revenue   float64
	Cost      float64
	Profit    float64
	ByItem    []ItemSales
	ByDay     []DailySales
}

type ItemSales struct {
	Item    string
	Units   int
	Revenue float64
	Cost    float64
}

type DailySales struct {
	Day     string
	Orders  int
	Revenue float64
}
