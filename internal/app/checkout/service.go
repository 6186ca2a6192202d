package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// Service runs the checkout workflow: validate the cart against branch
// inventory, reserve stock, persist the order, then hand the total to the
// payment gateway. Inventory writes are conditional on the branch version;
// a lost race re-reads and re-validates, so two concurrent checkouts cannot
// both spend the same stock.
type Service struct {
	menu          domain.Menu
	inventoryRepo interfaces.InventoryRepository
	orderRepo     interfaces.OrderRepository
	gateway       interfaces.PaymentGateway
	publisher     interfaces.MessagePublisher
	logger        logger.Logger
	maxRetries    int

	now   func() time.Time
	newID func() string
}

func NewService(
	menu domain.Menu,
	inventoryRepo interfaces.InventoryRepository,
	orderRepo interfaces.OrderRepository,
	gateway interfaces.PaymentGateway,
	publisher interfaces.MessagePublisher,
	logger logger.Logger,
	maxRetries int,
) *Service {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Service{
		menu:          menu,
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		gateway:       gateway,
		publisher:     publisher,
		logger:        logger,
		maxRetries:    maxRetries,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

func (s *Service) Checkout(ctx context.Context, req interfaces.CheckoutRequest) (*interfaces.CheckoutResult, error) {
	result := &interfaces.CheckoutResult{State: interfaces.StateIdle}

	// Idle -> Validating
	if len(req.Lines) == 0 {
		return s.fail(result, interfaces.StateValidating, domain.ErrEmptyCart)
	}
	s.advance(result, interfaces.StateValidating)

	lines := req.Lines
	promotion, coupon := s.liveInstruments(req)
	totals := domain.TotalDue(s.menu, lines, promotion, coupon)

	// Validating -> Reserving, under an optimistic concurrency loop: a
	// conflicting write means another checkout spent stock between our read
	// and our write, so the snapshot must be re-read and re-validated.
	reserved := false
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		branch, err := s.inventoryRepo.GetBranch(ctx, req.BranchID)
		if err != nil {
			return s.fail(result, interfaces.StateValidating, err)
		}

		if err := domain.ValidateStock(s.menu, lines, branch.Stock); err != nil {
			return s.fail(result, interfaces.StateValidating, err)
		}
		if result.State == interfaces.StateValidating {
			s.advance(result, interfaces.StateReserving)
		}

		stock := branch.Stock.Clone()
		for _, resource := range domain.DeductStock(s.menu, lines, stock) {
			s.logger.Warn("missing_resource", "Resource absent from branch inventory during deduction",
				req.Customer, map[string]interface{}{
					"branch_id": req.BranchID,
					"resource":  resource,
				})
		}

		err = s.inventoryRepo.UpdateStock(ctx, req.BranchID, stock, branch.Version)
		if errors.Is(err, domain.ErrStockConflict) {
			s.logger.Debug("stock_conflict", "Branch inventory changed underneath checkout, retrying",
				req.Customer, map[string]interface{}{
					"branch_id": req.BranchID,
					"attempt":   attempt,
				})
			continue
		}
		if err != nil {
			return s.fail(result, interfaces.StateReserving, err)
		}
		reserved = true
		break
	}
	if !reserved {
		return s.fail(result, interfaces.StateReserving, domain.ErrStockConflict)
	}

	// Reserving -> Persisting. A persistence failure after deduction runs
	// the compensating restore so reserve+persist stay one logical unit.
	s.advance(result, interfaces.StatePersisting)

	order := domain.NewOrder(s.newID(), s.menu, lines, req.Customer, req.BranchID, totals.Due, s.now())
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.compensateStock(ctx, req.BranchID, lines, req.Customer)
		return s.fail(result, interfaces.StatePersisting, err)
	}
	result.OrderID = order.ID
	result.TotalPrice = order.TotalPrice

	s.logger.Debug("order_persisted", "Order persisted", req.Customer, map[string]interface{}{
		"order_id":    order.ID,
		"branch_id":   order.BranchID,
		"total_price": order.TotalPrice,
	})

	// Persisting -> PaymentPending. The order and the deduction are durable
	// at this point: a gateway failure surfaces as a warning, never as a
	// rollback.
	s.advance(result, interfaces.StatePaymentPending)

	session, err := s.gateway.CreateSession(ctx, order.ID, order.TotalPrice)
	if err != nil {
		result.PaymentWarning = fmt.Sprintf("%s: %v", domain.ErrPaymentInitiation, err)
		s.logger.Warn("payment_init_failed", "Payment session could not be created", req.Customer,
			map[string]interface{}{"order_id": order.ID})
	} else {
		result.PaymentURL = session.RedirectURL
	}

	// PaymentPending -> Completed: clear the cart and announce the order.
	if req.ClearCart != nil {
		req.ClearCart()
	}
	s.advance(result, interfaces.StateCompleted)

	msg := interfaces.OrderPlacedMessage{
		OrderID:       order.ID,
		BranchID:      order.BranchID,
		Customer:      order.Customer,
		Lines:         order.Lines,
		TotalQuantity: order.TotalQuantity,
		TotalPrice:    order.TotalPrice,
		OrderedAt:     order.OrderedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
		s.logger.Error("publish_failed", "Failed to publish order placed event", req.Customer, nil, err)
	}

	return result, nil
}

// liveInstruments drops instruments that expired between apply time and
// checkout time rather than honoring a stale discount.
func (s *Service) liveInstruments(req interfaces.CheckoutRequest) (promotion, coupon *domain.Instrument) {
	now := s.now()
	promotion, coupon = req.Promotion, req.Coupon
	if promotion != nil && promotion.Expired(now) {
		s.logger.Warn("promotion_expired", "Applied promotion expired before checkout", req.Customer,
			map[string]interface{}{"promotion": promotion.Name})
		promotion = nil
	}
	if coupon != nil && coupon.Expired(now) {
		s.logger.Warn("coupon_expired", "Applied coupon expired before checkout", req.Customer,
			map[string]interface{}{"coupon": coupon.CouponCode})
		coupon = nil
	}
	return promotion, coupon
}

// compensateStock re-adds what the reservation deducted, through the same
// conditional write loop.
func (s *Service) compensateStock(ctx context.Context, branchID string, lines []domain.CartLine, requestID string) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		branch, err := s.inventoryRepo.GetBranch(ctx, branchID)
		if err != nil {
			break
		}

		stock := branch.Stock.Clone()
		domain.RestoreStock(s.menu, lines, stock)

		err = s.inventoryRepo.UpdateStock(ctx, branchID, stock, branch.Version)
		if errors.Is(err, domain.ErrStockConflict) {
			continue
		}
		if err == nil {
			s.logger.Info("stock_compensated", "Inventory deduction rolled back after persistence failure",
				requestID, map[string]interface{}{"branch_id": branchID})
		}
		return
	}

	s.logger.Error("compensation_failed", "Could not roll back inventory deduction", requestID,
		map[string]interface{}{"branch_id": branchID}, domain.ErrStockConflict)
}

func (s *Service) advance(result *interfaces.CheckoutResult, state interfaces.CheckoutState) {
	result.State = state
	result.Steps = append(result.Steps, interfaces.CheckoutStep{State: state})
}

func (s *Service) fail(result *interfaces.CheckoutResult, at interfaces.CheckoutState, err error) (*interfaces.CheckoutResult, error) {
	result.State = interfaces.StateFailed
	result.Steps = append(result.Steps, interfaces.CheckoutStep{State: at, Error: err.Error()})
	return result, err
}
