package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

const (
	statusPreparing = "preparing"
	statusReady     = "ready"

	// Offline after two missed 30s heartbeats.
	heartbeatTimeout = 60 * time.Second
)

// Service is the customer-facing order surface: pickup status, order
// history, barista presence and feedback.
type Service struct {
	orderRepo    interfaces.OrderRepository
	baristaRepo  interfaces.BaristaRepository
	feedbackRepo interfaces.FeedbackRepository
	logger       logger.Logger
}

func NewService(
	orderRepo interfaces.OrderRepository,
	baristaRepo interfaces.BaristaRepository,
	feedbackRepo interfaces.FeedbackRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		orderRepo:    orderRepo,
		baristaRepo:  baristaRepo,
		feedbackRepo: feedbackRepo,
		logger:       logger,
	}
}

func (s *Service) GetOrderStatus(ctx context.Context, orderID string) (*interfaces.OrderStatusResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.toStatus(order), nil
}

// GetOrderHistory returns the customer's orders, newest first.
func (s *Service) GetOrderHistory(ctx context.Context, customer string) ([]*domain.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customer)
}

// GetPickupBoard lists the customer's orders placed on the given day with
// their preparation status.
func (s *Service) GetPickupBoard(ctx context.Context, customer string, day time.Time) ([]*interfaces.OrderStatusResponse, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}

	var board []*interfaces.OrderStatusResponse
	for _, order := range orders {
		if !order.PlacedOn(day) {
			continue
		}
		board = append(board, s.toStatus(order))
	}
	return board, nil
}

// GetPendingOrders lists a branch's orders still waiting for a barista,
// oldest first.
func (s *Service) GetPendingOrders(ctx context.Context, branchID string) ([]*interfaces.OrderStatusResponse, error) {
	orders, err := s.orderRepo.ListUnprepared(ctx, branchID)
	if err != nil {
		return nil, err
	}

	var pending []*interfaces.OrderStatusResponse
	for _, order := range orders {
		pending = append(pending, s.toStatus(order))
	}
	return pending, nil
}

// GetOrderFeedback returns the ratings left against one order, oldest first.
func (s *Service) GetOrderFeedback(ctx context.Context, orderID string) ([]*domain.Feedback, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.feedbackRepo.ListByOrder(ctx, orderID)
}

func (s *Service) GetBaristasStatus(ctx context.Context) ([]*interfaces.BaristaStatusResponse, error) {
	baristas, err := s.baristaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var resp []*interfaces.BaristaStatusResponse
	for _, b := range baristas {
		status := domain.BaristaStatusOffline
		if b.IsOnline(heartbeatTimeout) {
			status = domain.BaristaStatusOnline
		}
		resp = append(resp, &interfaces.BaristaStatusResponse{
			Name:           b.Name,
			BranchID:       b.BranchID,
			Status:         status,
			OrdersPrepared: b.OrdersPrepared,
			LastSeen:       b.LastSeen,
		})
	}
	return resp, nil
}

// SubmitFeedback attaches a rating to one item of the customer's own order.
func (s *Service) SubmitFeedback(ctx context.Context, cmd interfaces.FeedbackCommand) (*domain.Feedback, error) {
	order, err := s.orderRepo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Customer != cmd.Customer {
		return nil, fmt.Errorf("order %s does not belong to %s", cmd.OrderID, cmd.Customer)
	}

	itemOrdered := false
	for _, line := range order.Lines {
		if line.Item == cmd.Item {
			itemOrdered = true
			break
		}
	}
	if !itemOrdered {
		return nil, fmt.Errorf("item %s is not part of order %s", cmd.Item, cmd.OrderID)
	}

	feedback := &domain.Feedback{
		ID:            uuid.New().String(),
		OrderID:       cmd.OrderID,
		Customer:      cmd.Customer,
		Item:          cmd.Item,
		CoffeeRating:  cmd.CoffeeRating,
		ServiceRating: cmd.ServiceRating,
		Review:        cmd.Review,
		SubmittedAt:   time.Now(),
	}
	if err := feedback.Validate(); err != nil {
		return nil, err
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Debug("feedback_submitted", "Feedback stored", cmd.Customer, map[string]interface{}{
		"order_id": cmd.OrderID,
		"item":     cmd.Item,
	})
	return feedback, nil
}

func (s *Service) toStatus(order *domain.Order) *interfaces.OrderStatusResponse {
	resp := &interfaces.OrderStatusResponse{
		OrderID:    order.ID,
		BranchID:   order.BranchID,
		Customer:   order.Customer,
		Lines:      order.Lines,
		TotalPrice: order.TotalPrice,
		OrderedAt:  order.OrderedAt,
		PreparedAt: order.PreparedAt,
		PreparedBy: order.PreparedBy,
		Status:     statusPreparing,
	}
	if order.Prepared() {
		resp.Status = statusReady
	} else {
		est := order.OrderedAt.Add(order.PrepTime())
		resp.EstimatedReady = &est
	}
	return resp
}
