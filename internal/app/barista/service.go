package barista

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// Service is the barista worker: it registers itself, heartbeats, consumes
// order-placed events for its branch and marks orders prepared.
type Service struct {
	orderRepo         interfaces.OrderRepository
	baristaRepo       interfaces.BaristaRepository
	publisher         interfaces.MessagePublisher
	logger            logger.Logger
	baristaName       string
	branchID          string
	heartbeatInterval time.Duration

	prepTime func(*domain.Order) time.Duration
}

func NewService(
	orderRepo interfaces.OrderRepository,
	baristaRepo interfaces.BaristaRepository,
	publisher interfaces.MessagePublisher,
	logger logger.Logger,
	baristaName, branchID string,
	heartbeatInterval int,
) *Service {
	return &Service{
		orderRepo:         orderRepo,
		baristaRepo:       baristaRepo,
		publisher:         publisher,
		logger:            logger,
		baristaName:       baristaName,
		branchID:          branchID,
		heartbeatInterval: time.Duration(heartbeatInterval) * time.Second,
		prepTime:          (*domain.Order).PrepTime,
	}
}

func (s *Service) Start(ctx context.Context) error {
	barista, err := s.baristaRepo.FindByName(ctx, s.baristaName)
	if err == nil {
		if barista.Status == domain.BaristaStatusOnline {
			return fmt.Errorf("barista %s is already online", s.baristaName)
		}
		barista.Status = domain.BaristaStatusOnline
		barista.BranchID = s.branchID
		barista.LastSeen = time.Now()
		if err := s.baristaRepo.Update(ctx, barista); err != nil {
			return err
		}
	} else {
		barista, err = domain.NewBarista(s.baristaName, s.branchID)
		if err != nil {
			return err
		}
		if err := s.baristaRepo.Create(ctx, barista); err != nil {
			return err
		}
	}

	s.logger.Info("barista_registered", fmt.Sprintf("Barista %s registered", s.baristaName), "", map[string]interface{}{
		"branch_id": s.branchID,
	})

	go s.heartbeatLoop(ctx)

	return nil
}

func (s *Service) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(s.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.baristaRepo.UpdateHeartbeat(ctx, s.baristaName); err != nil {
				s.logger.Error("heartbeat_failed", "Failed to update heartbeat", "", nil, err)
			} else {
				s.logger.Debug("heartbeat_sent", "Heartbeat sent", "", nil)
			}
		}
	}
}

func (s *Service) Shutdown(ctx context.Context) error {
	barista, err := s.baristaRepo.FindByName(ctx, s.baristaName)
	if err != nil {
		return err
	}
	barista.SetOffline()
	return s.baristaRepo.Update(ctx, barista)
}

// PrepareOrder handles one order-placed event: simulate preparation, stamp
// prepared_time exactly once and fan out the ready notification.
func (s *Service) PrepareOrder(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	if msg.BranchID != s.branchID {
		// Requeue for a barista at the right branch; the consumer keys
		// Nack behavior off this prefix.
		return fmt.Errorf("barista %s cannot prepare orders for branch %s", s.baristaName, msg.BranchID)
	}

	order, err := s.orderRepo.FindByID(ctx, msg.OrderID)
	if err != nil {
		return err
	}

	// Idempotency: redelivered events for prepared orders are dropped.
	if order.Prepared() {
		return nil
	}

	s.logger.Debug("preparation_started", fmt.Sprintf("Preparing order %s", order.ID), "", map[string]interface{}{
		"order_id": order.ID,
		"quantity": order.TotalQuantity,
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.prepTime(order)):
	}

	preparedAt := time.Now()
	if err := order.MarkPrepared(preparedAt, s.baristaName); err != nil {
		if errors.Is(err, domain.ErrAlreadyPrepared) {
			return nil
		}
		return err
	}
	if err := s.orderRepo.MarkPrepared(ctx, order.ID, preparedAt, s.baristaName); err != nil {
		if errors.Is(err, domain.ErrAlreadyPrepared) {
			return nil
		}
		return fmt.Errorf("failed to mark order prepared: %w", err)
	}

	if err := s.baristaRepo.IncrementOrdersPrepared(ctx, s.baristaName); err != nil {
		s.logger.Error("db_error", "Failed to increment barista stats", "", nil, err)
	}

	notification := interfaces.OrderReadyMessage{
		OrderID:    order.ID,
		BranchID:   order.BranchID,
		Customer:   order.Customer,
		PreparedBy: s.baristaName,
		PreparedAt: preparedAt,
	}
	if err := s.publisher.PublishOrderReady(ctx, notification); err != nil {
		// Notification loss does not undo the preparation.
		s.logger.Error("publish_failed", "Failed to publish ready notification", "", nil, err)
	}

	s.logger.Debug("order_prepared", fmt.Sprintf("Order %s ready for pickup", order.ID), "", nil)
	return nil
}
