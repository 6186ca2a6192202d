package promotions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// Service is the admin surface for discount instruments.
type Service struct {
	menu      domain.Menu
	promoRepo interfaces.PromotionRepository
	logger    logger.Logger
}

func NewService(menu domain.Menu, promoRepo interfaces.PromotionRepository, logger logger.Logger) *Service {
	return &Service{menu: menu, promoRepo: promoRepo, logger: logger}
}

// ListActive returns unexpired instruments; the repository purges expired
// ones as a side effect of the listing.
func (s *Service) ListActive(ctx context.Context) ([]*domain.Instrument, error) {
	return s.promoRepo.ListActive(ctx, time.Now())
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreatePromotionCommand) (*domain.Instrument, error) {
	instrument := &domain.Instrument{
		ID:              uuid.New().String(),
		Type:            domain.InstrumentType(cmd.Type),
		Name:            cmd.Name,
		CouponCode:      cmd.CouponCode,
		Items:           cmd.Items,
		DiscountPercent: cmd.DiscountPercent,
		ExpiresAt:       cmd.ExpiresAt,
	}

	if err := instrument.Validate(s.menu); err != nil {
		return nil, err
	}
	if instrument.Expired(time.Now()) {
		return nil, errors.New("expiration date must be today or in the future")
	}

	if err := s.promoRepo.Create(ctx, instrument); err != nil {
		return nil, err
	}

	s.logger.Info("promotion_created", "Discount instrument created", "", map[string]interface{}{
		"type": string(instrument.Type),
		"name": instrument.DisplayName(),
	})
	return instrument, nil
}

func (s *Service) Terminate(ctx context.Context, instrumentID string) error {
	if err := s.promoRepo.Delete(ctx, instrumentID); err != nil {
		return err
	}
	s.logger.Info("promotion_terminated", "Discount instrument terminated", "", map[string]interface{}{
		"id": instrumentID,
	})
	return nil
}
