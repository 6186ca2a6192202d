package promotions

import (
	"context"
	"testing"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

type fakePromoRepo struct {
	created []*domain.Instrument
	deleted []string
}

func (f *fakePromoRepo) ListActive(ctx context.Context, now time.Time) ([]*domain.Instrument, error) {
	return f.created, nil
}

func (f *fakePromoRepo) FindCoupon(ctx context.Context, code string) (*domain.Instrument, error) {
	return nil, domain.ErrCouponNotFound
}

func (f *fakePromoRepo) Create(ctx context.Context, instrument *domain.Instrument) error {
	f.created = append(f.created, instrument)
	return nil
}

func (f *fakePromoRepo) Delete(ctx context.Context, instrumentID string) error {
	f.deleted = append(f.deleted, instrumentID)
	return nil
}

func newService() (*Service, *fakePromoRepo) {
	repo := &fakePromoRepo{}
	return NewService(domain.DefaultMenu(), repo, logger.New("test")), repo
}

func TestCreatePromotion(t *testing.T) {
	service, repo := newService()

	ins, err := service.Create(context.Background(), interfaces.CreatePromotionCommand{
		Type:            "promotion",
		Name:            "Milk Week",
		Items:           []string{"Latte", "Cappuccino"},
		DiscountPercent: 20,
		ExpiresAt:       time.Now().AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("Failed to create promotion: %v", err)
	}
	if ins.ID == "" {
		t.Error("Expected the instrument to get an id")
	}
	if len(repo.created) != 1 {
		t.Fatalf("Expected 1 stored instrument, got %d", len(repo.created))
	}
}

func TestCreateCoupon(t *testing.T) {
	service, _ := newService()

	ins, err := service.Create(context.Background(), interfaces.CreatePromotionCommand{
		Type:            "coupon",
		CouponCode:      "SAVE10",
		Items:           []string{"Americano"},
		DiscountPercent: 10,
		ExpiresAt:       time.Now().AddDate(0, 0, 30),
	})
	if err != nil {
		t.Fatalf("Failed to create coupon: %v", err)
	}
	if ins.DisplayName() != "SAVE10" {
		t.Errorf("Expected display name SAVE10, got %s", ins.DisplayName())
	}
}

func TestCreate_RejectsUnknownMenuItem(t *testing.T) {
	service, repo := newService()

	_, err := service.Create(context.Background(), interfaces.CreatePromotionCommand{
		Type:            "promotion",
		Name:            "Mystery",
		Items:           []string{"Flat White"},
		DiscountPercent: 10,
		ExpiresAt:       time.Now().AddDate(0, 0, 7),
	})
	if err == nil {
		t.Fatal("Expected unknown menu item to be rejected")
	}
	if len(repo.created) != 0 {
		t.Error("Expected nothing to be stored")
	}
}

func TestCreate_RejectsBadDiscount(t *testing.T) {
	service, _ := newService()

	for _, percent := range []int{0, 101, -5} {
		_, err := service.Create(context.Background(), interfaces.CreatePromotionCommand{
			Type:            "promotion",
			Name:            "Bad",
			Items:           []string{"Americano"},
			DiscountPercent: percent,
			ExpiresAt:       time.Now().AddDate(0, 0, 7),
		})
		if err == nil {
			t.Errorf("Expected discount %d%% to be rejected", percent)
		}
	}
}

func TestCreate_RejectsPastExpiration(t *testing.T) {
	service, _ := newService()

	_, err := service.Create(context.Background(), interfaces.CreatePromotionCommand{
		Type:            "promotion",
		Name:            "Yesterday",
		Items:           []string{"Americano"},
		DiscountPercent: 10,
		ExpiresAt:       time.Now().AddDate(0, 0, -1),
	})
	if err == nil {
		t.Fatal("Expected past expiration to be rejected")
	}
}

func TestCreate_AcceptsTodayAsExpiration(t *testing.T) {
	service, _ := newService()

	// Instruments stay valid through the whole of their last day.
	_, err := service.Create(context.Background(), interfaces.CreatePromotionCommand{
		Type:            "promotion",
		Name:            "Today Only",
		Items:           []string{"Americano"},
		DiscountPercent: 10,
		ExpiresAt:       time.Now(),
	})
	if err != nil {
		t.Fatalf("Expected same-day expiration to be accepted, got: %v", err)
	}
}

func TestTerminate(t *testing.T) {
	service, repo := newService()

	if err := service.Terminate(context.Background(), "p1"); err != nil {
		t.Fatalf("Failed to terminate: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "p1" {
		t.Error("Expected the instrument to be deleted")
	}
}
