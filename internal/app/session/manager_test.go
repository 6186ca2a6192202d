package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
)

type fakePromoRepo struct {
	active  []*domain.Instrument
	coupons map[string]*domain.Instrument
}

func (f *fakePromoRepo) ListActive(ctx context.Context, now time.Time) ([]*domain.Instrument, error) {
	return f.active, nil
}

func (f *fakePromoRepo) FindCoupon(ctx context.Context, code string) (*domain.Instrument, error) {
	coupon, ok := f.coupons[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return coupon, nil
}

func (f *fakePromoRepo) Create(ctx context.Context, instrument *domain.Instrument) error {
	return nil
}

func (f *fakePromoRepo) Delete(ctx context.Context, instrumentID string) error {
	return nil
}

func newManager(repo *fakePromoRepo) *Manager {
	return NewManager(domain.DefaultMenu(), repo, logger.New("test"))
}

func TestManager_AddAndViewCart(t *testing.T) {
	m := newManager(&fakePromoRepo{})
	ctx := context.Background()

	if err := m.AddItem(ctx, "alice", "Americano", 2, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	view, err := m.ViewCart(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to view cart: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(view.Lines))
	}
	if view.Totals.Due != 10.0 {
		t.Errorf("Expected total 10.0, got %.2f", view.Totals.Due)
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := newManager(&fakePromoRepo{})
	ctx := context.Background()

	if err := m.AddItem(ctx, "alice", "Americano", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	view, err := m.ViewCart(ctx, "bob")
	if err != nil {
		t.Fatalf("Failed to view cart: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Errorf("Expected bob's cart to be empty, got %d lines", len(view.Lines))
	}
}

func TestManager_AddUnknownItem(t *testing.T) {
	m := newManager(&fakePromoRepo{})

	err := m.AddItem(context.Background(), "alice", "Flat White", 1, "branch1")
	if !errors.Is(err, domain.ErrUnknownItem) {
		t.Fatalf("Expected ErrUnknownItem, got: %v", err)
	}
}

func TestManager_ApplyCoupon(t *testing.T) {
	repo := &fakePromoRepo{coupons: map[string]*domain.Instrument{
		"SAVE10": {
			ID:              "c1",
			Type:            domain.InstrumentCoupon,
			CouponCode:      "SAVE10",
			Items:           []string{"Americano"},
			DiscountPercent: 10,
			ExpiresAt:       time.Now().AddDate(0, 0, 7),
		},
	}}
	m := newManager(repo)
	ctx := context.Background()

	if err := m.AddItem(ctx, "alice", "Americano", 2, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	coupon, err := m.ApplyCoupon(ctx, "alice", "SAVE10")
	if err != nil {
		t.Fatalf("Failed to apply coupon: %v", err)
	}
	if coupon.CouponCode != "SAVE10" {
		t.Errorf("Expected coupon SAVE10, got %s", coupon.CouponCode)
	}

	view, err := m.ViewCart(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to view cart: %v", err)
	}
	if view.Totals.Due != 9.0 {
		t.Errorf("Expected discounted total 9.0, got %.2f", view.Totals.Due)
	}
}

func TestManager_ApplyExpiredCoupon(t *testing.T) {
	repo := &fakePromoRepo{coupons: map[string]*domain.Instrument{
		"OLD": {
			ID:              "c1",
			Type:            domain.InstrumentCoupon,
			CouponCode:      "OLD",
			Items:           []string{"Americano"},
			DiscountPercent: 10,
			ExpiresAt:       time.Now().AddDate(0, 0, -2),
		},
	}}
	m := newManager(repo)

	_, err := m.ApplyCoupon(context.Background(), "alice", "OLD")
	if !errors.Is(err, domain.ErrInstrumentExpired) {
		t.Fatalf("Expected ErrInstrumentExpired, got: %v", err)
	}
}

func TestManager_ApplyUnknownCoupon(t *testing.T) {
	m := newManager(&fakePromoRepo{})

	_, err := m.ApplyCoupon(context.Background(), "alice", "NOPE")
	if !errors.Is(err, domain.ErrCouponNotFound) {
		t.Fatalf("Expected ErrCouponNotFound, got: %v", err)
	}
}

func TestManager_ApplyPromotionRequiresCoveredItem(t *testing.T) {
	repo := &fakePromoRepo{active: []*domain.Instrument{
		{
			ID:              "p1",
			Type:            domain.InstrumentPromotion,
			Name:            "Milk Week",
			Items:           []string{"Latte", "Cappuccino"},
			DiscountPercent: 20,
			ExpiresAt:       time.Now().AddDate(0, 0, 7),
		},
	}}
	m := newManager(repo)
	ctx := context.Background()

	// Cart holds only an Americano, which the promotion does not cover.
	if err := m.AddItem(ctx, "alice", "Americano", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	_, err := m.ApplyPromotion(ctx, "alice", "Milk Week")
	if !errors.Is(err, domain.ErrPromotionNotApplicable) {
		t.Fatalf("Expected ErrPromotionNotApplicable, got: %v", err)
	}

	if err := m.AddItem(ctx, "alice", "Latte", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	promo, err := m.ApplyPromotion(ctx, "alice", "Milk Week")
	if err != nil {
		t.Fatalf("Failed to apply promotion: %v", err)
	}
	if promo.Name != "Milk Week" {
		t.Errorf("Expected promotion Milk Week, got %s", promo.Name)
	}
}

func TestManager_ApplyUnknownPromotion(t *testing.T) {
	m := newManager(&fakePromoRepo{})

	_, err := m.ApplyPromotion(context.Background(), "alice", "Nothing")
	if !errors.Is(err, domain.ErrPromotionNotFound) {
		t.Fatalf("Expected ErrPromotionNotFound, got: %v", err)
	}
}

func TestManager_ClearCartDropsInstruments(t *testing.T) {
	repo := &fakePromoRepo{coupons: map[string]*domain.Instrument{
		"SAVE10": {
			ID:              "c1",
			Type:            domain.InstrumentCoupon,
			CouponCode:      "SAVE10",
			Items:           []string{"Americano"},
			DiscountPercent: 10,
			ExpiresAt:       time.Now().AddDate(0, 0, 7),
		},
	}}
	m := newManager(repo)
	ctx := context.Background()

	if err := m.AddItem(ctx, "alice", "Americano", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if _, err := m.ApplyCoupon(ctx, "alice", "SAVE10"); err != nil {
		t.Fatalf("Failed to apply coupon: %v", err)
	}

	m.ClearCart("alice")

	view, err := m.ViewCart(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to view cart: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Error("Expected empty cart after clear")
	}
	if view.Coupon != "" {
		t.Error("Expected coupon to be unapplied after clear")
	}
}

func TestManager_CheckoutRequestCarriesSessionState(t *testing.T) {
	m := newManager(&fakePromoRepo{})
	ctx := context.Background()

	if err := m.AddItem(ctx, "alice", "Latte", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	req := m.CheckoutRequest("alice", "branch1")
	if req.Customer != "alice" || req.BranchID != "branch1" {
		t.Errorf("Unexpected request identity: %s/%s", req.Customer, req.BranchID)
	}
	if len(req.Lines) != 1 {
		t.Fatalf("Expected one snapshotted line, got %d", len(req.Lines))
	}

	// The snapshot is detached: later session changes do not leak into it.
	if err := m.AddItem(ctx, "alice", "Americano", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if len(req.Lines) != 1 {
		t.Error("Expected the request snapshot to be unaffected by later adds")
	}

	// Clearing routes back through the manager and empties the live cart.
	req.ClearCart()
	view, _ := m.ViewCart(ctx, "alice")
	if len(view.Lines) != 0 {
		t.Error("Expected cart clear to be visible through the session")
	}
}

func TestManager_ClearCartIsSafeUnderConcurrentAdds(t *testing.T) {
	m := newManager(&fakePromoRepo{})
	ctx := context.Background()

	if err := m.AddItem(ctx, "alice", "Latte", 1, "branch1"); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	req := m.CheckoutRequest("alice", "branch1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = m.AddItem(ctx, "alice", "Americano", 1, "branch1")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			req.ClearCart()
		}
	}()
	wg.Wait()

	// Sanity: the session is still usable after the interleaving.
	if err := m.AddItem(ctx, "alice", "Latte", 1, "branch1"); err != nil {
		t.Fatalf("Session unusable after concurrent access: %v", err)
	}
}
