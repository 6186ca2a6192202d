package barista

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

type fakeOrderRepo struct {
	orders       map[string]*domain.Order
	markedCount  int
	markPrepErr  error
	lastMarkedBy string
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (f *fakeOrderRepo) ListByCustomer(ctx context.Context, customer string) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByBranch(ctx context.Context, branchID string) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListUnprepared(ctx context.Context, branchID string) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) MarkPrepared(ctx context.Context, orderID string, at time.Time, by string) error {
	if f.markPrepErr != nil {
		return f.markPrepErr
	}
	f.markedCount++
	f.lastMarkedBy = by
	return nil
}

type fakeBaristaRepo struct {
	baristas   map[string]*domain.Barista
	increments int
}

func (f *fakeBaristaRepo) Create(ctx context.Context, barista *domain.Barista) error {
	barista.ID = len(f.baristas) + 1
	f.baristas[barista.Name] = barista
	return nil
}

func (f *fakeBaristaRepo) FindByName(ctx context.Context, name string) (*domain.Barista, error) {
	b, ok := f.baristas[name]
	if !ok {
		return nil, errors.New("barista not found")
	}
	return b, nil
}

func (f *fakeBaristaRepo) Update(ctx context.Context, barista *domain.Barista) error {
	f.baristas[barista.Name] = barista
	return nil
}

func (f *fakeBaristaRepo) UpdateHeartbeat(ctx context.Context, name string) error { return nil }

func (f *fakeBaristaRepo) ListAll(ctx context.Context) ([]*domain.Barista, error) {
	return nil, nil
}

func (f *fakeBaristaRepo) IncrementOrdersPrepared(ctx context.Context, name string) error {
	f.increments++
	return nil
}

type fakePublisher struct {
	ready []interfaces.OrderReadyMessage
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	return nil
}

func (f *fakePublisher) PublishOrderReady(ctx context.Context, msg interfaces.OrderReadyMessage) error {
	f.ready = append(f.ready, msg)
	return nil
}

func newFixture() (*Service, *fakeOrderRepo, *fakeBaristaRepo, *fakePublisher) {
	orders := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	baristas := &fakeBaristaRepo{baristas: make(map[string]*domain.Barista)}
	publisher := &fakePublisher{}

	service := NewService(orders, baristas, publisher, logger.New("test"), "bob", "branch1", 30)
	service.prepTime = func(*domain.Order) time.Duration { return 0 }

	return service, orders, baristas, publisher
}

func placedOrder(orders *fakeOrderRepo, id, branchID string) interfaces.OrderPlacedMessage {
	order := domain.NewOrder(id, domain.DefaultMenu(),
		[]domain.CartLine{{Item: "Americano", Quantity: 1, BranchID: branchID}},
		"alice", branchID, 5.0, time.Now())
	orders.orders[id] = order
	return interfaces.OrderPlacedMessage{
		OrderID:       order.ID,
		BranchID:      order.BranchID,
		Customer:      order.Customer,
		Lines:         order.Lines,
		TotalQuantity: order.TotalQuantity,
		TotalPrice:    order.TotalPrice,
		OrderedAt:     order.OrderedAt,
	}
}

func TestStart_RegistersNewBarista(t *testing.T) {
	service, _, baristas, _ := newFixture()

	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	b, ok := baristas.baristas["bob"]
	if !ok {
		t.Fatal("Expected barista to be registered")
	}
	if b.Status != domain.BaristaStatusOnline {
		t.Errorf("Expected online status, got %s", b.Status)
	}
}

func TestStart_RejectsDuplicateOnlineBarista(t *testing.T) {
	service, _, baristas, _ := newFixture()
	baristas.baristas["bob"] = &domain.Barista{Name: "bob", BranchID: "branch1", Status: domain.BaristaStatusOnline}

	err := service.Start(context.Background())
	if err == nil {
		t.Fatal("Expected a second online registration to be rejected")
	}
}

func TestStart_ReactivatesOfflineBarista(t *testing.T) {
	service, _, baristas, _ := newFixture()
	baristas.baristas["bob"] = &domain.Barista{Name: "bob", BranchID: "branch2", Status: domain.BaristaStatusOffline}

	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	b := baristas.baristas["bob"]
	if b.Status != domain.BaristaStatusOnline {
		t.Errorf("Expected online status, got %s", b.Status)
	}
	if b.BranchID != "branch1" {
		t.Errorf("Expected barista to move to branch1, got %s", b.BranchID)
	}
}

func TestPrepareOrder(t *testing.T) {
	service, orders, baristas, publisher := newFixture()
	msg := placedOrder(orders, "order1", "branch1")

	if err := service.PrepareOrder(context.Background(), msg); err != nil {
		t.Fatalf("Failed to prepare order: %v", err)
	}

	if !orders.orders["order1"].Prepared() {
		t.Error("Expected the order to be marked prepared")
	}
	if orders.markedCount != 1 {
		t.Errorf("Expected 1 persisted mark, got %d", orders.markedCount)
	}
	if orders.lastMarkedBy != "bob" {
		t.Errorf("Expected bob to be recorded, got %s", orders.lastMarkedBy)
	}
	if baristas.increments != 1 {
		t.Errorf("Expected 1 stats increment, got %d", baristas.increments)
	}
	if len(publisher.ready) != 1 {
		t.Fatalf("Expected 1 ready notification, got %d", len(publisher.ready))
	}
	if publisher.ready[0].PreparedBy != "bob" {
		t.Errorf("Expected notification from bob, got %s", publisher.ready[0].PreparedBy)
	}
}

func TestPrepareOrder_WrongBranch(t *testing.T) {
	service, orders, _, publisher := newFixture()
	msg := placedOrder(orders, "order1", "branch2")

	err := service.PrepareOrder(context.Background(), msg)
	if err == nil {
		t.Fatal("Expected an error for a foreign branch order")
	}
	// The consumer requeues on this wording instead of dead-lettering.
	if !strings.Contains(err.Error(), "cannot prepare orders for branch") {
		t.Errorf("Unexpected error wording: %v", err)
	}
	if len(publisher.ready) != 0 {
		t.Error("Expected no notification for a rejected order")
	}
}

func TestPrepareOrder_RedeliveryIsIdempotent(t *testing.T) {
	service, orders, _, publisher := newFixture()
	msg := placedOrder(orders, "order1", "branch1")

	if err := service.PrepareOrder(context.Background(), msg); err != nil {
		t.Fatalf("Failed to prepare order: %v", err)
	}
	if err := service.PrepareOrder(context.Background(), msg); err != nil {
		t.Fatalf("Expected redelivery to be dropped silently, got: %v", err)
	}

	if orders.markedCount != 1 {
		t.Errorf("Expected a single persisted mark, got %d", orders.markedCount)
	}
	if len(publisher.ready) != 1 {
		t.Errorf("Expected a single notification, got %d", len(publisher.ready))
	}
}
