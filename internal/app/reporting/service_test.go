package reporting

import (
	"context"
	"testing"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
)

type fakeOrderRepo struct {
	orders []*domain.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByCustomer(ctx context.Context, customer string) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByBranch(ctx context.Context, branchID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range f.orders {
		if order.BranchID == branchID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListUnprepared(ctx context.Context, branchID string) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) MarkPrepared(ctx context.Context, orderID string, at time.Time, by string) error {
	return nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSalesSummary(t *testing.T) {
	menu := domain.DefaultMenu()
	repo := &fakeOrderRepo{}

	// Two Americanos: price 10.00, cost 4.00.
	repo.orders = append(repo.orders, domain.NewOrder("o1", menu,
		[]domain.CartLine{{Item: "Americano", Quantity: 2, BranchID: "branch1"}},
		"alice", "branch1", 10.0, day("2026-08-01")))
	// One Latte: price 6.50, cost 3.50.
	repo.orders = append(repo.orders, domain.NewOrder("o2", menu,
		[]domain.CartLine{{Item: "Latte", Quantity: 1, BranchID: "branch1"}},
		"bob", "branch1", 6.5, day("2026-08-02")))
	// Another branch, excluded from the report.
	repo.orders = append(repo.orders, domain.NewOrder("o3", menu,
		[]domain.CartLine{{Item: "Cappuccino", Quantity: 1, BranchID: "branch2"}},
		"carol", "branch2", 6.0, day("2026-08-01")))

	service := NewService(repo, logger.New("test"))

	summary, err := service.SalesSummary(context.Background(), "branch1")
	if err != nil {
		t.Fatalf("Failed to build summary: %v", err)
	}

	if summary.Orders != 2 {
		t.Errorf("Expected 2 orders, got %d", summary.Orders)
	}
	if summary.UnitsSold != 3 {
		t.Errorf("Expected 3 units, got %d", summary.UnitsSold)
	}
	if summary.Revenue != 16.5 {
		t.Errorf("Expected revenue 16.50, got %.2f", summary.Revenue)
	}
	if summary.Cost != 7.5 {
		t.Errorf("Expected cost 7.50, got %.2f", summary.Cost)
	}
	if summary.Profit != 9.0 {
		t.Errorf("Expected profit 9.00, got %.2f", summary.Profit)
	}
}

func TestSalesSummary_ByItemSortedByRevenue(t *testing.T) {
	menu := domain.DefaultMenu()
	repo := &fakeOrderRepo{}
	repo.orders = append(repo.orders, domain.NewOrder("o1", menu,
		[]domain.CartLine{
			{Item: "Americano", Quantity: 1, BranchID: "branch1"},
			{Item: "Latte", Quantity: 2, BranchID: "branch1"},
		},
		"alice", "branch1", 18.0, day("2026-08-01")))

	service := NewService(repo, logger.New("test"))

	summary, err := service.SalesSummary(context.Background(), "branch1")
	if err != nil {
		t.Fatalf("Failed to build summary: %v", err)
	}

	if len(summary.ByItem) != 2 {
		t.Fatalf("Expected 2 item rows, got %d", len(summary.ByItem))
	}
	// Lattes bring in 13.00 against the Americano's 5.00.
	if summary.ByItem[0].Item != "Latte" {
		t.Errorf("Expected Latte first, got %s", summary.ByItem[0].Item)
	}
	if summary.ByItem[0].Units != 2 || summary.ByItem[0].Revenue != 13.0 {
		t.Errorf("Unexpected Latte row: %+v", summary.ByItem[0])
	}
}

func TestSalesSummary_ByDayChronological(t *testing.T) {
	menu := domain.DefaultMenu()
	repo := &fakeOrderRepo{}
	repo.orders = append(repo.orders, domain.NewOrder("o1", menu,
		[]domain.CartLine{{Item: "Americano", Quantity: 1, BranchID: "branch1"}},
		"alice", "branch1", 5.0, day("2026-08-03")))
	repo.orders = append(repo.orders, domain.NewOrder("o2", menu,
		[]domain.CartLine{{Item: "Americano", Quantity: 1, BranchID: "branch1"}},
		"alice", "branch1", 5.0, day("2026-08-01")))
	repo.orders = append(repo.orders, domain.NewOrder("o3", menu,
		[]domain.CartLine{{Item: "Americano", Quantity: 1, BranchID: "branch1"}},
		"bob", "branch1", 5.0, day("2026-08-01")))

	service := NewService(repo, logger.New("test"))

	summary, err := service.SalesSummary(context.Background(), "branch1")
	if err != nil {
		t.Fatalf("Failed to build summary: %v", err)
	}

	if len(summary.ByDay) != 2 {
		t.Fatalf("Expected 2 day rows, got %d", len(summary.ByDay))
	}
	if summary.ByDay[0].Day != "2026-08-01" || summary.ByDay[0].Orders != 2 {
		t.Errorf("Unexpected first day row: %+v", summary.ByDay[0])
	}
	if summary.ByDay[1].Day != "2026-08-03" || summary.ByDay[1].Orders != 1 {
		t.Errorf("Unexpected second day row: %+v", summary.ByDay[1])
	}
}

func TestSalesSummary_EmptyBranch(t *testing.T) {
	service := NewService(&fakeOrderRepo{}, logger.New("test"))

	summary, err := service.SalesSummary(context.Background(), "branch1")
	if err != nil {
		t.Fatalf("Failed to build summary: %v", err)
	}
	if summary.Orders != 0 || summary.Revenue != 0 {
		t.Errorf("Expected an empty summary, got %+v", summary)
	}
}
