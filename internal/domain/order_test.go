package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrder_SnapshotsCart(t *testing.T) {
	menu := DefaultMenu()
	lines := []CartLine{
		{Item: "Americano", Quantity: 2, BranchID: "branch1"},
		{Item: "Latte", Quantity: 1, BranchID: "branch1"},
	}
	now := time.Now()

	order := NewOrder("order1", menu, lines, "alice", "branch1", 16.5, now)

	if len(order.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(order.Lines))
	}
	if order.TotalQuantity != 3 {
		t.Errorf("Expected total quantity 3, got %d", order.TotalQuantity)
	}
	if order.TotalPrice != 16.5 {
		t.Errorf("Expected total price 16.50, got %.2f", order.TotalPrice)
	}
	// 2x Americano cost 2.00 + 1x Latte cost 3.50
	if order.TotalCost != 7.5 {
		t.Errorf("Expected total cost 7.50, got %.2f", order.TotalCost)
	}
	if order.Lines[0].UnitPrice != 5.0 {
		t.Errorf("Expected snapshot unit price 5.00, got %.2f", order.Lines[0].UnitPrice)
	}
	if order.Prepared() {
		t.Error("New order must not be prepared")
	}
}

func TestOrder_MarkPrepared(t *testing.T) {
	order := &Order{ID: "order1"}
	at := time.Now()

	if err := order.MarkPrepared(at, "bekzat"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !order.Prepared() || *order.PreparedBy != "bekzat" {
		t.Errorf("Expected prepared by bekzat, got: %+v", order)
	}

	if err := order.MarkPrepared(time.Now(), "aruzhan"); !errors.Is(err, ErrAlreadyPrepared) {
		t.Errorf("Expected ErrAlreadyPrepared on second mark, got: %v", err)
	}
	if *order.PreparedBy != "bekzat" {
		t.Error("Second mark must not overwrite the first")
	}
}

func TestOrder_PlacedOn(t *testing.T) {
	order := &Order{OrderedAt: time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)}

	if !order.PlacedOn(time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)) {
		t.Error("Expected order to match its own day")
	}
	if order.PlacedOn(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected order not to match the next day")
	}
}

func TestFeedback_Validate(t *testing.T) {
	valid := &Feedback{OrderID: "order1", Item: "Americano", CoffeeRating: 4, ServiceRating: 5}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid feedback, got: %v", err)
	}

	invalid := []*Feedback{
		{Item: "Americano", CoffeeRating: 4, ServiceRating: 5},
		{OrderID: "order1", CoffeeRating: 4, ServiceRating: 5},
		{OrderID: "order1", Item: "Americano", CoffeeRating: 0, ServiceRating: 5},
		{OrderID: "order1", Item: "Americano", CoffeeRating: 4, ServiceRating: 6},
	}
	for i, f := range invalid {
		if err := f.Validate(); err == nil {
			t.Errorf("Expected validation error for case %d", i)
		}
	}
}
