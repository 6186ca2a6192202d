package domain

import "time"

// Order is the durable snapshot of a cart taken at checkout time. Only
// PreparedAt/PreparedBy are mutated after creation, once, by a barista.
type Order struct {
	ID            string
	BranchID      string
	Customer      string
	Lines         []OrderLine
	TotalQuantity int
	TotalPrice    float64
	TotalCost     float64
	OrderedAt     time.Time
	PreparedAt    *time.Time
	PreparedBy    *string
}

// OrderLine freezes one cart line with the unit price in effect at checkout.
type OrderLine struct {
	Item      string
	Quantity  int
	UnitPrice float64
	UnitCost  float64
}

// NewOrder snapshots the cart lines against the menu. TotalPrice is the
// discounted amount already computed by the checkout workflow; cost and
// quantity are summed from the lines.
func NewOrder(id string, menu Menu, lines []CartLine, customer, branchID string, totalPrice float64, orderedAt time.Time) *Order {
	order := &Order{
		ID:         id,
		BranchID:   branchID,
		Customer:   customer,
		TotalPrice: totalPrice,
		OrderedAt:  orderedAt,
	}

	for _, l := range lines {
		item, ok := menu.Item(l.Item)
		if !ok {
			continue
		}
		order.Lines = append(order.Lines, OrderLine{
			Item:      l.Item,
			Quantity:  l.Quantity,
			UnitPrice: item.Price,
			UnitCost:  item.Cost,
		})
		order.TotalQuantity += l.Quantity
		order.TotalCost += item.Cost * float64(l.Quantity)
	}

	return order
}

// MarkPrepared sets the preparation timestamp. An order can only be marked
// once.
func (o *Order) MarkPrepared(at time.Time, by string) error {
	if o.PreparedAt != nil {
		return ErrAlreadyPrepared
	}
	o.PreparedAt = &at
	if by != "" {
		o.PreparedBy = &by
	}
	return nil
}

func (o *Order) Prepared() bool {
	return o.PreparedAt != nil
}

// PrepTime estimates how long a barista needs for the whole order.
func (o *Order) PrepTime() time.Duration {
	return 4*time.Second + time.Duration(o.TotalQuantity)*2*time.Second
}

// PlacedOn reports whether the order was placed on the given calendar day.
func (o *Order) PlacedOn(day time.Time) bool {
	y1, m1, d1 := o.OrderedAt.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
