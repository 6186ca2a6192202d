package domain

import (
	"errors"
	"time"
)

type InstrumentType string

const (
	InstrumentPromotion InstrumentType = "promotion"
	InstrumentCoupon    InstrumentType = "coupon"
)

// Instrument is a single discount rule: a broad promotion applied by name, or
// a coupon redeemed by code. At most one of each may be applied to a cart.
type Instrument struct {
	ID              string
	Type            InstrumentType
	Name            string
	CouponCode      string
	Items           []string
	DiscountPercent int
	ExpiresAt       time.Time
}

// Validate applies creation rules: a promotion needs a name, a coupon needs a
// code, the discount is a whole percentage between 1 and 100, and the
// instrument must cover at least one menu item.
func (ins *Instrument) Validate(menu Menu) error {
	switch ins.Type {
	case InstrumentPromotion:
		if ins.Name == "" {
			return errors.New("promotion name is required")
		}
	case InstrumentCoupon:
		if ins.CouponCode == "" {
			return errors.New("coupon code is required")
		}
	default:
		return errors.New("instrument type must be promotion or coupon")
	}

	if ins.DiscountPercent < 1 || ins.DiscountPercent > 100 {
		return errors.New("discount percentage must be between 1 and 100")
	}
	if len(ins.Items) == 0 {
		return errors.New("instrument must cover at least one item")
	}
	for _, item := range ins.Items {
		if !menu.Has(item) {
			return ErrUnknownItem
		}
	}
	return nil
}

// Expired reports whether the instrument is past its expiration date. The
// instrument stays valid through the whole of its last day. Both timestamps
// are compared as UTC calendar days so the answer does not depend on the
// server clock's location.
func (ins *Instrument) Expired(on time.Time) bool {
	y1, m1, d1 := ins.ExpiresAt.UTC().Date()
	y2, m2, d2 := on.UTC().Date()
	lastDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return lastDay.Before(today)
}

// Covers reports whether the instrument's applicable set includes the item.
func (ins *Instrument) Covers(item string) bool {
	for _, name := range ins.Items {
		if name == item {
			return true
		}
	}
	return false
}

// DisplayName is the promotion name or the coupon code, whichever the
// instrument carries.
func (ins *Instrument) DisplayName() string {
	if ins.Type == InstrumentCoupon {
		return ins.CouponCode
	}
	return ins.Name
}

// CartTotals is the result of pricing a cart.
type CartTotals struct {
	Base     float64
	Discount float64
	Due      float64
}

// TotalDue prices the cart lines against the menu with the given discount
// instruments applied. Each instrument contributes price x quantity x
// percent / 100 for every line it covers; contributions are additive, never
// compounded. The final amount floors at zero.
func TotalDue(menu Menu, lines []CartLine, instruments ...*Instrument) CartTotals {
	var t CartTotals

	for _, l := range lines {
		item, ok := menu.Item(l.Item)
		if !ok {
			continue
		}
		t.Base += item.Price * float64(l.Quantity)
	}

	for _, ins := range instruments {
		if ins == nil {
			continue
		}
		for _, l := range lines {
			if !ins.Covers(l.Item) {
				continue
			}
			item, ok := menu.Item(l.Item)
			if !ok {
				continue
			}
			t.Discount += item.Price * float64(l.Quantity) * float64(ins.DiscountPercent) / 100
		}
	}

	t.Due = t.Base - t.Discount
	if t.Due < 0 {
		t.Due = 0
	}
	return t
}
