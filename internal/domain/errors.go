package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity        = errors.New("quantity must be greater than zero")
	ErrUnknownItem            = errors.New("item is not on the menu")
	ErrIndexOutOfRange        = errors.New("cart index out of range")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrBranchNotFound         = errors.New("branch not found")
	ErrStockConflict          = errors.New("branch inventory was modified concurrently")
	ErrAlreadyPrepared        = errors.New("order is already marked as prepared")
	ErrCouponNotFound         = errors.New("invalid coupon code")
	ErrInstrumentExpired      = errors.New("discount has expired")
	ErrPromotionNotFound      = errors.New("promotion not found")
	ErrPromotionNotApplicable = errors.New("promotion does not apply to any item in the cart")
	ErrPaymentInitiation      = errors.New("payment initiation failed")
)

// InsufficientStockError reports the first resource shortfall found while
// validating a cart against a branch inventory snapshot.
type InsufficientStockError struct {
	Item      string
	Resource  string
	Needed    int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s for %s: need %d, have %d",
		e.Resource, e.Item, e.Needed, e.Available)
}
