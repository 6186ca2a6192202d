package domain

import (
	"errors"
	"time"
)

// Feedback is a customer rating left against one item of a completed order.
type Feedback struct {
	ID            string
	OrderID       string
	Customer      string
	Item          string
	CoffeeRating  int
	ServiceRating int
	Review        string
	SubmittedAt   time.Time
}

func (f *Feedback) Validate() error {
	if f.OrderID == "" {
		return errors.New("order id is required")
	}
	if f.Item == "" {
		return errors.New("item is required")
	}
	if f.CoffeeRating < 1 || f.CoffeeRating > 5 {
		return errors.New("coffee rating must be between 1 and 5")
	}
	if f.ServiceRating < 1 || f.ServiceRating > 5 {
		return errors.New("service rating must be between 1 and 5")
	}
	return nil
}
