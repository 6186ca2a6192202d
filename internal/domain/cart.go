package domain

// CartLine is one pending order line: an item, how many, and the branch it
// will be ordered from.
type CartLine struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	BranchID string `json:"branch_id"`
}

// Cart holds a customer's pending order lines. Lines are keyed by
// (item, branch): adding an existing pair increments its quantity instead of
// appending a duplicate. A Cart belongs to exactly one session and is not
// safe for concurrent use on its own.
type Cart struct {
	lines []CartLine
}

func (c *Cart) Add(menu Menu, item string, quantity int, branchID string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !menu.Has(item) {
		return ErrUnknownItem
	}

	for i := range c.lines {
		if c.lines[i].Item == item && c.lines[i].BranchID == branchID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	c.lines = append(c.lines, CartLine{Item: item, Quantity: quantity, BranchID: branchID})
	return nil
}

// Remove drops the line at the given position.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrIndexOutOfRange
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Contains reports whether any line carries the given item.
func (c *Cart) Contains(item string) bool {
	for _, l := range c.lines {
		if l.Item == item {
			return true
		}
	}
	return false
}
