package store

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// CartState is the snapshot handed to cart observers.
type CartState struct {
	Lines     []domain.CartLine
	Total     decimal.Decimal
	ItemCount int
	Version   uint64
}

// Cart owns the lines of one shopping session. At most one line exists per
// product ID and every line has quantity >= 1.
type Cart struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	version uint64
	subs    listeners[CartState]
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem merges quantity into the product's line, or appends a new line.
// Quantities below 1 count as 1 and a line never exceeds
// domain.MaxLineQuantity.
func (c *Cart) AddItem(product domain.Product, quantity int) {
	quantity = clampQuantity(quantity)
	c.mu.Lock()
	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity = clampQuantity(c.lines[i].Quantity + quantity)
	} else {
		c.lines = append(c.lines, domain.CartLine{Product: product, Quantity: quantity})
	}
	state := c.commitLocked()
	c.mu.Unlock()
	c.subs.notify(state)
}

// UpdateQuantity sets the line quantity; quantity <= 0 removes the line and
// larger values are capped at domain.MaxLineQuantity. Unknown product IDs
// are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	c.mu.Lock()
	i := c.indexOf(productID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.lines[i].Quantity = clampQuantity(quantity)
	state := c.commitLocked()
	c.mu.Unlock()
	c.subs.notify(state)
}

// RemoveItem deletes the product's line if present.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	i := c.indexOf(productID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	state := c.commitLocked()
	c.mu.Unlock()
	c.subs.notify(state)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	state := c.commitLocked()
	c.mu.Unlock()
	c.subs.notify(state)
}

// RemoveLines subtracts the given quantities from the matching lines and
// drops lines that reach zero. Items added after lines were read are kept.
func (c *Cart) RemoveLines(lines []domain.CartLine) {
	c.mu.Lock()
	changed := false
	for _, l := range lines {
		i := c.indexOf(l.Product.ID)
		if i < 0 || l.Quantity < 1 {
			continue
		}
		changed = true
		if left := c.lines[i].Quantity - l.Quantity; left > 0 {
			c.lines[i].Quantity = left
			continue
		}
		c.lines = slices.Delete(c.lines, i, i+1)
	}
	if !changed {
		c.mu.Unlock()
		return
	}
	state := c.commitLocked()
	c.mu.Unlock()
	c.subs.notify(state)
}

// Restore replaces the contents with previously persisted lines, merging
// duplicates and dropping non-positive quantities.
func (c *Cart) Restore(lines []domain.CartLine) {
	c.mu.Lock()
	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		l.Quantity = clampQuantity(l.Quantity)
		if i := c.indexOf(l.Product.ID); i >= 0 {
			c.lines[i].Quantity = clampQuantity(c.lines[i].Quantity + l.Quantity)
			continue
		}
		c.lines = append(c.lines, l)
	}
	state := c.commitLocked()
	c.mu.Unlock()
	c.subs.notify(state)
}

// Lines returns a copy of the lines in add order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

// Total returns the exact sum of price × quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalOf(c.lines)
}

// ItemCount returns the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return countOf(c.lines)
}

// State returns a consistent snapshot of lines and derived values.
func (c *Cart) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers fn to run synchronously after every change. The
// returned func unsubscribes.
func (c *Cart) Subscribe(fn func(CartState)) func() {
	return c.subs.add(fn)
}

func clampQuantity(q int) int {
	return min(max(q, 1), domain.MaxLineQuantity)
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.lines, func(l domain.CartLine) bool {
		return l.Product.ID == productID
	})
}

func (c *Cart) commitLocked() CartState {
	c.version++
	return c.stateLocked()
}

func (c *Cart) stateLocked() CartState {
	return CartState{
		Lines:     slices.Clone(c.lines),
		Total:     totalOf(c.lines),
		ItemCount: countOf(c.lines),
		Version:   c.version,
	}
}

func totalOf(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func countOf(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
