package domain

import (
	"math"
	"time"
)

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 100.0

	// FlatShippingFee is charged on every order below the threshold.
	FlatShippingFee = 10.0
)

// VariantKey identifies a distinct purchasable line: the same product in
// a different color or size is a separate line.
type VariantKey struct {
	ProductID int64
	Color     string
	Size      string
}

type CartLine struct {
	ProductID     int64     `bson:"product_id" json:"productId"`
	Name          string    `bson:"name" json:"name"`
	UnitPrice     float64   `bson:"unit_price" json:"unitPrice"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	ImageURL      string    `bson:"image_url" json:"imageUrl"`
	SelectedColor string    `bson:"selected_color" json:"selectedColor"`
	SelectedSize  string    `bson:"selected_size" json:"selectedSize"`
	AddedAt       time.Time `bson:"added_at" json:"addedAt"`
}

func (l CartLine) Key() VariantKey {
	return VariantKey{ProductID: l.ProductID, Color: l.SelectedColor, Size: l.SelectedSize}
}

type Cart struct {
	OwnerID     string     `bson:"owner_id" json:"ownerId"`
	Lines       []CartLine `bson:"lines" json:"items"`
	Subtotal    float64    `bson:"subtotal" json:"subtotal"`
	ShippingFee float64    `bson:"shipping_fee" json:"shippingFee"`
	Total       float64    `bson:"total" json:"totalPrice"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

func NewCart(ownerID string) *Cart {
	now := time.Now()
	return &Cart{
		OwnerID:   ownerID,
		Lines:     []CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CoerceQuantity normalizes arbitrary quantity input to a positive
// integer: fractional values are floored, anything below 1 becomes 1.
func CoerceQuantity(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}

// AddLine merges by variant key: an existing line with the same
// (product, color, size) gets its quantity incremented by the line's
// quantity and its price refreshed; otherwise the line is appended,
// preserving insertion order.
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if line.AddedAt.IsZero() {
		line.AddedAt = time.Now()
	}

	key := line.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += line.Quantity
			c.Lines[i].UnitPrice = line.UnitPrice
			c.recomputeTotals()
			return
		}
	}

	c.Lines = append(c.Lines, line)
	c.recomputeTotals()
}

// SetQuantity sets a line's quantity by product id. A quantity of zero
// or less removes the line entirely. Returns false if no line matches.
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = quantity
		}
		c.recomputeTotals()
		return true
	}
	return false
}

// RemoveLine removes every line for the given product id. Returns false
// if nothing was removed.
func (c *Cart) RemoveLine(productID int64) bool {
	kept := c.Lines[:0]
	removed := false
	for _, line := range c.Lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	c.Lines = kept
	if removed {
		c.recomputeTotals()
	}
	return removed
}

// Clear empties the cart but keeps the record itself.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.recomputeTotals()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Totals are always recomputed from the full line list, never patched
// incrementally, so the aggregate cannot drift from the lines.
func (c *Cart) recomputeTotals() {
	subtotal := 0.0
	for _, line := range c.Lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	fee := 0.0
	if subtotal > 0 && subtotal < FreeShippingThreshold {
		fee = FlatShippingFee
	}

	c.Subtotal = subtotal
	c.ShippingFee = fee
	c.Total = subtotal + fee
	c.UpdatedAt = time.Now()
}
