package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineKind tags what a cart line refers to.
type LineKind string

const (
	LinePizza   LineKind = "pizza"
	LineProduct LineKind = "product"
)

func (k LineKind) Valid() bool {
	return k == LinePizza || k == LineProduct
}

// CartLine is either a pizza or a product line. UnitPriceHint is what the
// customer saw when adding the line; checkout always reprices.
type CartLine struct {
	Kind          LineKind        `json:"kind"`
	ItemId        uuid.UUID       `json:"item_id"`
	Quantity      int             `json:"quantity"`
	Name          string          `json:"name,omitempty"`
	UnitPriceHint decimal.Decimal `json:"unit_price_hint"`
}

func NewPizzaLine(pizzaId uuid.UUID, quantity int) CartLine {
	return CartLine{Kind: LinePizza, ItemId: pizzaId, Quantity: quantity}
}

func NewProductLine(productId uuid.UUID, quantity int) CartLine {
	return CartLine{Kind: LineProduct, ItemId: productId, Quantity: quantity}
}

func (l CartLine) sameItem(other CartLine) bool {
	return l.Kind == other.Kind && l.ItemId == other.ItemId
}

type Cart struct {
	CustomerId uuid.UUID  `json:"customer_id"`
	Lines      []CartLine `json:"lines"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewCart(customerId uuid.UUID) Cart {
	return Cart{CustomerId: customerId, Lines: []CartLine{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// MaxLineQuantity caps the units of a single cart line.
const MaxLineQuantity = 50

// Add merges the line into an existing line for the same item, or appends it.
// The merged quantity never exceeds MaxLineQuantity.
func (c *Cart) Add(line CartLine) {
	line.Quantity = min(line.Quantity, MaxLineQuantity)
	for i := range c.Lines {
		if c.Lines[i].sameItem(line) {
			c.Lines[i].Quantity = min(c.Lines[i].Quantity+line.Quantity, MaxLineQuantity)
			c.Lines[i].UnitPriceHint = line.UnitPriceHint
			if line.Name != "" {
				c.Lines[i].Name = line.Name
			}
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity changes the quantity of the line at index. A quantity of zero
// or less removes the line. It returns false when index is out of range.
func (c *Cart) SetQuantity(index, quantity int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	if quantity <= 0 {
		return c.Remove(index)
	}
	c.Lines[index].Quantity = min(quantity, MaxLineQuantity)
	return true
}

func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return true
}

// ItemCount is the number of units across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// HintTotal sums the price hints. Display only.
func (c Cart) HintTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPriceHint.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

type AddCartLineRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=pizza product"`
	ItemId   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=50"`
}

type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=50"`
}
