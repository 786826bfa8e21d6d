package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a cart. UnitPrice is snapshotted when
// the line is first added; the live catalog price is only consulted
// again at checkout.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines. Order follows first
// insertion; re-adding an existing product keeps its position.
type Cart struct {
	Lines []Line
}

// Total recomputes the cart total from its lines on every call. It is
// never stored.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Len is the number of distinct product lines.
func (c Cart) Len() int {
	return len(c.Lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
