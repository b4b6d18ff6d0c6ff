package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurye/shop/internal/money"
)

// Item is what a view hands the store when adding a product.
type Item struct {
	ID    string
	Title string
	Price float64
	Image string
}

// Line is one product in the cart. Its JSON form is the persisted record.
type Line struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

// UnitPrice returns the price as a decimal, clamped at zero.
func (l Line) UnitPrice() decimal.Decimal {
	return money.FromFloat(l.Price)
}

// Total returns unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Encode serializes lines in display order.
func Encode(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

// Decode parses a persisted cart. Records without an id are dropped,
// quantities below one are raised to one, unusable prices become zero and
// duplicate ids are merged into the first occurrence.
func Decode(data []byte) ([]Line, error) {
	var raw []Line
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	lines := make([]Line, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for _, l := range raw {
		if l.ID == "" {
			continue
		}
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		l.Price = money.Sanitize(l.Price)
		if i, ok := seen[l.ID]; ok {
			lines[i].Quantity += l.Quantity
			continue
		}
		seen[l.ID] = len(lines)
		lines = append(lines, l)
	}
	return lines, nil
}
