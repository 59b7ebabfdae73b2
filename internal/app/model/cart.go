package model

import (
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the copy of a product taken when it is added to the
// cart. Later catalogue changes do not reach it.
type ProductSnapshot struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// CartLine is one product in the cart. The JSON layout is the one the
// storefront has always kept under the "cart" key.
type CartLine struct {
	ProductSnapshot
	Quantity int `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSummary is the order summary shown next to the cart.
type CartSummary struct {
	Lines     []CartLine      `json:"lines"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}
