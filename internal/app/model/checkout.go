package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCreditCard = "credit-card"
	PaymentCash       = "cash"
)

// CheckoutForm is the shipping and payment form. Card fields are only
// required for card payments.
type CheckoutForm struct {
	FullName      string `json:"full_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	ZipCode       string `json:"zip_code" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"oneof=credit-card cash"`
	CardNumber    string `json:"card_number" validate:"required_if=PaymentMethod credit-card"`
	CardExpiry    string `json:"card_expiry" validate:"required_if=PaymentMethod credit-card"`
	CardCVV       string `json:"card_cvv" validate:"required_if=PaymentMethod credit-card"`
}

func (f CheckoutForm) ShippingAddress() string {
	return fmt.Sprintf("%s\n%s\n%s, %s %s", f.FullName, f.Address, f.City, f.State, f.ZipCode)
}

// Receipt confirms a placed order.
type Receipt struct {
	Reference     string          `json:"reference"`
	OrderID       int64           `json:"order_id,omitempty"`
	Submitted     bool            `json:"submitted"`
	PaymentMethod string          `json:"payment_method"`
	Lines         []CartLine      `json:"lines"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	PlacedAt      time.Time       `json:"placed_at"`
}
