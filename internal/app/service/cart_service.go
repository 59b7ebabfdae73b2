package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidProduct   = errors.New("invalid product")
)

type CartService interface {
	GetCart(ctx context.Context, profileID string) ([]model.CartLine, error)
	AddItem(ctx context.Context, profileID string, product model.ProductSnapshot, quantity int) ([]model.CartLine, error)
	SetQuantity(ctx context.Context, profileID string, productID int64, quantity int) ([]model.CartLine, error)
	RemoveItem(ctx context.Context, profileID string, productID int64) ([]model.CartLine, error)
	GetSummary(ctx context.Context, profileID string) (*model.CartSummary, error)
	ClearCart(ctx context.Context, profileID string) error
}

type cartService struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) GetCart(ctx context.Context, profileID string) ([]model.CartLine, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"profile_id": profileID,
	})

	lines, err := s.cartRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// AddItem merges into the line with the same product id or appends a new
// line holding a snapshot of product.
func (s *cartService) AddItem(ctx context.Context, profileID string, product model.ProductSnapshot, quantity int) ([]model.CartLine, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"profile_id": profileID,
		"product_id": product.ID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if product.ID <= 0 {
		return nil, ErrInvalidProduct
	}
	if product.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	lines, err := s.cartRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].ID == product.ID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, model.CartLine{ProductSnapshot: product, Quantity: quantity})
	}

	if err := s.cartRepo.Save(ctx, profileID, lines); err != nil {
		return nil, err
	}

	if quantity == 1 {
		Notify(ctx, "Added to cart", fmt.Sprintf("%s added to your cart", product.Name))
	} else {
		Notify(ctx, "Added to cart", fmt.Sprintf("%s (Qty: %d) added to your cart", product.Name, quantity))
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"profile_id": profileID,
		"product_id": product.ID,
		"merged":     merged,
		"lines":      len(lines),
	})
	return lines, nil
}

// SetQuantity ignores quantities below 1: the cart comes back unchanged and
// nothing is written.
func (s *cartService) SetQuantity(ctx context.Context, profileID string, productID int64, quantity int) ([]model.CartLine, error) {
	lines, err := s.cartRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		logger.Debug("Ignoring cart quantity below 1", map[string]interface{}{
			"profile_id": profileID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return lines, nil
	}

	found := false
	for i := range lines {
		if lines[i].ID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		logger.Warn("Cannot update quantity: cart line not found", map[string]interface{}{
			"profile_id": profileID,
			"product_id": productID,
		})
		return nil, ErrCartLineNotFound
	}

	if err := s.cartRepo.Save(ctx, profileID, lines); err != nil {
		return nil, err
	}

	logger.Info("Cart quantity updated", map[string]interface{}{
		"profile_id": profileID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return lines, nil
}

func (s *cartService) RemoveItem(ctx context.Context, profileID string, productID int64) ([]model.CartLine, error) {
	lines, err := s.cartRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	kept := make([]model.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return lines, nil
	}

	if err := s.cartRepo.Save(ctx, profileID, kept); err != nil {
		return nil, err
	}
	Notify(ctx, "Item removed", "Item has been removed from your cart")

	logger.Info("Item removed from cart", map[string]interface{}{
		"profile_id": profileID,
		"product_id": productID,
	})
	return kept, nil
}

func (s *cartService) GetSummary(ctx context.Context, profileID string) (*model.CartSummary, error) {
	lines, err := s.cartRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	summary := SummarizeCart(lines)
	return &summary, nil
}

func (s *cartService) ClearCart(ctx context.Context, profileID string) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"profile_id": profileID,
	})
	return s.cartRepo.DeleteByProfile(ctx, profileID)
}

// CartTotal is the sum of price times quantity over all lines.
func CartTotal(lines []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func CartItemCount(lines []model.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// SummarizeCart builds the order summary. Shipping is always free.
func SummarizeCart(lines []model.CartLine) model.CartSummary {
	if lines == nil {
		lines = []model.CartLine{}
	}
	subtotal := CartTotal(lines)
	return model.CartSummary{
		Lines:     lines,
		LineCount: len(lines),
		ItemCount: CartItemCount(lines),
		Subtotal:  subtotal,
		Shipping:  decimal.Zero,
		Total:     subtotal,
	}
}
