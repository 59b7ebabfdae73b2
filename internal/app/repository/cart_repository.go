package repository

import (
	"context"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/logger"
)

// CartRepository persists a profile's cart as one JSON array under the
// "cart" key.
type CartRepository interface {
	FindByProfile(ctx context.Context, profileID string) ([]model.CartLine, error)
	Save(ctx context.Context, profileID string, lines []model.CartLine) error
	DeleteByProfile(ctx context.Context, profileID string) error
}

type cartRepository struct {
	stores storage.Provider
}

func NewCartRepository(stores storage.Provider) CartRepository {
	return &cartRepository{stores: stores}
}

// FindByProfile never fails on stored content: a missing or malformed cart
// reads as empty. Only storage errors are returned.
func (r *cartRepository) FindByProfile(ctx context.Context, profileID string) ([]model.CartLine, error) {
	raw, ok, err := r.stores.ForProfile(profileID).Get(ctx, storage.KeyCart)
	if err != nil {
		logger.Error("Failed to read cart from storage", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return nil, err
	}

	lines := []model.CartLine{}
	if !ok || !storage.DecodeValue(storage.KeyCart, raw, &lines) || lines == nil {
		return []model.CartLine{}, nil
	}

	valid, dropped := normalizeCart(lines)
	if dropped > 0 {
		logger.Warn("Repaired stored cart", map[string]interface{}{
			"profile_id": profileID,
			"dropped":    dropped,
		})
	}
	return valid, nil
}

// normalizeCart drops lines no cart operation could have produced and folds
// repeated product ids into the first line for that id.
func normalizeCart(lines []model.CartLine) ([]model.CartLine, int) {
	valid := make([]model.CartLine, 0, len(lines))
	index := make(map[int64]int, len(lines))
	dropped := 0
	for _, line := range lines {
		if line.ID <= 0 || line.Quantity < 1 || line.Price.IsNegative() {
			dropped++
			continue
		}
		if i, seen := index[line.ID]; seen {
			valid[i].Quantity += line.Quantity
			dropped++
			continue
		}
		index[line.ID] = len(valid)
		valid = append(valid, line)
	}
	return valid, dropped
}

func (r *cartRepository) Save(ctx context.Context, profileID string, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	raw, err := storage.EncodeJSON(lines)
	if err != nil {
		return err
	}

	if err := r.stores.ForProfile(profileID).Set(ctx, storage.KeyCart, raw); err != nil {
		logger.Error("Failed to write cart to storage", err, map[string]interface{}{
			"profile_id": profileID,
			"lines":      len(lines),
		})
		return err
	}

	logger.Debug("Cart written to storage", map[string]interface{}{
		"profile_id": profileID,
		"lines":      len(lines),
	})
	return nil
}

func (r *cartRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	if err := r.stores.ForProfile(profileID).Remove(ctx, storage.KeyCart); err != nil {
		logger.Error("Failed to remove cart from storage", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return err
	}
	return nil
}
