package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderService interface {
	ListOrders(ctx context.Context, profileID string) ([]model.Order, error)
	GetOrder(ctx context.Context, profileID string, orderID int64) (*model.Order, error)
}

type orderService struct {
	sessionService SessionService
}

func NewOrderService(sessionService SessionService) OrderService {
	return &orderService{sessionService: sessionService}
}

func (s *orderService) ListOrders(ctx context.Context, profileID string) ([]model.Order, error) {
	orders, err := s.sessionService.Gateway(profileID).Orders().List(ctx)
	if err != nil {
		logger.Warn("Failed to list orders", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, profileID string, orderID int64) (*model.Order, error) {
	order, err := s.sessionService.Gateway(profileID).Orders().Get(ctx, orderID)
	if err != nil {
		if shopapi.StatusCode(err) == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// orderFailureMessage is the text shown when the shop API refuses an order.
func orderFailureMessage(err error) string {
	if msg, ok := shopapi.ServerMessage(err); ok {
		return msg
	}
	if errors.Is(err, shopapi.ErrSessionExpired) {
		return "Your session has expired. Please log in again"
	}
	return "Please try again"
}
