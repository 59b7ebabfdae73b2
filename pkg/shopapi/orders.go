package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ikkim/storefront/internal/app/model"
)

type OrdersAPI struct {
	c *Client
}

func (c *Client) Orders() *OrdersAPI {
	return &OrdersAPI{c: c}
}

func (o *OrdersAPI) Create(ctx context.Context, input model.OrderInput) (*model.Order, error) {
	var order model.Order
	if err := o.c.Do(ctx, http.MethodPost, "/orders/", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns the caller's orders, newest first.
func (o *OrdersAPI) List(ctx context.Context) ([]model.Order, error) {
	orders := []model.Order{}
	if err := o.c.Do(ctx, http.MethodGet, "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *OrdersAPI) Get(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := o.c.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus is staff only on the server side.
func (o *OrdersAPI) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	var order model.Order
	err := o.c.Do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/update_status/", id), map[string]string{
		"status": string(status),
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
