package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ikkim/storefront/internal/app/model"
)

type ProductsAPI struct {
	c *Client
}

func (c *Client) Products() *ProductsAPI {
	return &ProductsAPI{c: c}
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d/", id)
}

func (p *ProductsAPI) List(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := p.c.Do(ctx, http.MethodGet, "/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *ProductsAPI) Get(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := p.c.Do(ctx, http.MethodGet, productPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductsAPI) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	var product model.Product
	if err := p.c.Do(ctx, http.MethodPost, "/products/", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductsAPI) Update(ctx context.Context, id int64, input model.ProductInput) (*model.Product, error) {
	var product model.Product
	if err := p.c.Do(ctx, http.MethodPut, productPath(id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductsAPI) Delete(ctx context.Context, id int64) error {
	return p.c.Do(ctx, http.MethodDelete, productPath(id), nil, nil)
}
