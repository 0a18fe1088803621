package backend

import (
	"context"
	"net/http"
)

const productsPath = "/api/products"

// Product is sold in the filials listed in Filials.
type Product struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	CategoryID   int64    `json:"category_id"`
	CategoryName string   `json:"category_name,omitempty"`
	Filials      []int64  `json:"filials"`
	FilialNames  []string `json:"filial_names,omitempty"`
}

type ProductInput struct {
	Name       string  `json:"name"`
	CategoryID int64   `json:"category_id"`
	Filials    []int64 `json:"filials"`
}

// ListProducts returns the products visible to the current user.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c, productsPath)
}

// ListAllProducts returns every product regardless of filial.
func (c *Client) ListAllProducts(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c, productsPath+"/all")
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	return call[Product](ctx, c, http.MethodPost, productsPath, in)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	return call[Product](ctx, c, http.MethodPut, itemPath(productsPath, id), in)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath(productsPath, id))
}
