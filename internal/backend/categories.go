package backend

import (
	"context"
	"net/http"
)

const categoriesPath = "/api/categories"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoryInput struct {
	Name string `json:"name"`
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return list[Category](ctx, c, categoriesPath)
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	return call[Category](ctx, c, http.MethodPost, categoriesPath, categoryInput{Name: name})
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) (*Category, error) {
	return call[Category](ctx, c, http.MethodPut, itemPath(categoriesPath, id), categoryInput{Name: name})
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath(categoriesPath, id))
}
