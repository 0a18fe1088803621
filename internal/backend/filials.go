package backend

import (
	"context"
	"net/http"
)

const filialsPath = "/api/filials"

// Filial is a restaurant branch.
type Filial struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type FilialInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (c *Client) ListFilials(ctx context.Context) ([]Filial, error) {
	return list[Filial](ctx, c, filialsPath)
}

func (c *Client) CreateFilial(ctx context.Context, in FilialInput) (*Filial, error) {
	return call[Filial](ctx, c, http.MethodPost, filialsPath, in)
}

func (c *Client) UpdateFilial(ctx context.Context, id int64, in FilialInput) (*Filial, error) {
	return call[Filial](ctx, c, http.MethodPut, itemPath(filialsPath, id), in)
}

func (c *Client) DeleteFilial(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath(filialsPath, id))
}
