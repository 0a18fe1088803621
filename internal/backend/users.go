package backend

import (
	"context"
	"net/http"
)

const usersPath = "/api/users"

type assignFilialInput struct {
	FilialID int64 `json:"filial_id"`
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return list[User](ctx, c, usersPath)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath(usersPath, id))
}

// AssignFilial binds a staff user to a filial.
func (c *Client) AssignFilial(ctx context.Context, userID, filialID int64) (*User, error) {
	return call[User](ctx, c, http.MethodPost, itemPath(usersPath, userID)+"/assign-filial", assignFilialInput{FilialID: filialID})
}
