package backend

import (
	"context"
	"net/http"
)

// User is a staff account. Admins manage every filial; other users are bound
// to the filial they were assigned.
type User struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	IsAdmin bool    `json:"is_admin"`
	Filial  *Filial `json:"filial,omitempty"`
}

type Credentials struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResult is what the backend returns for a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	return call[LoginResult](ctx, c.WithToken(StaticToken("")), http.MethodPost, "/api/login", creds)
}

func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	return call[User](ctx, c, http.MethodPost, "/api/register", reg)
}
