package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dejobratic/restoadmin/internal/backend"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   string
}

// fakeBackend answers every request with status and body and records what it saw.
func fakeBackend(t *testing.T, status int, body string) (*backend.Client, *[]recordedRequest) {
	t.Helper()

	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   string(b),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := backend.NewClient(srv.URL,
		backend.WithHTTPClient(srv.Client()),
		backend.WithTokenSource(backend.StaticToken("secret")),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, &seen
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := backend.NewClient("/api"); err == nil {
		t.Fatal("expected an error for a relative base url")
	}
}

func TestListOrders(t *testing.T) {
	c, seen := fakeBackend(t, http.StatusOK, `{
		"success": true,
		"data": [
			{"id": 2, "order_id": "25-03-07-002", "username": "Ali", "status": "completed", "total": 42000},
			{"id": 1, "order_id": "25-03-07-001", "username": "Vali", "status": "sent_to_printer"}
		]
	}`)

	got, err := c.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}

	want := []domain.Order{
		{ID: 2, Code: "25-03-07-002", Username: "Ali", Status: domain.StatusCompleted, Total: 42000},
		{ID: 1, Code: "25-03-07-001", Username: "Vali", Status: domain.StatusSentToPrinter},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListOrders() mismatch (-want +got):\n%s", diff)
	}

	req := (*seen)[0]
	if req.method != http.MethodGet || req.path != "/api/orderslist" {
		t.Errorf("request = %s %s, want GET /api/orderslist", req.method, req.path)
	}
	if req.auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", req.auth)
	}
}

func TestListOrdersNonArrayDataIsEmpty(t *testing.T) {
	c, _ := fakeBackend(t, http.StatusOK, `{"success": true, "data": {"data": []}}`)

	got, err := c.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListOrders() = %#v, want empty non-nil slice", got)
	}
}

func TestListAllProductsAcceptsBareArray(t *testing.T) {
	c, seen := fakeBackend(t, http.StatusOK, `[{"id": 7, "name": "Osh", "category_id": 1, "filials": [1, 2]}]`)

	got, err := c.ListAllProducts(context.Background())
	if err != nil {
		t.Fatalf("ListAllProducts() error = %v", err)
	}

	want := []backend.Product{{ID: 7, Name: "Osh", CategoryID: 1, Filials: []int64{1, 2}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListAllProducts() mismatch (-want +got):\n%s", diff)
	}
	if (*seen)[0].path != "/api/products/all" {
		t.Errorf("path = %q", (*seen)[0].path)
	}
}

func TestCreateOrderSendsDraft(t *testing.T) {
	c, seen := fakeBackend(t, http.StatusCreated, `{
		"success": true,
		"message": "ok",
		"data": {"id": 9, "order_id": "25-03-07-009", "username": "Ali", "filial_id": 3, "status": "sent_to_printer"}
	}`)

	draft := domain.OrderDraft{
		Username: "Ali",
		Filial:   "Chilonzor",
		Items:    []domain.DraftItem{{ProductID: 7, Count: 2}},
	}
	got, err := c.CreateOrder(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if got.Code != "25-03-07-009" || got.FilialID != 3 {
		t.Errorf("CreateOrder() = %+v", got)
	}

	req := (*seen)[0]
	if req.method != http.MethodPost || req.path != "/api/orders" {
		t.Errorf("request = %s %s, want POST /api/orders", req.method, req.path)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(req.body), &sent); err != nil {
		t.Fatalf("request body is not json: %v", err)
	}
	wantBody := map[string]any{
		"username": "Ali",
		"filial":   "Chilonzor",
		"items":    []any{map[string]any{"product_id": float64(7), "count": float64(2)}},
	}
	if diff := cmp.Diff(wantBody, sent); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestBackendFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantUnauth  bool
	}{
		{"success false", http.StatusOK, `{"success": false, "message": "Mahsulot topilmadi"}`, "Mahsulot topilmadi", false},
		{"error status without message", http.StatusInternalServerError, `{}`, backend.DefaultErrorMessage, false},
		{"non json error", http.StatusBadGateway, `<html>bad gateway</html>`, backend.DefaultErrorMessage, false},
		{"unauthorized", http.StatusUnauthorized, `{"success": false, "message": "Token yaroqsiz"}`, "Token yaroqsiz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := fakeBackend(t, tt.status, tt.body)

			_, err := c.ListFilials(context.Background())

			var apiErr *backend.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if got := backend.Message(err); got != tt.wantMessage {
				t.Errorf("Message() = %q, want %q", got, tt.wantMessage)
			}
			if errors.Is(err, backend.ErrUnauthorized) != tt.wantUnauth {
				t.Errorf("errors.Is(ErrUnauthorized) = %v, want %v", !tt.wantUnauth, tt.wantUnauth)
			}
		})
	}
}

func TestMessageForTransportError(t *testing.T) {
	if got := backend.Message(errors.New("dial tcp: refused")); got != backend.DefaultErrorMessage {
		t.Errorf("Message() = %q", got)
	}
}

func TestLoginSendsNoToken(t *testing.T) {
	c, seen := fakeBackend(t, http.StatusOK, `{
		"success": true,
		"data": {"token": "abc", "user": {"id": 1, "name": "Admin", "phone": "998901234567", "is_admin": true}}
	}`)

	got, err := c.Login(context.Background(), backend.Credentials{Phone: "998901234567", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got.Token != "abc" || !got.User.IsAdmin {
		t.Errorf("Login() = %+v", got)
	}
	if auth := (*seen)[0].auth; auth != "" {
		t.Errorf("login sent Authorization %q, want none", auth)
	}
}

func TestResourceRoutes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func(c *backend.Client) error
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name:       "create filial",
			call:       func(c *backend.Client) error { _, err := c.CreateFilial(ctx, backend.FilialInput{Name: "Chilonzor", Location: "Toshkent"}); return err },
			wantMethod: http.MethodPost,
			wantPath:   "/api/filials",
			wantBody:   `{"name":"Chilonzor","location":"Toshkent"}`,
		},
		{
			name:       "update category",
			call:       func(c *backend.Client) error { _, err := c.UpdateCategory(ctx, 4, "Ichimliklar"); return err },
			wantMethod: http.MethodPut,
			wantPath:   "/api/categories/4",
			wantBody:   `{"name":"Ichimliklar"}`,
		},
		{
			name:       "delete product",
			call:       func(c *backend.Client) error { return c.DeleteProduct(ctx, 12) },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/products/12",
		},
		{
			name:       "assign filial",
			call:       func(c *backend.Client) error { _, err := c.AssignFilial(ctx, 5, 2); return err },
			wantMethod: http.MethodPost,
			wantPath:   "/api/users/5/assign-filial",
			wantBody:   `{"filial_id":2}`,
		},
		{
			name:       "delete user",
			call:       func(c *backend.Client) error { return c.DeleteUser(ctx, 5) },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/users/5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, seen := fakeBackend(t, http.StatusOK, `{"success": true, "data": {}}`)

			if err := tt.call(c); err != nil {
				t.Fatalf("call error = %v", err)
			}

			req := (*seen)[0]
			if req.method != tt.wantMethod || req.path != tt.wantPath {
				t.Errorf("request = %s %s, want %s %s", req.method, req.path, tt.wantMethod, tt.wantPath)
			}
			if req.body != tt.wantBody {
				t.Errorf("body = %s, want %s", req.body, tt.wantBody)
			}
		})
	}
}
