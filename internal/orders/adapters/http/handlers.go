package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dejobratic/restoadmin/internal/backend"
	"github.com/dejobratic/restoadmin/internal/orders/app"
	"github.com/dejobratic/restoadmin/internal/orders/app/queries"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

const (
	orderCreatedMessage = "Buyurtma muvaffaqiyatli yaratildi"
	networkErrorMessage = "Tarmoq xatosi"
)

// Handler exposes HTTP endpoints over the order snapshot.
type Handler struct {
	service *app.Service
	logger  *slog.Logger
}

func NewHandler(service *app.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register binds the order handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/orders", h.handleOrders)
	mux.HandleFunc("POST /v1/orders/refresh", h.refresh)
	mux.HandleFunc("GET /v1/dashboard", h.dashboard)
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createOrder(w, r)
	case http.MethodGet:
		h.listOrders(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type ordersResponse struct {
	Orders      []domain.Order      `json:"orders"`
	Total       int                 `json:"total"`
	Status      domain.StatusFilter `json:"status"`
	Date        domain.DateFilter   `json:"date"`
	RefreshedAt *time.Time          `json:"refreshed_at,omitempty"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := queries.ParseSelection(q.Get("status"), q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	visible, err := h.service.Visible(r.Context(), sel, h.service.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ordersResponse{
		Orders: visible.Orders,
		Total:  visible.Total,
		Status: visible.Selection.Status,
		Date:   visible.Selection.Date,
	}
	if !visible.RefreshedAt.IsZero() {
		resp.RefreshedAt = &visible.RefreshedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var payload app.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.CreateOrder(ctx, payload)
	if order == nil {
		writeError(w, http.StatusBadRequest, createErrorMessage(err))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "order created with follow-up failure",
			"order_code", order.Code,
			"error", err,
		)
	}

	body, err := json.Marshal(map[string]any{
		"order":   order,
		"message": orderCreatedMessage,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			OrderCode:  order.Code,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			h.logger.ErrorContext(ctx, "failed to store idempotent response",
				"error", err,
				"order_code", order.Code,
			)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

// createErrorMessage picks what the operator sees for a failed create.
func createErrorMessage(err error) string {
	if errors.Is(err, domain.ErrCustomerRequired) || errors.Is(err, domain.ErrNoItems) {
		return err.Error()
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return networkErrorMessage
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), h.service.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
