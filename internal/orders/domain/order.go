package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle tag the backend attaches to an order.
type Status string

const (
	StatusSentToPrinter Status = "sent_to_printer"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
	StatusPrintError    Status = "print_error"
)

var statusLabels = map[Status]string{
	StatusSentToPrinter: "Yuborildi",
	StatusCompleted:     "Tugallandi",
	StatusCancelled:     "Bekor qilindi",
	StatusPrintError:    "Print xatosi",
}

// KnownStatuses lists the selectable statuses in display order.
func KnownStatuses() []Status {
	return []Status{StatusSentToPrinter, StatusCompleted, StatusCancelled, StatusPrintError}
}

// Label returns the operator-facing badge text. Unknown statuses are shown verbatim.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsKnown reports whether s is one of the statuses the backend documents.
func (s Status) IsKnown() bool {
	_, ok := statusLabels[s]
	return ok
}

// Item is a single order line.
type Item struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is an order as listed by the backend. Code is the human-readable
// identifier that also carries the order's creation date.
type Order struct {
	ID         int64   `json:"id"`
	Code       string  `json:"order_id"`
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	FilialID   int64   `json:"filial_id"`
	FilialName string  `json:"filial_name"`
	Items      []Item  `json:"items"`
	Total      float64 `json:"total"`
	Status     Status  `json:"status"`
	Created    string  `json:"created"`
	Updated    string  `json:"updated"`
}

var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedAt parses the backend's creation timestamp. Timestamps without a
// zone are read in loc.
func (o Order) CreatedAt(loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(o.Created)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// DraftItem requests count units of a product.
type DraftItem struct {
	ProductID int64 `json:"product_id"`
	Count     int   `json:"count"`
}

// OrderDraft is the payload for placing a new order on behalf of a customer.
type OrderDraft struct {
	Username string      `json:"username"`
	Filial   string      `json:"filial"`
	Items    []DraftItem `json:"items"`
}

var (
	ErrCustomerRequired = errors.New("username is required")
	ErrNoItems          = errors.New("Kamida bitta mahsulot tanlang")
)

// Validate ensures the draft names a customer and at least one positive line.
// Lines with a non-positive count are dropped.
func (d OrderDraft) Validate() (OrderDraft, error) {
	if strings.TrimSpace(d.Username) == "" {
		return OrderDraft{}, ErrCustomerRequired
	}

	items := make([]DraftItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Count > 0 {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return OrderDraft{}, ErrNoItems
	}

	d.Items = items
	return d, nil
}
