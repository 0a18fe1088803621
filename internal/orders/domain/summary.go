package domain

import "time"

// DefaultRecentOrders is how many orders the dashboard lists as recent.
const DefaultRecentOrders = 5

// Summary aggregates the dashboard figures for an order list.
type Summary struct {
	Total   int     `json:"total"`
	Today   int     `json:"today"`
	Active  int     `json:"active"`
	Revenue float64 `json:"revenue"`
	Recent  []Order `json:"recent"`
}

// Summarize counts the orders created on now's calendar day and keeps the
// first recent orders in list order. Orders with an unparseable creation
// timestamp are not counted as today's. Active counts orders still with the
// printer; Revenue sums every order's total regardless of status.
func Summarize(orders []Order, now time.Time, recent int) Summary {
	if recent <= 0 {
		recent = DefaultRecentOrders
	}

	today := startOfDay(now)
	s := Summary{Total: len(orders)}
	for _, o := range orders {
		s.Revenue += o.Total
		if o.Status == StatusSentToPrinter {
			s.Active++
		}
		created, ok := o.CreatedAt(now.Location())
		if ok && startOfDay(created).Equal(today) {
			s.Today++
		}
	}

	if recent > len(orders) {
		recent = len(orders)
	}
	s.Recent = make([]Order, recent)
	copy(s.Recent, orders[:recent])

	return s
}
