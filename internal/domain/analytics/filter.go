// internal/domain/analytics/filter.go
package analytics

import (
	"strings"
	"time"

	"github.com/your-org/toyshop-storefront/internal/domain/order"
)

// Range is a creation-date bucket for the order list
type Range string

const (
	RangeAll       Range = ""
	RangeToday     Range = "today"
	RangeYesterday Range = "yesterday"
	RangeLast7     Range = "last7"
	RangeLast30    Range = "last30"
	RangeThisMonth Range = "thisMonth"
	RangeLastMonth Range = "lastMonth"
)

// Valid reports whether r is a known range
func (r Range) Valid() bool {
	switch r {
	case RangeAll, RangeToday, RangeYesterday, RangeLast7, RangeLast30, RangeThisMonth, RangeLastMonth:
		return true
	}
	return false
}

// Bounds returns the [from, to) window of r relative to now. A zero to means
// no upper bound; ok is false for RangeAll.
func (r Range) Bounds(now time.Time) (from, to time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch r {
	case RangeToday:
		return midnight, time.Time{}, true
	case RangeYesterday:
		return midnight.AddDate(0, 0, -1), midnight, true
	case RangeLast7:
		return midnight.AddDate(0, 0, -7), time.Time{}, true
	case RangeLast30:
		return midnight.AddDate(0, 0, -30), time.Time{}, true
	case RangeThisMonth:
		return firstOfMonth, time.Time{}, true
	case RangeLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth, true
	}
	return time.Time{}, time.Time{}, false
}

// Filter narrows the admin order list. Empty fields match everything.
type Filter struct {
	Status order.OrderStatus `form:"status" json:"status,omitempty"`
	Range  Range             `form:"range" json:"range,omitempty"`
	Search string            `form:"search" json:"search,omitempty"`
}

// Normalize maps the "all" spelling used by the dashboard tabs to empty
func (f Filter) Normalize() Filter {
	if strings.EqualFold(string(f.Status), "all") {
		f.Status = ""
	}
	if strings.EqualFold(string(f.Range), "all") {
		f.Range = RangeAll
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// FilterOrders returns the orders matching f, keeping their order
func FilterOrders(orders []order.Order, f Filter, now time.Time) []order.Order {
	f = f.Normalize()
	from, to, bounded := f.Range.Bounds(now)
	search := strings.ToLower(f.Search)

	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if bounded {
			if o.CreatedAt.Before(from) {
				continue
			}
			if !to.IsZero() && !o.CreatedAt.Before(to) {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.ID), search) &&
			!strings.Contains(strings.ToLower(o.ShippingInfo.FullName), search) {
			continue
		}
		out = append(out, o)
	}
	return out
}
