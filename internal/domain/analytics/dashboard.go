// internal/domain/analytics/dashboard.go
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
)

// OrderService is the slice of the order service the dashboard needs
type OrderService interface {
	ListOrders(ctx context.Context) []order.Order
	UpdateOrderStatus(ctx context.Context, id string, status order.OrderStatus) error
}

// Dashboard keeps the last fetched order list for the admin views. Every
// view refetches it; filters and analytics run over that list in memory and
// status updates patch it in place.
type Dashboard struct {
	orders OrderService
	log    logrus.FieldLogger
	now    func() time.Time

	mu    sync.RWMutex
	cache []order.Order
}

// NewDashboard creates an empty dashboard
func NewDashboard(orders OrderService, log logrus.FieldLogger) *Dashboard {
	return &Dashboard{
		orders: orders,
		log:    log.WithField("component", "dashboard"),
		now:    time.Now,
	}
}

// Refresh refetches every order, newest first
func (d *Dashboard) Refresh(ctx context.Context) []order.Order {
	orders := d.orders.ListOrders(ctx)

	d.mu.Lock()
	d.cache = orders
	d.mu.Unlock()

	return copyOrders(orders)
}

// Orders returns the cached orders matching f
func (d *Dashboard) Orders(f Filter) []order.Order {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FilterOrders(d.cache, f, d.now())
}

// Analytics summarizes the cached orders matching f
func (d *Dashboard) Analytics(f Filter) Summary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	now := d.now()
	return Summarize(FilterOrders(d.cache, f, now), now)
}

// UpdateOrderStatus changes an order's status on the backend and, only when
// that succeeds, in the cached list
func (d *Dashboard) UpdateOrderStatus(ctx context.Context, id string, status order.OrderStatus) error {
	if err := d.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.cache {
		if d.cache[i].ID == id {
			d.cache[i].Status = status
			break
		}
	}
	return nil
}

func copyOrders(orders []order.Order) []order.Order {
	return append([]order.Order{}, orders...)
}
