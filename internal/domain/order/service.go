// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidStatus is returned for statuses outside the known set
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrNoItems is returned when an order has no lines
	ErrNoItems = errors.New("order has no items")
)

// Service handles order business logic
type Service struct {
	backend Backend
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService creates a new order service
func NewService(backend Backend, log logrus.FieldLogger) *Service {
	return &Service{
		backend: backend,
		log:     log.WithField("component", "orders"),
		now:     time.Now,
	}
}

// CreateResult reports the outcome of CreateOrder. Error carries the raw
// backend message when Success is false.
type CreateResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateOrder inserts o. Missing id, status, payment method and creation time
// are filled in. Failures are reported in the result rather than returned.
func (s *Service) CreateOrder(ctx context.Context, o *Order) CreateResult {
	if len(o.Items) == 0 {
		return CreateResult{Error: ErrNoItems.Error()}
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if !o.Status.Valid() {
		return CreateResult{Error: fmt.Sprintf("%s: %s", ErrInvalidStatus, o.Status)}
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentMethodCashOnDelivery
	}
	if o.PaymentMethod != PaymentMethodCashOnDelivery {
		return CreateResult{Error: fmt.Sprintf("unsupported payment method: %s", o.PaymentMethod)}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now().UTC()
	}

	if err := s.backend.Create(ctx, o); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Error("Failed to create order")
		return CreateResult{Error: err.Error()}
	}

	s.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"items":    o.ItemCount(),
		"total":    o.TotalAmount,
	}).Info("Order created")

	return CreateResult{Success: true, OrderID: o.ID}
}

// ListOrders returns every order newest first. Backend errors are logged and
// yield an empty list.
func (s *Service) ListOrders(ctx context.Context) []Order {
	orders, err := s.backend.List(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch orders")
		return []Order{}
	}
	if orders == nil {
		return []Order{}
	}
	return orders
}

// GetOrder returns a single order
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.backend.Get(ctx, id)
}

// UpdateOrderStatus sets the status of order id
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.backend.UpdateStatus(ctx, id, status); err != nil {
		s.log.WithError(err).WithField("order_id", id).Error("Failed to update order status")
		return err
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("Order status updated")
	return nil
}
