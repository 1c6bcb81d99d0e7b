// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
)

var (
	// ErrEmptyCart blocks submission when there is nothing to check out
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitInProgress is returned for a second submit while one is running
	ErrSubmitInProgress = errors.New("checkout already in progress")
)

// ValidationError lists the required shipping fields left blank
type ValidationError struct {
	Fields []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// OrderError carries the backend's message for a rejected order
type OrderError struct {
	Message string
}

func (e *OrderError) Error() string { return e.Message }

// Form is the shipping form submitted at checkout
type Form struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	City     string `json:"city,omitempty"`
	Email    string `json:"email,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Validate checks the required fields
func (f Form) Validate() error {
	var missing []string
	if strings.TrimSpace(f.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(f.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(f.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func (f Form) shippingInfo() order.ShippingInfo {
	return order.ShippingInfo{
		FullName: strings.TrimSpace(f.FullName),
		Address:  strings.TrimSpace(f.Address),
		Phone:    strings.TrimSpace(f.Phone),
		City:     strings.TrimSpace(f.City),
		Email:    strings.TrimSpace(f.Email),
		Notes:    strings.TrimSpace(f.Notes),
	}
}

// OrderCreator places orders on the backend
type OrderCreator interface {
	CreateOrder(ctx context.Context, o *order.Order) order.CreateResult
}

// PaymentMethod represents a payment option
type PaymentMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// Summary is what the checkout page shows before submission
type Summary struct {
	Items          []shop.CartItem `json:"items"`
	ItemCount      int             `json:"item_count"`
	Subtotal       float64         `json:"subtotal"`
	WholeCart      bool            `json:"whole_cart"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

// Result is a successful submission
type Result struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
	// Warning is set when the cart could not be saved after the order went through
	Warning string `json:"warning,omitempty"`
}

// Service runs checkout flows, one per session
type Service struct {
	orders OrderCreator
	log    logrus.FieldLogger

	mu    sync.Mutex
	flows map[string]*Flow
}

// NewService creates a new checkout service
func NewService(orders OrderCreator, log logrus.FieldLogger) *Service {
	return &Service{
		orders: orders,
		log:    log.WithField("component", "checkout"),
		flows:  make(map[string]*Flow),
	}
}

// Flow returns the flow of sessionID, creating it in Idle
func (s *Service) Flow(sessionID string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[sessionID]
	if !ok {
		f = newFlow()
		s.flows[sessionID] = f
	}
	return f
}

// Forget drops the flow of sessionID
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.flows, sessionID)
	s.mu.Unlock()
}

// Summary returns the lines that would be checked out and their subtotal
func (s *Service) Summary(store *shop.Store) Summary {
	items, whole := store.CheckoutItems()
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return Summary{
		Items:          items,
		ItemCount:      count,
		Subtotal:       Subtotal(items),
		WholeCart:      whole,
		PaymentMethods: paymentMethods(),
	}
}

// Submit validates form, places the order for the selected lines (or the
// whole cart) and, on success, removes exactly those lines from the cart.
func (s *Service) Submit(ctx context.Context, sessionID string, store *shop.Store, form Form) (*Result, error) {
	flow := s.Flow(sessionID)
	if err := flow.begin(form); err != nil {
		return nil, err
	}

	items, _ := store.CheckoutItems()
	if len(items) == 0 {
		flow.reject(ErrEmptyCart.Error())
		return nil, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		flow.reject(err.Error())
		return nil, err
	}

	flow.submitting()

	o := buildOrder(items, form)
	result := s.orders.CreateOrder(ctx, o)
	if !result.Success {
		flow.fail(result.Error)
		s.log.WithField("session_id", sessionID).WithField("error", result.Error).Warn("Checkout failed")
		return nil, &OrderError{Message: result.Error}
	}

	out := &Result{OrderID: result.OrderID, Total: o.TotalAmount}

	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	// Lines added while the order was in flight stay in the cart
	if err := store.RemoveLines(ctx, keys); err != nil {
		s.log.WithError(err).WithField("order_id", result.OrderID).Warn("Order placed but cart could not be saved")
		out.Warning = err.Error()
	}
	store.ClearSelectedCartItems()
	flow.succeed(result.OrderID)

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   result.OrderID,
		"lines":      len(items),
	}).Info("Checkout completed")

	return out, nil
}

// Subtotal sums price × quantity over items, in cents to avoid float drift
func Subtotal(items []shop.CartItem) float64 {
	var cents int64
	for _, item := range items {
		cents += shop.ToCents(item.Product.Price) * int64(item.Quantity)
	}
	return float64(cents) / 100
}

func buildOrder(items []shop.CartItem, form Form) *order.Order {
	lines := make([]order.OrderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, order.OrderItem{
			ProductID:     item.Product.ID,
			Name:          item.Product.Name,
			Image:         item.Product.PrimaryImage(),
			Price:         item.Product.Price,
			Quantity:      item.Quantity,
			Customization: customizationOf(item),
		})
	}

	return &order.Order{
		ShippingInfo:  form.shippingInfo(),
		Items:         lines,
		TotalAmount:   Subtotal(items),
		PaymentMethod: order.PaymentMethodCashOnDelivery,
		Status:        order.OrderStatusPending,
	}
}

func customizationOf(item shop.CartItem) *order.Customization {
	c := item.Customization
	var out *order.Customization

	switch c.Kind {
	case shop.KindTshirt:
		if c.Tshirt != nil {
			out = &order.Customization{
				Kind:  string(shop.KindTshirt),
				Size:  c.Tshirt.Size,
				Color: c.Tshirt.Color,
				Style: c.Tshirt.Style,
				Age:   c.Tshirt.Age,
			}
		}
	case shop.KindPochette:
		if c.Pochette != nil {
			out = &order.Customization{Kind: string(shop.KindPochette), PhoneModel: c.Pochette.PhoneModel}
		}
	}

	if bb := item.BlindBox; bb != nil {
		if out == nil {
			out = &order.Customization{Kind: "blindbox"}
		}
		out.BlindBoxLevel = bb.Level
		out.BlindBoxColor = bb.Color
	}
	return out
}

func paymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{
			ID:          order.PaymentMethodCashOnDelivery,
			Name:        "Cash on delivery",
			Description: "Pay when your order arrives",
			Available:   true,
		},
	}
}
