// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Statuses lists every status in display order
var Statuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethodCashOnDelivery is the only supported payment method
const PaymentMethodCashOnDelivery = "cash_on_delivery"

// Order represents an order row. Shipping info and items are stored as JSON
// columns on the backend.
type Order struct {
	ID            string       `gorm:"primaryKey;size:64" json:"id"`
	ShippingInfo  ShippingInfo `gorm:"serializer:json;type:jsonb;not null" json:"shipping_info"`
	Items         []OrderItem  `gorm:"serializer:json;type:jsonb;not null" json:"items"`
	TotalAmount   float64      `gorm:"not null" json:"total_amount"`
	PaymentMethod string       `gorm:"size:50;not null;default:'cash_on_delivery'" json:"payment_method"`
	Status        OrderStatus  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time    `gorm:"index" json:"created_at"`
}

// ShippingInfo is the delivery block entered at checkout
type ShippingInfo struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	City     string `json:"city,omitempty"`
	Email    string `json:"email,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// OrderItem is one ordered line, copied from the cart at submission
type OrderItem struct {
	ProductID     string         `json:"product_id"`
	Name          string         `json:"name"`
	Image         string         `json:"image,omitempty"`
	Price         float64        `json:"price"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization,omitempty"`
}

// Customization records the options picked for a line
type Customization struct {
	Kind          string `json:"kind"`
	Size          string `json:"size,omitempty"`
	Color         string `json:"color,omitempty"`
	Style         string `json:"style,omitempty"`
	Age           string `json:"age,omitempty"`
	PhoneModel    string `json:"phone_model,omitempty"`
	BlindBoxLevel string `json:"blind_box_level,omitempty"`
	BlindBoxColor string `json:"blind_box_color,omitempty"`
}

// TableName overrides
func (Order) TableName() string { return "orders" }

// Describe renders the customization for invoices and listings
func (c *Customization) Describe() string {
	if c == nil {
		return ""
	}
	switch c.Kind {
	case "tshirt":
		s := fmt.Sprintf("Size %s, %s", c.Size, c.Color)
		if c.Style != "" {
			s += ", " + c.Style
		}
		if c.Age != "" {
			s += ", age " + c.Age
		}
		return s
	case "pochette":
		return "Phone: " + c.PhoneModel
	case "blindbox":
		if c.BlindBoxColor != "" {
			return fmt.Sprintf("Level %s, %s", c.BlindBoxLevel, c.BlindBoxColor)
		}
		return "Level " + c.BlindBoxLevel
	}
	return ""
}

// LineTotal returns price × quantity
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ShortID returns the first 8 characters of the id, as shown to customers
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// CountsTowardsRevenue reports whether the order contributes to revenue
func (o *Order) CountsTowardsRevenue() bool {
	return o.Status != OrderStatusCancelled
}
