// internal/domain/shop/item.go
package shop

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/your-org/toyshop-storefront/internal/domain/product"
)

// ProductSnapshot is the serializable subset of a product copied into a cart
// line at add time. Later catalog changes do not affect it.
type ProductSnapshot struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Images        []string `json:"images,omitempty"`
	Category      string   `json:"category,omitempty"`
	Collection    string   `json:"collection,omitempty"`
	IsNew         bool     `json:"is_new,omitempty"`
	IsFeatured    bool     `json:"is_featured,omitempty"`
	OnSale        bool     `json:"on_sale,omitempty"`
	StockStatus   string   `json:"stock_status,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// Snapshot clones the safe fields of p
func Snapshot(p product.Product) ProductSnapshot {
	s := ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Collection:  p.Collection,
		IsNew:       p.IsNew,
		IsFeatured:  p.IsFeatured,
		OnSale:      p.OnSale,
		StockStatus: p.StockStatus,
	}
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		s.OriginalPrice = &v
	}
	if p.Description != nil {
		v := *p.Description
		s.Description = &v
	}
	if len(p.Images) > 0 {
		s.Images = append([]string(nil), p.Images...)
	}
	return s
}

// PrimaryImage returns the first image URL, if any
func (s ProductSnapshot) PrimaryImage() string {
	if len(s.Images) == 0 {
		return ""
	}
	return s.Images[0]
}

// CustomizationKind tags the variant held by a Customization
type CustomizationKind string

const (
	KindNone     CustomizationKind = "none"
	KindTshirt   CustomizationKind = "tshirt"
	KindPochette CustomizationKind = "pochette"
)

// TshirtChoice is the T-shirt variant picked by the customer
type TshirtChoice struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Style string `json:"style,omitempty"`
	Age   string `json:"age,omitempty"`
}

// PochetteChoice is the phone model picked for a pochette
type PochetteChoice struct {
	PhoneModel string `json:"phone_model"`
}

// Customization is a tagged variant: exactly one of the choice pointers is
// set, matching Kind. The zero value means no customization.
type Customization struct {
	Kind     CustomizationKind
	Tshirt   *TshirtChoice
	Pochette *PochetteChoice
}

// NoCustomization returns the empty variant
func NoCustomization() Customization {
	return Customization{Kind: KindNone}
}

// TshirtCustomization builds a T-shirt variant
func TshirtCustomization(choice TshirtChoice) Customization {
	return Customization{Kind: KindTshirt, Tshirt: &choice}
}

// PochetteCustomization builds a pochette variant
func PochetteCustomization(phoneModel string) Customization {
	return Customization{Kind: KindPochette, Pochette: &PochetteChoice{PhoneModel: phoneModel}}
}

func (c Customization) normalized() Customization {
	if c.Kind == "" {
		c.Kind = KindNone
	}
	return c
}

// Validate checks that the payload matches the tag
func (c Customization) Validate() error {
	c = c.normalized()
	switch c.Kind {
	case KindNone:
		if c.Tshirt != nil || c.Pochette != nil {
			return fmt.Errorf("customization %q carries a payload", c.Kind)
		}
	case KindTshirt:
		if c.Tshirt == nil || c.Pochette != nil {
			return fmt.Errorf("tshirt customization requires tshirt options only")
		}
		if c.Tshirt.Size == "" || c.Tshirt.Color == "" {
			return fmt.Errorf("tshirt customization requires size and color")
		}
	case KindPochette:
		if c.Pochette == nil || c.Tshirt != nil {
			return fmt.Errorf("pochette customization requires pochette options only")
		}
		if c.Pochette.PhoneModel == "" {
			return fmt.Errorf("pochette customization requires a phone model")
		}
	default:
		return fmt.Errorf("unknown customization kind %q", c.Kind)
	}
	return nil
}

// Equal reports whether two customizations describe the same choice
func (c Customization) Equal(o Customization) bool {
	c, o = c.normalized(), o.normalized()
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindTshirt:
		return c.Tshirt != nil && o.Tshirt != nil && *c.Tshirt == *o.Tshirt
	case KindPochette:
		return c.Pochette != nil && o.Pochette != nil && *c.Pochette == *o.Pochette
	}
	return true
}

type customizationWire struct {
	Kind       CustomizationKind `json:"kind"`
	Size       string            `json:"size,omitempty"`
	Color      string            `json:"color,omitempty"`
	Style      string            `json:"style,omitempty"`
	Age        string            `json:"age,omitempty"`
	PhoneModel string            `json:"phone_model,omitempty"`
}

// MarshalJSON writes the flat tagged form, e.g. {"kind":"pochette","phone_model":"iPhone 15"}
func (c Customization) MarshalJSON() ([]byte, error) {
	c = c.normalized()
	w := customizationWire{Kind: c.Kind}
	switch {
	case c.Kind == KindTshirt && c.Tshirt != nil:
		w.Size, w.Color, w.Style, w.Age = c.Tshirt.Size, c.Tshirt.Color, c.Tshirt.Style, c.Tshirt.Age
	case c.Kind == KindPochette && c.Pochette != nil:
		w.PhoneModel = c.Pochette.PhoneModel
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat tagged form and rejects unknown tags
func (c *Customization) UnmarshalJSON(data []byte) error {
	var w customizationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Kind {
	case "", KindNone:
		*c = NoCustomization()
	case KindTshirt:
		*c = TshirtCustomization(TshirtChoice{Size: w.Size, Color: w.Color, Style: w.Style, Age: w.Age})
	case KindPochette:
		*c = PochetteCustomization(w.PhoneModel)
	default:
		return fmt.Errorf("unknown customization kind %q", w.Kind)
	}
	return c.Validate()
}

// BlindBoxSelection records the level and color picked for a blind box
type BlindBoxSelection struct {
	Level    string `json:"level"`
	Color    string `json:"color,omitempty"`
	Quantity int    `json:"quantity"`
}

func (b *BlindBoxSelection) equal(o *BlindBoxSelection) bool {
	if b == nil || o == nil {
		return b == nil && o == nil
	}
	return *b == *o
}

// CartItem is one cart line
type CartItem struct {
	Key           string             `json:"key"`
	Product       ProductSnapshot    `json:"product"`
	Quantity      int                `json:"quantity"`
	Customization Customization      `json:"customization"`
	BlindBox      *BlindBoxSelection `json:"blind_box,omitempty"`
}

// validate is the shape check applied to entries read back from storage
func (i CartItem) validate() error {
	switch {
	case i.Key == "":
		return fmt.Errorf("cart line has no key")
	case i.Product.ID == "":
		return fmt.Errorf("cart line %s has no product id", i.Key)
	case i.Product.Name == "":
		return fmt.Errorf("cart line %s has no product name", i.Key)
	case i.Product.Price < 0 || math.IsNaN(i.Product.Price) || math.IsInf(i.Product.Price, 0):
		return fmt.Errorf("cart line %s has an invalid price", i.Key)
	case i.Quantity < 1:
		return fmt.Errorf("cart line %s has quantity %d", i.Key, i.Quantity)
	case i.BlindBox != nil && (i.BlindBox.Level == "" || i.BlindBox.Quantity < 1):
		return fmt.Errorf("cart line %s has an invalid blind box selection", i.Key)
	}
	return i.Customization.Validate()
}

// ToCents converts a display price to integer cents
func ToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
