package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
)

func TestRenderHTML(t *testing.T) {
	cfg := &config.Config{}
	cfg.Invoice.CompanyName = "Toy Shop"
	cfg.Invoice.CompanyEmail = "hello@toyshop.tn"
	cfg.Invoice.Currency = "DT"

	svc := NewService(cfg)
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC) }

	o := &order.Order{
		ID:           "3f2a9c1e-7b44-4d0e-9a51-2c8d6e0f1a22",
		ShippingInfo: order.ShippingInfo{FullName: "Amel <Ben> Salah", Address: "12 Rue de Marseille", Phone: "22 123 456"},
		Items: []order.OrderItem{
			{ProductID: "tee", Name: "Bunny Tee", Price: 45, Quantity: 2, Customization: &order.Customization{Kind: "tshirt", Size: "M", Color: "pink"}},
			{ProductID: "bear", Name: "Sleepy Bear", Price: 19.5, Quantity: 1},
		},
		TotalAmount: 109.5,
		Status:      order.OrderStatusCompleted,
		CreatedAt:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	out, err := svc.RenderHTML(o)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "INV-3f2a9c1e")
	assert.Contains(t, html, "May 2, 2026")
	assert.Contains(t, html, "May 1, 2026")
	assert.Contains(t, html, "Amel &lt;Ben&gt; Salah")
	assert.Contains(t, html, "Size M, pink")
	assert.Contains(t, html, "90.00 DT")
	assert.Contains(t, html, "19.50 DT")
	assert.Contains(t, html, "109.50 DT")
	assert.Contains(t, html, "status-completed")
	assert.Contains(t, html, "hello@toyshop.tn")
}
