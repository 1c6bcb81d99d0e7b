// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/analytics"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
)

// OrderReader loads a single order for the invoice
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
}

// InvoiceRenderer renders invoices as PDF or HTML
type InvoiceRenderer interface {
	GenerateInvoice(o *order.Order) (*bytes.Buffer, error)
	RenderHTML(o *order.Order) ([]byte, error)
}

// LoginRequest is the body of POST /admin/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StatusRequest is the body of PUT /admin/orders/:id/status
type StatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

// AdminHandler handles the admin dashboard endpoints
type AdminHandler struct {
	authenticator *auth.AdminAuthenticator
	dashboard     *analytics.Dashboard
	orders        OrderReader
	invoices      InvoiceRenderer
	log           logrus.FieldLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authenticator *auth.AdminAuthenticator, dashboard *analytics.Dashboard, orders OrderReader, invoices InvoiceRenderer, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		authenticator: authenticator,
		dashboard:     dashboard,
		orders:        orders,
		invoices:      invoices,
		log:           log.WithField("handler", "admin"),
	}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	session, err := h.authenticator.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrAdminDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
		})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.log.WithField("client_ip", c.ClientIP()).Warn("Failed admin login")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	case err != nil:
		h.log.WithError(err).Error("Admin login failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to log in",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"data":    session,
	})
}

// GetOrders handles GET /admin/orders?status=&range=&search=
func (h *AdminHandler) GetOrders(c *gin.Context) {
	filter, ok := h.prepare(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    h.dashboard.Orders(filter),
		"filter":  filter,
	})
}

// GetAnalytics handles GET /admin/orders/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	filter, ok := h.prepare(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Analytics retrieved successfully",
		"data":    h.dashboard.Analytics(filter),
		"filter":  filter,
	})
}

// UpdateStatus handles PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	id := c.Param("id")
	log := h.log.WithFields(logrus.Fields{"order_id": id, "status": req.Status})
	if email, ok := middleware.GetAdminEmail(c); ok {
		log = log.WithField("admin", email)
	}

	err := h.dashboard.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, order.ErrInvalidStatus):
		badRequest(c, err.Error(), nil)
		return
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	case err != nil:
		log.WithError(err).Warn("Order status update failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	log.Info("Order status updated")
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data": gin.H{
			"id":     id,
			"status": req.Status,
		},
	})
}

// GetInvoice handles GET /admin/orders/:id/invoice. format=html returns the
// printable page instead of the PDF.
func (h *AdminHandler) GetInvoice(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	if c.Query("format") == "html" {
		page, err := h.invoices.RenderHTML(o)
		if err != nil {
			h.log.WithError(err).WithField("order_id", o.ID).Error("Failed to render invoice")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to generate invoice",
			})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	pdfBuffer, err := h.invoices.GenerateInvoice(o)
	if err != nil {
		h.log.WithError(err).WithField("order_id", o.ID).Error("Failed to generate invoice")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	// Set headers for PDF download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.ShortID()))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// prepare binds the filter and refetches the order list
func (h *AdminHandler) prepare(c *gin.Context) (analytics.Filter, bool) {
	var filter analytics.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return filter, false
	}
	filter = filter.Normalize()

	if !filter.Range.Valid() {
		badRequest(c, fmt.Sprintf("unknown range %q", filter.Range), nil)
		return filter, false
	}
	if filter.Status != "" && !filter.Status.Valid() {
		badRequest(c, fmt.Sprintf("unknown status %q", filter.Status), nil)
		return filter, false
	}

	h.dashboard.Refresh(c.Request.Context())
	return filter, true
}
