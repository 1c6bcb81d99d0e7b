// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/checkout"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
	sessions *shop.Sessions
	cookie   SessionCookie
	log      logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service, sessions *shop.Sessions, cookie SessionCookie, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		sessions: sessions,
		cookie:   cookie,
		log:      log.WithField("handler", "checkout"),
	}
}

// GetCheckout handles GET /checkout: the lines that would be ordered, the
// payment methods and the state of the last submission
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	sessionID := h.cookie.ID(c)
	store := h.sessions.Open(c.Request.Context(), sessionID)
	flow := h.checkout.Flow(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout summary retrieved successfully",
		"data": gin.H{
			"summary":    h.checkout.Summary(store),
			"state":      flow.State(),
			"form":       flow.Form(),
			"last_error": flow.LastError(),
			"order_id":   flow.OrderID(),
		},
	})
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	sessionID := h.cookie.ID(c)
	store := h.sessions.Open(c.Request.Context(), sessionID)

	result, err := h.checkout.Submit(c.Request.Context(), sessionID, store, form)
	if err != nil {
		h.writeError(c, err)
		return
	}

	body := gin.H{
		"message": "Order placed successfully",
		"data":    result,
		"cart":    cartView(store),
	}
	if result.Warning != "" {
		body["warning"] = result.Warning
	}
	c.JSON(http.StatusCreated, body)
}

func (h *CheckoutHandler) writeError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	var orderErr *checkout.OrderError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Please fill in all required fields",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, checkout.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.As(err, &orderErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": orderErr.Message,
		})
	default:
		h.log.WithError(err).Error("Checkout failed unexpectedly")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
	}
}
