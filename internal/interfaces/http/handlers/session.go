// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
)

// SessionCookie issues and reads the anonymous visitor session cookie
type SessionCookie struct {
	Name   string
	MaxAge int
	Secure bool
}

// NewSessionCookie builds the cookie settings from configuration
func NewSessionCookie(cfg *config.Config) SessionCookie {
	return SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.CookieMaxAge,
		Secure: cfg.IsProduction(),
	}
}

// ID returns the visitor's session id, issuing a new cookie when the request
// has none or carries something that is not a uuid
func (s SessionCookie) ID(c *gin.Context) string {
	if raw, err := c.Cookie(s.Name); err == nil {
		if id, err := uuid.Parse(raw); err == nil {
			s.set(c, id.String())
			return id.String()
		}
	}

	id := uuid.NewString()
	s.set(c, id)
	return id
}

func (s SessionCookie) set(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, id, s.MaxAge, "/", "", s.Secure, true)
}

// respond writes the message/data envelope. A persistence failure is not
// fatal: the updated state is returned with a warning.
func respond(c *gin.Context, log logrus.FieldLogger, status int, message string, data any, err error) {
	body := gin.H{
		"message": message,
		"data":    data,
	}
	if err != nil {
		log.WithError(err).Warn("Shop state could not be saved")
		body["warning"] = err.Error()
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
