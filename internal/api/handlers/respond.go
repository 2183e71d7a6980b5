package handlers

import (
	"errors"
	"net/http"

	"storefront/internal/api/middleware"
	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/payment"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
)

// Local validation failures and the status they answer with.
var clientErrors = []struct {
	err    error
	status int
}{
	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{cart.ErrEmptyCart, http.StatusBadRequest},
	{cart.ErrUnknownLine, http.StatusNotFound},
	{payment.ErrUnknownMethod, http.StatusBadRequest},
	{payment.ErrInvalidAmount, http.StatusBadRequest},
	{payment.ErrInvalidPhone, http.StatusBadRequest},
	{payment.ErrDuplicateSubmission, http.StatusConflict},
	{checkout.ErrUnknownTab, http.StatusBadRequest},
	{checkout.ErrAlreadyPaid, http.StatusConflict},
}

// respondError writes err as {"error": message}.
func respondError(c *gin.Context, err error, fallback string) {
	status, message := errorResponse(err, fallback)
	c.JSON(status, gin.H{"error": message})
}

// errorResponse maps err onto a status and the message shown to the
// shopper. Origin errors keep their 4xx status; anything the origin failed
// on becomes 502.
func errorResponse(err error, fallback string) (int, string) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ce.status, ce.err.Error()
		}
	}

	if errors.Is(err, cart.ErrLoginRequired) {
		return http.StatusUnauthorized, cart.LoginRequiredMessage
	}

	status := http.StatusInternalServerError
	var apiErr *backend.APIError
	var transportErr *backend.TransportError
	switch {
	case errors.Is(err, backend.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
	}
	return status, backend.UserMessage(err, fallback)
}

// sessions resolves the request's session and ends it when the origin
// rejects its token.
type sessions struct {
	manager *session.Manager
	config  *config.Config
	logger  *logger.Logger

	// loginMessage replaces the generic 401 text when set.
	loginMessage string
}

// token returns the session id and bearer token, or answers 401 and returns
// ok=false.
func (s sessions) token(c *gin.Context) (id, token string, ok bool) {
	id = middleware.SessionID(c)
	token, err := s.manager.Token(c.Request.Context(), id)
	if err != nil {
		if id != "" {
			s.clearCookie(c)
		}
		if s.loginMessage != "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": s.loginMessage})
			return "", "", false
		}
		respondError(c, err, "")
		return "", "", false
	}
	return id, token, true
}

// fail is respondError plus session teardown on a 401 from the origin.
func (s sessions) fail(c *gin.Context, id string, err error, fallback string) {
	if s.manager.EndOnUnauthorized(c.Request.Context(), id, err) {
		s.clearCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in."})
		return
	}
	respondError(c, err, fallback)
}

func (s sessions) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.SessionCookie, id, 0, "/", "", s.config.Env == "production", true)
}

func (s sessions) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.SessionCookie, "", -1, "/", "", s.config.Env == "production", true)
}
