package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/api/middleware"
	"storefront/internal/backend"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

type AuthHandler struct {
	sessions
	backend *backend.Client
}

func NewAuthHandler(b *backend.Client, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger},
		backend:  b,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	resp, err := h.backend.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Login failed: %v", err)
		respondError(c, err, "Login failed")
		return
	}

	// The browser is switching accounts; the old session must not outlive it.
	if id := middleware.SessionID(c); id != "" {
		if err := h.manager.End(c.Request.Context(), id, "relogin"); err != nil {
			h.logger.Error("Failed to end previous session: %v", err)
		}
	}

	sess, err := h.manager.Begin(c.Request.Context(), resp)
	if err != nil {
		h.logger.Error("Failed to start session: %v", err)
		message := resp.Message
		if message == "" {
			message = "Login failed"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
		return
	}

	h.setCookie(c, sess.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful! Redirecting...",
		"user":    resp.User,
	})
}

// Session returns the user stored with the current session at login.
func (h *AuthHandler) Session(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	var user json.RawMessage
	if err := h.manager.User(c.Request.Context(), id, &user); err != nil {
		h.logger.Error("Failed to read session user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout ends the session whether or not it still exists.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id := middleware.SessionID(c); id != "" {
		if err := h.manager.End(c.Request.Context(), id, "logout"); err != nil {
			h.logger.Error("Failed to end session: %v", err)
		}
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var reg backend.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Email" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address", "field": "email"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if msg := validatePassword(reg.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "field": "password"})
		return
	}
	if reg.Password != reg.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match.", "field": "confirm_password"})
		return
	}

	if err := h.backend.Register(c.Request.Context(), reg); err != nil {
		h.logger.Error("Registration failed: %v", err)
		respondError(c, err, "Signup failed. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful! Check your email to verify."})
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordReset asks the backend to mail a reset link.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address", "field": "email"})
		return
	}

	if err := h.backend.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("Password reset failed: %v", err)
		respondError(c, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Check your email for a link to reset your password."})
}

// Activate confirms the verification link sent at signup.
func (h *AuthHandler) Activate(c *gin.Context) {
	uidb64, token := strings.TrimSpace(c.Param("uidb64")), strings.TrimSpace(c.Param("token"))
	if uidb64 == "" || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing verification link."})
		return
	}

	message, err := h.backend.ActivateAccount(c.Request.Context(), uidb64, token)
	if err != nil {
		h.logger.Error("Account activation failed: %v", err)
		status, _ := errorResponse(err, "")
		c.JSON(status, gin.H{"error": "Verification failed. Please try again."})
		return
	}
	if message == "" {
		message = "Email verified successfully!"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func validatePassword(password string) string {
	switch {
	case len(password) < 8:
		return "At least 8 characters required"
	case !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"):
		return "Include an uppercase letter"
	case !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz"):
		return "Include a lowercase letter"
	case !strings.ContainsAny(password, "0123456789"):
		return "Include a number"
	case !specialPattern.MatchString(password):
		return "Include a special character"
	}
	return ""
}
