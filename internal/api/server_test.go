package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeOrigin imitates the remote shop API for one customer.
type fakeOrigin struct {
	mu       sync.Mutex
	cart     map[string]int
	order    []string
	prices   map[string]string
	revoked  bool
	payments []map[string]interface{}
	comments []gin.H
	wishlist []string
	contacts []map[string]string
}

func newFakeOrigin(t *testing.T) (*fakeOrigin, *httptest.Server) {
	o := &fakeOrigin{
		cart:   map[string]int{"a": 2, "b": 1},
		order:  []string{"a", "b"},
		prices: map[string]string{"a": "10.00", "b": "5.00"},
	}

	r := gin.New()
	authed := func(c *gin.Context) {
		o.mu.Lock()
		revoked := o.revoked
		o.mu.Unlock()
		if c.GetHeader("Authorization") != "Bearer tok" || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid"})
		}
	}

	r.POST("/api/login/", func(c *gin.Context) {
		var body map[string]string
		_ = c.BindJSON(&body)
		if body["password"] != "Secret1!" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": "tok", "refresh": "ref", "user": gin.H{"email": body["email"]}})
	})
	r.GET("/api/cart/", authed, func(c *gin.Context) {
		o.mu.Lock()
		defer o.mu.Unlock()
		items := []gin.H{}
		for _, slug := range o.order {
			if q, ok := o.cart[slug]; ok {
				items = append(items, gin.H{
					"product":  gin.H{"slug": slug, "product_name": strings.ToUpper(slug), "price": o.prices[slug]},
					"quantity": q,
				})
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"cart_items": items}})
	})
	r.POST("/api/cart/add/:slug/", authed, func(c *gin.Context) {
		var body struct {
			Quantity int `json:"quantity"`
		}
		_ = c.BindJSON(&body)
		o.mu.Lock()
		o.cart[c.Param("slug")] = body.Quantity
		o.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.DELETE("/api/cart/remove/:slug/", authed, func(c *gin.Context) {
		o.mu.Lock()
		delete(o.cart, c.Param("slug"))
		o.mu.Unlock()
		c.Status(http.StatusNoContent)
	})
	r.POST("/api/orders/", authed, func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{"order_id": "ord-1", "total_amount": "25.00"}})
	})
	r.POST("/api/mpesa/stk-push/", authed, func(c *gin.Context) {
		var body map[string]interface{}
		_ = c.BindJSON(&body)
		body["idempotency_key"] = c.GetHeader("Idempotency-Key")
		o.mu.Lock()
		o.payments = append(o.payments, body)
		o.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/api/profile/", authed, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"profile": gin.H{"phone_number": "0712345678", "profile_image": "image/upload/me.png"}})
	})
	r.GET("/api/orders/", authed, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"order_id": "ord-0", "status": "paid", "total_amount": "9.99"}}})
	})
	r.POST("/api/chatbot/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"bot_response": "Hello!"}})
	})

	r.GET("/api/blogs/", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"id": 7, "title": "Thrift", "cover_image": "image/upload/cover.jpg", "tag": gin.H{"name": "style"}},
			{"id": 8, "title": "Care", "cover_image": "https://cdn.example.com/care.jpg"},
		})
	})
	r.GET("/api/blogs/:id/", func(c *gin.Context) {
		if c.Param("id") != "7" {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": 7, "title": "Thrift", "content": "Buy less.", "author": gin.H{"email": "ed@example.com"}})
	})
	r.GET("/api/blogs/:id/comments/", func(c *gin.Context) {
		o.mu.Lock()
		defer o.mu.Unlock()
		c.JSON(http.StatusOK, append([]gin.H{}, o.comments...))
	})
	r.POST("/api/blogs/:id/comments/create/", authed, func(c *gin.Context) {
		var body map[string]string
		_ = c.BindJSON(&body)
		o.mu.Lock()
		comment := gin.H{"id": len(o.comments) + 1, "content": body["content"], "user": gin.H{"email": "jane@example.com"}}
		o.comments = append(o.comments, comment)
		o.mu.Unlock()
		c.JSON(http.StatusCreated, comment)
	})
	r.POST("/api/wishlist/add/", authed, func(c *gin.Context) {
		var body map[string]string
		_ = c.BindJSON(&body)
		if body["product_id"] == "gone" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product not found"})
			return
		}
		o.mu.Lock()
		o.wishlist = append(o.wishlist, body["product_id"])
		o.mu.Unlock()
		c.JSON(http.StatusCreated, gin.H{"message": "ok"})
	})
	r.GET("/api/reviews/:uid/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reviews": []gin.H{{"user": "jane", "comment": "Fits well", "rating": 4}}})
	})
	r.GET("/api/faqs/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"id": 1, "question": "Returns?", "answer": "Within 14 days."}}})
	})
	r.POST("/api/contact/", authed, func(c *gin.Context) {
		var body map[string]string
		_ = c.BindJSON(&body)
		o.mu.Lock()
		o.contacts = append(o.contacts, body)
		o.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	r.POST("/api/password_reset", func(c *gin.Context) {
		var body map[string]string
		_ = c.BindJSON(&body)
		if body["email"] != "jane@example.com" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No account with that email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/api/activate/:uidb64/:token/", func(c *gin.Context) {
		switch c.Param("token") {
		case "good":
			c.JSON(http.StatusOK, gin.H{"message": "Account activated"})
		case "quiet":
			c.JSON(http.StatusOK, gin.H{})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Link expired"})
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return o, srv
}

type harness struct {
	t      *testing.T
	origin *fakeOrigin
	server *Server
	rec    *events.Recorder
	cookie *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	origin, originSrv := newFakeOrigin(t)

	cfg := &config.Config{
		SessionCookie:    "sf_session",
		AllowedOrigins:   []string{"*"},
		BackendURL:       originSrv.URL,
		MediaBaseURL:     "https://media.example.com/",
		BackendTimeout:   5 * time.Second,
		CartResyncDelay:  time.Hour,
		NotificationTTL:  time.Minute,
		PaymentCurrency:  "USD",
		MpesaCountryCode: "254",
		Env:              "test",
	}

	db, err := database.New(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", t.Name()), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &events.Recorder{}
	srv := New(cfg, logger.NewNop(), db, rec)
	t.Cleanup(func() { srv.Stop(context.Background()) })

	return &harness{t: t, origin: origin, server: srv, rec: rec}
}

func (h *harness) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	w := httptest.NewRecorder()
	h.server.GetRouter().ServeHTTP(w, req)
	return w
}

func (h *harness) login() {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "jane@example.com", "password": "Secret1!"})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "sf_session" {
			h.cookie = c
		}
	}
	require.NotNil(h.t, h.cookie)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCartRequiresLogin(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You need to be logged in to view your cart.", decode(t, w)["error"])
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["error"])
	assert.Empty(t, w.Result().Cookies())
}

func TestCartLifecycle(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := decode(t, w)["cart"].(map[string]interface{})
	assert.Equal(t, "25.00", cart["total_display"])

	w = h.do(http.MethodPut, "/api/v1/cart/items/a", gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart = decode(t, w)["cart"].(map[string]interface{})
	assert.Equal(t, "35.00", cart["total_display"])

	w = h.do(http.MethodPut, "/api/v1/cart/items/a", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodDelete, "/api/v1/cart/items/a", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart = decode(t, w)["cart"].(map[string]interface{})
	assert.Equal(t, "5.00", cart["total_display"])
	assert.Len(t, cart["lines"], 1)
}

func TestSetQuantityRightAfterLogin(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodPut, "/api/v1/cart/items/b", gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := decode(t, w)["cart"].(map[string]interface{})
	assert.Equal(t, true, cart["loaded"])
	assert.Equal(t, "40.00", cart["total_display"])

	h.origin.mu.Lock()
	assert.Equal(t, 4, h.origin.cart["b"])
	h.origin.mu.Unlock()
}

func TestAddItemPostsNotification(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodPost, "/api/v1/cart/items/c", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodGet, "/api/v1/notification", nil)
	require.Equal(t, http.StatusOK, w.Code)
	n := decode(t, w)["notification"].(map[string]interface{})
	assert.Equal(t, "Added to cart", n["message"])
	assert.Equal(t, "success", n["kind"])

	w = h.do(http.MethodDelete, "/api/v1/notification", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = h.do(http.MethodGet, "/api/v1/notification", nil)
	assert.Nil(t, decode(t, w)["notification"])
}

func TestCheckoutWithMobileMoney(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	state := decode(t, w)["checkout"].(map[string]interface{})
	assert.Equal(t, "ShippingAddress", state["active"])
	assert.Equal(t, "25.00", state["total_display"])

	w = h.do(http.MethodPost, "/api/v1/checkout/tabs/ShippingAddress/close", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tr := decode(t, w)["transition"].(map[string]interface{})
	assert.Equal(t, "PaymentMethod", tr["active"])
	assert.Equal(t, "PaymentMethod", tr["scroll_to"])

	w = h.do(http.MethodPost, "/api/v1/checkout/tabs/ContactInfo/open", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/checkout/confirm", gin.H{"method": "M-Pesa", "phone": "0712345678"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pay := decode(t, w)["payment"].(map[string]interface{})
	assert.Equal(t, true, pay["success"])
	assert.Equal(t, "Payment successful", pay["message"])

	h.origin.mu.Lock()
	require.Len(t, h.origin.payments, 1)
	sent := h.origin.payments[0]
	h.origin.mu.Unlock()
	assert.Equal(t, "254712345678", sent["phone_number"])
	assert.Equal(t, "mpesa", sent["payment_method"])
	assert.EqualValues(t, 25, sent["amount"])
	assert.NotEmpty(t, sent["idempotency_key"])

	w = h.do(http.MethodGet, "/api/v1/notification", nil)
	n := decode(t, w)["notification"].(map[string]interface{})
	assert.Equal(t, "Payment successful", n["message"])

	w = h.do(http.MethodPost, "/api/v1/checkout/confirm", gin.H{"method": "M-Pesa", "phone": "0712345678"})
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Len(t, h.rec.OfType(events.OrderCreated), 1)
	assert.Len(t, h.rec.OfType(events.PaymentDispatched), 1)
}

func TestProfileLoadsOrdersAndImage(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "https://media.example.com/image/upload/me.png", body["profile_image_url"])
	assert.Len(t, body["orders"], 1)
}

func TestUnauthorizedProfileEndsSession(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	h.origin.mu.Lock()
	h.origin.revoked = true
	h.origin.mu.Unlock()

	w = h.do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.origin.mu.Lock()
	h.origin.revoked = false
	h.origin.mu.Unlock()

	w = h.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "session must be gone")
	assert.Len(t, h.rec.OfType(events.SessionEnded), 1)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	w := h.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		password string
		confirm  string
		want     string
	}{
		{"Ab1!", "Ab1!", "At least 8 characters required"},
		{"lowercase1!", "lowercase1!", "Include an uppercase letter"},
		{"UPPERCASE1!", "UPPERCASE1!", "Include a lowercase letter"},
		{"NoDigits!!", "NoDigits!!", "Include a number"},
		{"NoSpecial12", "NoSpecial12", "Include a special character"},
		{"Secret12!", "Secret12?", "Passwords do not match."},
	}
	for _, tt := range tests {
		w := h.do(http.MethodPost, "/api/v1/auth/register", gin.H{
			"first_name":       "Jane",
			"email":            "jane@example.com",
			"password":         tt.password,
			"confirm_password": tt.confirm,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, tt.want, decode(t, w)["error"])
	}

	for _, body := range []gin.H{
		{"email": "not-an-email", "password": "Secret12!"},
		{"password": "Secret12!", "confirm_password": "Secret12!"},
	} {
		w := h.do(http.MethodPost, "/api/v1/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "Invalid email address", resp["error"])
		assert.Equal(t, "email", resp["field"])
	}
}

func TestReloginEndsPreviousSession(t *testing.T) {
	h := newHarness(t)
	h.login()
	first := h.cookie

	h.login()
	second := h.cookie
	require.NotEqual(t, first.Value, second.Value)

	ended := h.rec.OfType(events.SessionEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, first.Value, ended[0].SessionID)
	assert.Equal(t, "relogin", ended[0].Message)

	h.cookie = first
	w := h.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old session must be gone")

	h.cookie = second
	w = h.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionReturnsLoginUser(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.login()
	w = h.do(http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])
}

func TestPasswordReset(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/v1/auth/password-reset", gin.H{"email": "jane@example.com"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/v1/auth/password-reset", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No account with that email", decode(t, w)["error"])

	w = h.do(http.MethodPost, "/api/v1/auth/password-reset", gin.H{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email address", decode(t, w)["error"])
}

func TestActivateAccount(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		token  string
		status int
		key    string
		want   string
	}{
		{"good", http.StatusOK, "message", "Account activated"},
		{"quiet", http.StatusOK, "message", "Email verified successfully!"},
		{"stale", http.StatusBadRequest, "error", "Verification failed. Please try again."},
	}
	for _, tt := range tests {
		w := h.do(http.MethodGet, "/api/v1/auth/activate/MQ/"+tt.token, nil)
		assert.Equal(t, tt.status, w.Code, tt.token)
		assert.Equal(t, tt.want, decode(t, w)[tt.key], tt.token)
	}
}

func TestBlogListAndDetail(t *testing.T) {
	h := newHarness(t)
	h.origin.comments = []gin.H{{"id": 1, "content": "Nice read", "user": gin.H{"email": "amy@example.com"}}}

	w := h.do(http.MethodGet, "/api/v1/blogs", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	blogs := decode(t, w)["data"].([]interface{})
	require.Len(t, blogs, 2)
	first := blogs[0].(map[string]interface{})
	assert.Equal(t, "https://media.example.com/image/upload/cover.jpg", first["cover_image_url"])
	assert.Equal(t, "Thrift", first["title"])
	assert.Equal(t, "https://cdn.example.com/care.jpg", blogs[1].(map[string]interface{})["cover_image_url"])

	w = h.do(http.MethodGet, "/api/v1/blogs/7", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	blog := body["blog"].(map[string]interface{})
	assert.Equal(t, "Buy less.", blog["content"])
	assert.Equal(t, "/fallback-image.jpg", blog["cover_image_url"])
	assert.Len(t, body["comments"], 1)
	assert.NotContains(t, body, "comments_error")

	w = h.do(http.MethodGet, "/api/v1/blogs/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found.", decode(t, w)["error"])

	w = h.do(http.MethodGet, "/api/v1/blogs/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog not found", decode(t, w)["error"])
}

func TestBlogComments(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/v1/blogs/7/comments", gin.H{"content": "Love it"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You must be logged in to comment.", decode(t, w)["error"])

	h.login()
	w = h.do(http.MethodPost, "/api/v1/blogs/7/comments", gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/v1/blogs/7/comments", gin.H{"content": " Love it "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode(t, w)["comment"].(map[string]interface{})
	assert.Equal(t, "Love it", comment["content"])

	w = h.do(http.MethodGet, "/api/v1/blogs/7/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode(t, w)["data"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "Love it", comments[0].(map[string]interface{})["content"])
}

func TestWishlistAdd(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/v1/wishlist", gin.H{"product_id": "u-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Please log in to add items to wishlist", decode(t, w)["error"])

	h.login()
	w = h.do(http.MethodPost, "/api/v1/wishlist", gin.H{"product_id": "u-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodGet, "/api/v1/notification", nil)
	n := decode(t, w)["notification"].(map[string]interface{})
	assert.Equal(t, "Added to wishlist", n["message"])

	w = h.do(http.MethodPost, "/api/v1/wishlist", gin.H{"product_id": "gone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product not found", decode(t, w)["error"])

	w = h.do(http.MethodGet, "/api/v1/notification", nil)
	n = decode(t, w)["notification"].(map[string]interface{})
	assert.Equal(t, "Product not found", n["message"])
	assert.Equal(t, "error", n["kind"])

	h.origin.mu.Lock()
	assert.Equal(t, []string{"u-1"}, h.origin.wishlist)
	h.origin.mu.Unlock()
}

func TestReviewsAndFAQs(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/reviews/u-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reviews := decode(t, w)["data"].([]interface{})
	require.Len(t, reviews, 1)
	assert.EqualValues(t, 4, reviews[0].(map[string]interface{})["rating"])

	w = h.do(http.MethodGet, "/api/v1/faqs", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	faqs := decode(t, w)["data"].([]interface{})
	require.Len(t, faqs, 1)
	assert.Equal(t, "Returns?", faqs[0].(map[string]interface{})["question"])
}

func TestContactForm(t *testing.T) {
	h := newHarness(t)
	form := gin.H{"name": "Jane", "email": "jane@example.com", "subject": "Sizing", "message": "Do you ship to Mombasa?"}

	w := h.do(http.MethodPost, "/api/v1/contact", form)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not authenticated", decode(t, w)["error"])

	h.login()
	w = h.do(http.MethodPost, "/api/v1/contact", gin.H{"name": "Jane", "email": "jane", "message": "Hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email address", decode(t, w)["error"])

	w = h.do(http.MethodPost, "/api/v1/contact", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Message sent successfully!", decode(t, w)["message"])

	h.origin.mu.Lock()
	require.Len(t, h.origin.contacts, 1)
	assert.Equal(t, "Sizing", h.origin.contacts[0]["subject"])
	h.origin.mu.Unlock()
}

func TestChatRelay(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/v1/chat", gin.H{"message": "hi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Hello!", decode(t, w)["reply"])
}
