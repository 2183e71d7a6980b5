package backend

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/api/login/",
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   "/api/register/",
		body:   reg,
	}, nil)
}

// RequestPasswordReset asks the backend to mail a reset link to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, call{
		op:     "password reset",
		method: http.MethodPost,
		path:   "/api/password_reset",
		body:   map[string]string{"email": email},
	}, nil)
}

// ActivateAccount confirms the emailed verification link and returns the
// backend's message, which may be empty.
func (c *Client) ActivateAccount(ctx context.Context, uidb64, token string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, call{
		op:     "activate account",
		method: http.MethodGet,
		path:   "/api/activate/" + url.PathEscape(uidb64) + "/" + url.PathEscape(token) + "/",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	var resp struct {
		Profile Profile `json:"profile"`
	}
	err := c.do(ctx, call{
		op:     "get profile",
		method: http.MethodGet,
		path:   "/api/profile/",
		auth:   true,
		token:  token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

func (c *Client) DeleteProfile(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:     "delete profile",
		method: http.MethodDelete,
		path:   "/api/profile/",
		auth:   true,
		token:  token,
	}, nil)
}

func (c *Client) ListShippingAddresses(ctx context.Context, token string) ([]ShippingAddress, error) {
	var addresses []ShippingAddress
	err := c.do(ctx, call{
		op:     "list shipping addresses",
		method: http.MethodGet,
		path:   "/api/shipping-addresses/",
		auth:   true,
		token:  token,
	}, &addresses)
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateShippingAddress(ctx context.Context, token string, addr ShippingAddress) (*ShippingAddress, error) {
	var saved ShippingAddress
	err := c.do(ctx, call{
		op:     "create shipping address",
		method: http.MethodPost,
		path:   "/api/shipping-addresses/",
		auth:   true,
		token:  token,
		body:   addr,
	}, &saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Chat relays one chat-widget message and returns the bot's answer.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var resp envelope[struct {
		BotResponse string `json:"bot_response"`
	}]
	err := c.do(ctx, call{
		op:     "chatbot",
		method: http.MethodPost,
		path:   "/api/chatbot/",
		body:   map[string]string{"message": message},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Data.BotResponse, nil
}
