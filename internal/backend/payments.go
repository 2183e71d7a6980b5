package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

const idempotencyHeader = "Idempotency-Key"

func (c *Client) StripePayment(ctx context.Context, token string, amount decimal.Decimal, currency, idempotencyKey string) (*PaymentResponse, error) {
	return c.pay(ctx, "stripe payment", "/api/payment/stripe/", token, idempotencyKey, map[string]interface{}{
		"amount":   json.Number(amount.String()),
		"currency": currency,
	})
}

func (c *Client) PayPalPayment(ctx context.Context, token string, amount decimal.Decimal, currency, idempotencyKey string) (*PaymentResponse, error) {
	return c.pay(ctx, "paypal payment", "/api/payment/paypal/", token, idempotencyKey, map[string]interface{}{
		"amount":   json.Number(amount.String()),
		"currency": currency,
	})
}

// MpesaSTKPush starts a mobile-money push to phone. phone must already carry
// the country code.
func (c *Client) MpesaSTKPush(ctx context.Context, token, phone string, amount decimal.Decimal, idempotencyKey string) (*PaymentResponse, error) {
	return c.pay(ctx, "mpesa stk push", "/api/mpesa/stk-push/", token, idempotencyKey, map[string]interface{}{
		"payment_method": "mpesa",
		"phone_number":   phone,
		"amount":         json.Number(amount.String()),
	})
}

func (c *Client) pay(ctx context.Context, op, path, token, idempotencyKey string, body map[string]interface{}) (*PaymentResponse, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[idempotencyHeader] = idempotencyKey
	}

	var resp PaymentResponse
	err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		path:    path,
		auth:    true,
		token:   token,
		body:    body,
		headers: headers,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
