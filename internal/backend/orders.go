package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

func (c *Client) CreateOrder(ctx context.Context, token string, items []OrderItem, total decimal.Decimal) (*Order, error) {
	var resp envelope[Order]
	err := c.do(ctx, call{
		op:     "create order",
		method: http.MethodPost,
		path:   "/api/orders/",
		auth:   true,
		token:  token,
		body: map[string]interface{}{
			"items":       items,
			"total_price": json.Number(total.String()),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var resp envelope[[]Order]
	err := c.do(ctx, call{
		op:     "list orders",
		method: http.MethodGet,
		path:   "/api/orders/",
		auth:   true,
		token:  token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
