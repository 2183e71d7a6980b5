package backend

import (
	"context"
	"net/http"
	"net/url"
)

// GetCart fetches the authoritative cart of the session.
func (c *Client) GetCart(ctx context.Context, token string) (*Cart, error) {
	var resp envelope[Cart]
	err := c.do(ctx, call{
		op:     "get cart",
		method: http.MethodGet,
		path:   "/api/cart/",
		auth:   true,
		token:  token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// AddToCart adds a product or sets the quantity of an existing line.
func (c *Client) AddToCart(ctx context.Context, token, slug string, quantity int) error {
	return c.do(ctx, call{
		op:     "add to cart",
		method: http.MethodPost,
		path:   "/api/cart/add/" + url.PathEscape(slug) + "/",
		auth:   true,
		token:  token,
		body:   map[string]int{"quantity": quantity},
	}, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, token, slug string) error {
	return c.do(ctx, call{
		op:     "remove from cart",
		method: http.MethodDelete,
		path:   "/api/cart/remove/" + url.PathEscape(slug) + "/",
		auth:   true,
		token:  token,
	}, nil)
}
