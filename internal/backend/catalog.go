package backend

import (
	"context"
	"net/http"
	"net/url"
)

// ListProducts fetches the public product list.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var resp envelope[[]Product]
	err := c.do(ctx, call{op: "list products", method: http.MethodGet, path: "/api/products/"}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetProduct fetches a single product by slug. The detail endpoint requires a
// session.
func (c *Client) GetProduct(ctx context.Context, token, slug string) (*Product, error) {
	var resp envelope[Product]
	err := c.do(ctx, call{
		op:     "get product",
		method: http.MethodGet,
		path:   "/api/products/" + url.PathEscape(slug) + "/",
		auth:   true,
		token:  token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	// The detail endpoint reports failures in-band as well.
	if resp.ResultCode != 0 && resp.ResultCode != http.StatusOK {
		return nil, &APIError{Op: "get product", Status: resp.ResultCode, Message: resp.Message}
	}
	return &resp.Data, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	var resp envelope[[]Product]
	err := c.do(ctx, call{
		op:     "search products",
		method: http.MethodGet,
		path:   "/api/products/search/",
		query:  url.Values{"q": {query}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) RelatedProducts(ctx context.Context, categoryName string) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	err := c.do(ctx, call{
		op:     "related products",
		method: http.MethodGet,
		path:   "/api/products/related/",
		query:  url.Values{"category_name": {categoryName}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Recommendations fetches the personalised product list for the session.
func (c *Client) Recommendations(ctx context.Context, token string) ([]Product, error) {
	var resp envelope[[]Product]
	err := c.do(ctx, call{
		op:     "recommendations",
		method: http.MethodGet,
		path:   "/api/recommendations/",
		auth:   true,
		token:  token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListReviews fetches the public reviews of the product with the given uid.
func (c *Client) ListReviews(ctx context.Context, productUID string) ([]Review, error) {
	var resp struct {
		Reviews []Review `json:"reviews"`
	}
	err := c.do(ctx, call{
		op:     "list reviews",
		method: http.MethodGet,
		path:   "/api/reviews/" + url.PathEscape(productUID) + "/",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

func (c *Client) AddToWishlist(ctx context.Context, token, productUID string) error {
	return c.do(ctx, call{
		op:     "add to wishlist",
		method: http.MethodPost,
		path:   "/api/wishlist/add/",
		auth:   true,
		token:  token,
		body:   map[string]string{"product_id": productUID},
	}, nil)
}
