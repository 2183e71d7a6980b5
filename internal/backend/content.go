package backend

import (
	"context"
	"net/http"
)

func (c *Client) ListFAQs(ctx context.Context) ([]FAQ, error) {
	var resp envelope[[]FAQ]
	err := c.do(ctx, call{op: "list faqs", method: http.MethodGet, path: "/api/faqs/"}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SubmitContact sends a contact-form message on behalf of the session.
func (c *Client) SubmitContact(ctx context.Context, token string, msg ContactMessage) error {
	return c.do(ctx, call{
		op:     "contact",
		method: http.MethodPost,
		path:   "/api/contact/",
		auth:   true,
		token:  token,
		body:   msg,
	}, nil)
}
