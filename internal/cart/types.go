package cart

import (
	"errors"
	"fmt"

	"storefront/internal/backend"

	"github.com/shopspring/decimal"
)

// LoginRequiredMessage is shown when the cart is opened without a session.
const LoginRequiredMessage = "You need to be logged in to view your cart."

var (
	ErrLoginRequired   = fmt.Errorf("cart requires a session: %w", backend.ErrNoSession)
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownLine     = errors.New("product is not in the cart")
	ErrEmptyCart       = errors.New("cart is empty or not loaded")
)

// Line is one product entry of the cart, unique by ProductKey.
type Line struct {
	ProductKey  string          `json:"product_key"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	DisplayName string          `json:"display_name"`
	ImageRef    string          `json:"image_ref"`
}

// Snapshot is the local copy of the server cart, in server order. It is
// replaced wholesale on every load.
type Snapshot struct {
	Lines []Line `json:"lines"`
}

func (s Snapshot) find(key string) (Line, bool) {
	for _, l := range s.Lines {
		if l.ProductKey == key {
			return l, true
		}
	}
	return Line{}, false
}

// Contains reports whether a line with key is present.
func (s Snapshot) Contains(key string) bool {
	_, ok := s.find(key)
	return ok
}

// LineView is a line as displayed: the effective quantity and its total.
type LineView struct {
	ProductKey     string          `json:"product_key"`
	DisplayName    string          `json:"display_name"`
	ImageRef       string          `json:"image_ref"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	ServerQuantity int             `json:"server_quantity"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Updating       bool            `json:"updating"`
}

type View struct {
	Loaded       bool            `json:"loaded"`
	Lines        []LineView      `json:"lines"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TotalDisplay string          `json:"total_display"`
}

// Quote is a point-in-time copy of the cart handed to checkout.
type Quote struct {
	Items      []Line          `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// linesFromCart converts the backend cart, keeping its order and the first
// occurrence of any duplicated slug.
func linesFromCart(c *backend.Cart) []Line {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool, len(c.CartItems))
	lines := make([]Line, 0, len(c.CartItems))
	for _, item := range c.CartItems {
		slug := item.Product.Slug
		if seen[slug] {
			continue
		}
		seen[slug] = true

		var imageRef string
		if len(item.Product.Images) > 0 {
			imageRef = item.Product.Images[0].Image
		}
		lines = append(lines, Line{
			ProductKey:  slug,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			DisplayName: item.Product.ProductName,
			ImageRef:    imageRef,
		})
	}
	return lines
}
