package backend

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product
type Product struct {
	UID           string          `json:"uid"`
	Slug          string          `json:"slug"`
	ProductName   string          `json:"product_name"`
	Description   string          `json:"product_description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Images        []ProductImage  `json:"images,omitempty"`
	ProductImages []ProductImage  `json:"product_images,omitempty"`
	Category      *Category       `json:"category,omitempty"`
	Sizes         []string        `json:"sizes,omitempty"`
}

// ProductImage is a media reference; the list endpoints send a relative
// "image" path, the detail endpoint an absolute "image_url".
type ProductImage struct {
	Image    string `json:"image,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Category struct {
	CategoryName string `json:"category_name"`
	Slug         string `json:"slug,omitempty"`
}

// Cart is the authoritative cart held by the backend.
type Cart struct {
	UID       string     `json:"uid,omitempty"`
	CartItems []CartItem `json:"cart_items"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// OrderItem is one line submitted when creating an order.
type OrderItem struct {
	ProductSlug string          `json:"product_slug"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Order struct {
	UID         string          `json:"uid,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	Status      string          `json:"status,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       json.RawMessage `json:"items,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
}

// PaymentResponse is the common answer of every payment backend.
type PaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginResponse carries the tokens issued by /api/login/.
type LoginResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user"`
	Message string          `json:"message,omitempty"`
}

type Registration struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type Profile struct {
	User            *ProfileUser `json:"user,omitempty"`
	PhoneNumber     string       `json:"phone_number"`
	ProfileImage    string       `json:"profile_image,omitempty"`
	Bio             string       `json:"bio,omitempty"`
	ShippingAddress string       `json:"shipping_address,omitempty"`
}

type ProfileUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ShippingAddress struct {
	ID             int    `json:"id,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Street         string `json:"street"`
	StreetNumber   string `json:"street_number"`
	City           string `json:"city"`
	Country        string `json:"country"`
	ZipCode        string `json:"zip_code"`
	Phone          string `json:"phone"`
	CurrentAddress bool   `json:"current_address"`
}

// Blog is one post of the journal. CoverImage is a media reference like a
// product image.
type Blog struct {
	ID         int         `json:"id"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug,omitempty"`
	CoverImage string      `json:"cover_image,omitempty"`
	Brief      string      `json:"brief,omitempty"`
	Content    string      `json:"content,omitempty"`
	Tag        *BlogTag    `json:"tag,omitempty"`
	Date       string      `json:"date,omitempty"`
	Author     *BlogAuthor `json:"author,omitempty"`
}

type BlogTag struct {
	Name string `json:"name"`
}

type BlogAuthor struct {
	Email string `json:"email"`
}

type BlogComment struct {
	ID      int         `json:"id"`
	Content string      `json:"content"`
	Date    string      `json:"date,omitempty"`
	User    *BlogAuthor `json:"user,omitempty"`
}

type Review struct {
	User    string `json:"user"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type FAQ struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ContactMessage is the contact form as the backend expects it.
type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// envelope is the {"data": ...} wrapper most endpoints answer with.
type envelope[T any] struct {
	Data       T      `json:"data"`
	ResultCode int    `json:"result_code,omitempty"`
	Message    string `json:"message,omitempty"`
}
