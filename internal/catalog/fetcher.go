package catalog

import (
	"context"
	"strings"

	"storefront/internal/backend"
)

// FallbackImage is used for products without media.
const FallbackImage = "/fallback-image.jpg"

type Backend interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
	GetProduct(ctx context.Context, token, slug string) (*backend.Product, error)
	SearchProducts(ctx context.Context, query string) ([]backend.Product, error)
	RelatedProducts(ctx context.Context, categoryName string) ([]backend.Product, error)
	Recommendations(ctx context.Context, token string) ([]backend.Product, error)
}

// Fetcher is a stateless, read-only view of the catalog.
type Fetcher struct {
	backend   Backend
	mediaBase string
}

func NewFetcher(b Backend, mediaBaseURL string) *Fetcher {
	return &Fetcher{backend: b, mediaBase: mediaBaseURL}
}

type Item struct {
	Slug     string `json:"slug"`
	UID      string `json:"uid,omitempty"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
	Category string `json:"category,omitempty"`
}

func (f *Fetcher) Products(ctx context.Context) ([]Item, error) {
	products, err := f.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return f.items(products), nil
}

// Search returns no results for a blank query without calling the backend.
func (f *Fetcher) Search(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Item{}, nil
	}
	products, err := f.backend.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	return f.items(products), nil
}

type Detail struct {
	Item
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes,omitempty"`
}

func (f *Fetcher) Product(ctx context.Context, token, slug string) (*Detail, error) {
	p, err := f.backend.GetProduct(ctx, token, slug)
	if err != nil {
		return nil, err
	}

	d := &Detail{Item: f.item(*p), Description: p.Description, Sizes: p.Sizes}
	for _, img := range p.ProductImages {
		d.Images = append(d.Images, f.imageURL(img))
	}
	for _, img := range p.Images {
		d.Images = append(d.Images, f.imageURL(img))
	}
	if len(d.Images) > 0 {
		d.ImageURL = d.Images[0]
	}
	return d, nil
}

// Related is empty, not an error, when the product has no category.
func (f *Fetcher) Related(ctx context.Context, categoryName string) ([]Item, error) {
	if categoryName == "" {
		return []Item{}, nil
	}
	products, err := f.backend.RelatedProducts(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	return f.items(products), nil
}

func (f *Fetcher) Recommendations(ctx context.Context, token string) ([]Item, error) {
	products, err := f.backend.Recommendations(ctx, token)
	if err != nil {
		return nil, err
	}
	return f.items(products), nil
}

// ImageURL resolves a media reference against the media host.
func (f *Fetcher) ImageURL(ref string) string {
	return f.imageURL(backend.ProductImage{Image: ref})
}

func (f *Fetcher) items(products []backend.Product) []Item {
	out := make([]Item, 0, len(products))
	for _, p := range products {
		out = append(out, f.item(p))
	}
	return out
}

func (f *Fetcher) item(p backend.Product) Item {
	it := Item{
		Slug:     p.Slug,
		UID:      p.UID,
		Name:     p.ProductName,
		Price:    p.Price.String(),
		ImageURL: FallbackImage,
	}
	if p.Category != nil {
		it.Category = p.Category.CategoryName
	}
	switch {
	case len(p.Images) > 0:
		it.ImageURL = f.imageURL(p.Images[0])
	case len(p.ProductImages) > 0:
		it.ImageURL = f.imageURL(p.ProductImages[0])
	}
	return it
}

func (f *Fetcher) imageURL(img backend.ProductImage) string {
	switch {
	case img.ImageURL != "":
		return img.ImageURL
	case img.Image == "":
		return FallbackImage
	case strings.HasPrefix(img.Image, "http://"), strings.HasPrefix(img.Image, "https://"):
		return img.Image
	}
	return strings.TrimRight(f.mediaBase, "/") + "/" + strings.TrimLeft(img.Image, "/")
}
