package catalog

import "errors"

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrPackageNotFound = errors.New("package not found")
)

// Book covers all three single-item formats; Type distinguishes them.
type Book struct {
	ID            string  `json:"bookId"`
	Name          string  `json:"name"`
	Writer        string  `json:"writer"`
	Type          string  `json:"type"` // "book", "ebook" or "audiobook"
	OldPrice      float64 `json:"oldPrice"`
	DiscountPrice float64 `json:"discountPrice"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	Category      string  `json:"category,omitempty"`
	Language      string  `json:"language,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}

// Package is a bundle of books sold as one physical item.
type Package struct {
	ID            string   `json:"packageId"`
	Name          string   `json:"name"`
	OldPrice      float64  `json:"oldPrice"`
	DiscountPrice float64  `json:"discountPrice"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	BookIDs       []string `json:"bookIds,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}
