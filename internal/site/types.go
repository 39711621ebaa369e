// Package site holds the database-backed content of the public site:
// books with their purchase links, testimonials, per-page copy, and the
// object bucket for cover and icon images.
package site

import "time"

// Book is one published title. Series fields are nil for standalone
// books.
type Book struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	SeriesTitle  *string   `json:"series_title"`
	SeriesNumber *int      `json:"series_number"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PurchaseLink is one retailer link for a book. MediaType distinguishes
// ebook/print/audio listings at the same store.
type PurchaseLink struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	StoreName string    `json:"store_name"`
	URL       string    `json:"url"`
	IconURL   *string   `json:"icon_url"`
	MediaType *string   `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookWithLinks is a book joined with its purchase links for the shop
// page.
type BookWithLinks struct {
	Book
	PurchaseLinks []*PurchaseLink `json:"purchase_links"`
}

// Testimonial is one reader or outlet quote shown on the site.
type Testimonial struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Store       string    `json:"store"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PageContent is one editable copy block, keyed to the page it renders
// on ("home", "about", "speaking", ...).
type PageContent struct {
	ID          int64     `json:"id"`
	Page        string    `json:"page"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
