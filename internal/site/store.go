package site

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// Store provides database operations for site content
type Store struct {
	db *sql.DB
}

// NewStore creates a new site store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema bootstraps the tables on first use. Safe to call on
// every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			series_title TEXT,
			series_number INTEGER,
			image_url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS purchase_links (
			id BIGSERIAL PRIMARY KEY,
			book_id BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			store_name TEXT NOT NULL,
			url TEXT NOT NULL,
			icon_url TEXT,
			media_type TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS testimonials (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			store TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS page_contents (
			id BIGSERIAL PRIMARY KEY,
			page TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- Books ---

const bookColumns = `id, name, description, series_title, series_number, image_url, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	b := &Book{}
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.SeriesTitle, &b.SeriesNumber,
		&b.ImageURL, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks retrieves all books, newest first
func (s *Store) ListBooks(ctx context.Context) ([]*Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetBook retrieves a book by ID; (nil, nil) when absent
func (s *Store) GetBook(ctx context.Context, id int64) (*Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	return scanBook(row)
}

// CreateBook inserts a book and fills in its generated fields
func (s *Store) CreateBook(ctx context.Context, b *Book) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO books (name, description, series_title, series_number, image_url)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		b.Name, b.Description, b.SeriesTitle, b.SeriesNumber, b.ImageURL,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// UpdateBook updates a book; (nil, nil) when the id does not exist
func (s *Store) UpdateBook(ctx context.Context, b *Book) (*Book, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE books SET name = $1, description = $2, series_title = $3,
		 series_number = $4, image_url = $5, updated_at = NOW()
		 WHERE id = $6 RETURNING `+bookColumns,
		b.Name, b.Description, b.SeriesTitle, b.SeriesNumber, b.ImageURL, b.ID)
	return scanBook(row)
}

// DeleteBook removes a book and, via cascade, its purchase links
func (s *Store) DeleteBook(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetBookWithLinks retrieves a book joined with its purchase links
func (s *Store) GetBookWithLinks(ctx context.Context, id int64) (*BookWithLinks, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}
	links, err := s.ListPurchaseLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookWithLinks{Book: *book, PurchaseLinks: links}, nil
}

// ListBooksWithLinks retrieves every book with its purchase links,
// avoiding a per-book query by batch-loading links with ANY($1).
func (s *Store) ListBooksWithLinks(ctx context.Context) ([]*BookWithLinks, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return []*BookWithLinks{}, nil
	}

	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM purchase_links
		 WHERE book_id = ANY($1) ORDER BY created_at ASC`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	linksByBook := make(map[int64][]*PurchaseLink)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		linksByBook[l.BookID] = append(linksByBook[l.BookID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*BookWithLinks, len(books))
	for i, b := range books {
		links := linksByBook[b.ID]
		if links == nil {
			links = []*PurchaseLink{}
		}
		result[i] = &BookWithLinks{Book: *b, PurchaseLinks: links}
	}
	return result, nil
}

// --- Purchase links ---

const linkColumns = `id, book_id, store_name, url, icon_url, media_type, created_at, updated_at`

func scanLink(row interface{ Scan(...any) error }) (*PurchaseLink, error) {
	l := &PurchaseLink{}
	err := row.Scan(&l.ID, &l.BookID, &l.StoreName, &l.URL, &l.IconURL,
		&l.MediaType, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListPurchaseLinks retrieves the links for one book, oldest first
func (s *Store) ListPurchaseLinks(ctx context.Context, bookID int64) ([]*PurchaseLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM purchase_links WHERE book_id = $1 ORDER BY created_at ASC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []*PurchaseLink{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// CreatePurchaseLink inserts a link and fills in its generated fields
func (s *Store) CreatePurchaseLink(ctx context.Context, l *PurchaseLink) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO purchase_links (book_id, store_name, url, icon_url, media_type)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		l.BookID, l.StoreName, l.URL, l.IconURL, l.MediaType,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// UpdatePurchaseLink updates a link; (nil, nil) when absent
func (s *Store) UpdatePurchaseLink(ctx context.Context, l *PurchaseLink) (*PurchaseLink, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE purchase_links SET store_name = $1, url = $2, icon_url = $3,
		 media_type = $4, updated_at = NOW() WHERE id = $5 RETURNING `+linkColumns,
		l.StoreName, l.URL, l.IconURL, l.MediaType, l.ID)
	return scanLink(row)
}

// DeletePurchaseLink removes a link
func (s *Store) DeletePurchaseLink(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM purchase_links WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- Testimonials ---

const testimonialColumns = `id, name, description, store, created_at, updated_at`

func scanTestimonial(row interface{ Scan(...any) error }) (*Testimonial, error) {
	t := &Testimonial{}
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Store, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTestimonials retrieves all testimonials, newest first
func (s *Store) ListTestimonials(ctx context.Context) ([]*Testimonial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// GetTestimonial retrieves one testimonial; (nil, nil) when absent
func (s *Store) GetTestimonial(ctx context.Context, id int64) (*Testimonial, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id)
	return scanTestimonial(row)
}

// CreateTestimonial inserts a testimonial
func (s *Store) CreateTestimonial(ctx context.Context, t *Testimonial) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO testimonials (name, description, store)
		 VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		t.Name, t.Description, t.Store,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// UpdateTestimonial updates a testimonial; (nil, nil) when absent
func (s *Store) UpdateTestimonial(ctx context.Context, t *Testimonial) (*Testimonial, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE testimonials SET name = $1, description = $2, store = $3,
		 updated_at = NOW() WHERE id = $4 RETURNING `+testimonialColumns,
		t.Name, t.Description, t.Store, t.ID)
	return scanTestimonial(row)
}

// DeleteTestimonial removes a testimonial
func (s *Store) DeleteTestimonial(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- Page content ---

const contentColumns = `id, page, title, description, created_at, updated_at`

func scanContent(row interface{ Scan(...any) error }) (*PageContent, error) {
	c := &PageContent{}
	err := row.Scan(&c.ID, &c.Page, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetContentByPage retrieves the copy blocks for one page, in the
// order they were created
func (s *Store) GetContentByPage(ctx context.Context, page string) ([]*PageContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM page_contents WHERE page = $1 ORDER BY created_at ASC`,
		page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*PageContent{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// GetContentByPages retrieves copy blocks for several pages at once,
// grouped by page
func (s *Store) GetContentByPages(ctx context.Context, pages []string) (map[string][]*PageContent, error) {
	grouped := make(map[string][]*PageContent)
	if len(pages) == 0 {
		return grouped, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM page_contents
		 WHERE page = ANY($1) ORDER BY page, created_at ASC`, pq.Array(pages))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		grouped[c.Page] = append(grouped[c.Page], c)
	}
	return grouped, rows.Err()
}

// ListContent retrieves every copy block, grouped by page order
func (s *Store) ListContent(ctx context.Context) ([]*PageContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM page_contents ORDER BY page, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*PageContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CreateContent inserts a copy block
func (s *Store) CreateContent(ctx context.Context, c *PageContent) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO page_contents (page, title, description)
		 VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		c.Page, c.Title, c.Description,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateContent updates a copy block; (nil, nil) when absent
func (s *Store) UpdateContent(ctx context.Context, c *PageContent) (*PageContent, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE page_contents SET page = $1, title = $2, description = $3,
		 updated_at = NOW() WHERE id = $4 RETURNING `+contentColumns,
		c.Page, c.Title, c.Description, c.ID)
	return scanContent(row)
}

// DeleteContent removes a copy block
func (s *Store) DeleteContent(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM page_contents WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
