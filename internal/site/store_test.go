package site

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewStore(db), mock, func() { db.Close() }
}

func strPtr(s string) *string { return &s }

func TestGetBook(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, description").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "series_title", "series_number",
			"image_url", "created_at", "updated_at",
		}).AddRow(7, "The Hollow Coast", "A novel", "Coast Trilogy", 2,
			"/images/hollow.jpg", now, now))

	book, err := store.GetBook(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetBook() error: %v", err)
	}
	if book == nil {
		t.Fatal("expected a book, got nil")
	}
	if book.Name != "The Hollow Coast" {
		t.Errorf("Name = %q, want %q", book.Name, "The Hollow Coast")
	}
	if book.SeriesNumber == nil || *book.SeriesNumber != 2 {
		t.Errorf("SeriesNumber = %v, want 2", book.SeriesNumber)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, name, description").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "series_title", "series_number",
			"image_url", "created_at", "updated_at",
		}))

	book, err := store.GetBook(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetBook() error: %v", err)
	}
	if book != nil {
		t.Errorf("expected nil for missing book, got %+v", book)
	}
}

func TestCreateBook(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO books").
		WithArgs("Quiet Rivers", strPtr("desc"), nil, nil, "/images/rivers.jpg").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(3, now, now))

	book := &Book{Name: "Quiet Rivers", Description: strPtr("desc"), ImageURL: "/images/rivers.jpg"}
	if err := store.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("CreateBook() error: %v", err)
	}
	if book.ID != 3 {
		t.Errorf("ID = %d, want 3", book.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE books SET").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "series_title", "series_number",
			"image_url", "created_at", "updated_at",
		}))

	got, err := store.UpdateBook(context.Background(), &Book{ID: 42, Name: "x", ImageURL: "y"})
	if err != nil {
		t.Fatalf("UpdateBook() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing book, got %+v", got)
	}
}

func TestDeleteBook(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM books").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := store.DeleteBook(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteBook() error: %v", err)
	}
	if !ok {
		t.Error("expected delete to report a removed row")
	}
}

func TestDeleteBook_NotFound(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM books").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.DeleteBook(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteBook() error: %v", err)
	}
	if ok {
		t.Error("expected delete of missing row to report false")
	}
}

func TestListBooksWithLinks(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, description").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "series_title", "series_number",
			"image_url", "created_at", "updated_at",
		}).
			AddRow(2, "Second Book", nil, nil, nil, "/images/b.jpg", now, now).
			AddRow(1, "First Book", nil, nil, nil, "/images/a.jpg", now, now))

	mock.ExpectQuery("SELECT id, book_id, store_name").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "book_id", "store_name", "url", "icon_url", "media_type",
			"created_at", "updated_at",
		}).
			AddRow(10, 1, "Amazon", "https://amazon.example/a", nil, strPtr("ebook"), now, now).
			AddRow(11, 1, "Bookshop", "https://bookshop.example/a", nil, nil, now, now))

	books, err := store.ListBooksWithLinks(context.Background())
	if err != nil {
		t.Fatalf("ListBooksWithLinks() error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	if len(books[0].PurchaseLinks) != 0 {
		t.Errorf("book 2 should have no links, got %d", len(books[0].PurchaseLinks))
	}
	if len(books[1].PurchaseLinks) != 2 {
		t.Fatalf("book 1 should have 2 links, got %d", len(books[1].PurchaseLinks))
	}
	if books[1].PurchaseLinks[0].StoreName != "Amazon" {
		t.Errorf("first link store = %q, want Amazon", books[1].PurchaseLinks[0].StoreName)
	}
}

func TestCreateTestimonial(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO testimonials").
		WithArgs("Jordan R.", strPtr("Loved every page."), "Goodreads").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(1, now, now))

	item := &Testimonial{Name: "Jordan R.", Description: strPtr("Loved every page."), Store: "Goodreads"}
	if err := store.CreateTestimonial(context.Background(), item); err != nil {
		t.Fatalf("CreateTestimonial() error: %v", err)
	}
	if item.ID != 1 {
		t.Errorf("ID = %d, want 1", item.ID)
	}
}

func TestGetContentByPages(t *testing.T) {
	store, mock, cleanup := setupStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT id, page, title").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "page", "title", "description", "created_at", "updated_at",
		}).
			AddRow(1, "home", "Hero", strPtr("Welcome"), now, now).
			AddRow(2, "home", "About", nil, now, now).
			AddRow(3, "books", "Catalog", nil, now, now))

	grouped, err := store.GetContentByPages(context.Background(), []string{"home", "books"})
	if err != nil {
		t.Fatalf("GetContentByPages() error: %v", err)
	}
	if len(grouped["home"]) != 2 {
		t.Errorf("home blocks = %d, want 2", len(grouped["home"]))
	}
	if len(grouped["books"]) != 1 {
		t.Errorf("books blocks = %d, want 1", len(grouped["books"]))
	}
}

func TestGetContentByPages_Empty(t *testing.T) {
	store, _, cleanup := setupStore(t)
	defer cleanup()

	grouped, err := store.GetContentByPages(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetContentByPages() error: %v", err)
	}
	if len(grouped) != 0 {
		t.Errorf("expected empty map, got %d entries", len(grouped))
	}
}
