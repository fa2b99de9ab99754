package catalog

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// ErrBookNotFound is returned by SetAvailability for an unknown BookID.
var ErrBookNotFound = errors.New("book not found in catalog")

const (
	logMsgBookAdded           = "book added to catalog"
	logMsgAvailabilityChanged = "book availability changed"
	logAttrBookID             = "book_id"
	logAttrTitle              = "title"
	logAttrAvailable          = "available"
)

// Catalog holds books in insertion order.
type Catalog struct {
	books  []core.Book
	logger eventstore.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets a logger for catalog mutations (Debug level).
func WithLogger(logger eventstore.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

func New(opts ...Option) *Catalog {
	c := &Catalog{}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AddBook appends book without a duplicate check: adding the same book twice makes two copies.
// A zero BookID, or one already in the catalog, is replaced by a fresh one, so every entry keeps
// its own key. The book always enters the catalog available.
func (c *Catalog) AddBook(book core.Book) (core.Book, error) {
	if err := core.ValidateBook(book); err != nil {
		return core.Book{}, err
	}

	if book.BookID == uuid.Nil || c.indexOf(book.BookID) >= 0 {
		book.BookID = uuid.New()
	}

	book.Available = true
	c.books = append(c.books, book)

	if c.logger != nil {
		c.logger.Debug(logMsgBookAdded, logAttrBookID, book.BookID.String(), logAttrTitle, book.Title)
	}

	return book, nil
}

// SearchByTitle returns every book whose title contains query, ignoring case.
func (c *Catalog) SearchByTitle(query string) []core.Book {
	return c.filter(func(b core.Book) bool {
		return containsFolded(b.Title, query)
	})
}

// SearchByAuthor returns every book whose author contains query, ignoring case.
func (c *Catalog) SearchByAuthor(query string) []core.Book {
	return c.filter(func(b core.Book) bool {
		return containsFolded(b.Author, query)
	})
}

// FilterByGenre returns every book whose genre equals genre, ignoring case.
func (c *Catalog) FilterByGenre(genre string) []core.Book {
	return c.filter(func(b core.Book) bool {
		return equalFolded(b.Genre, genre)
	})
}

// AllBooks returns a snapshot of the catalog.
func (c *Catalog) AllBooks() []core.Book {
	return slices.Clone(c.books)
}

// SearchByExactTitle returns every book whose title equals title, ignoring case and availability.
func (c *Catalog) SearchByExactTitle(title string) []core.Book {
	return c.filter(func(b core.Book) bool {
		return equalFolded(b.Title, title)
	})
}

// Book returns the book with the given BookID.
func (c *Catalog) Book(bookID uuid.UUID) (core.Book, bool) {
	idx := c.indexOf(bookID)
	if idx < 0 {
		return core.Book{}, false
	}

	return c.books[idx], true
}

// SetAvailability marks the book available or unavailable.
func (c *Catalog) SetAvailability(bookID uuid.UUID, available bool) error {
	idx := c.indexOf(bookID)
	if idx < 0 {
		return ErrBookNotFound
	}

	c.books[idx].Available = available

	if c.logger != nil {
		c.logger.Debug(
			logMsgAvailabilityChanged,
			logAttrBookID, bookID.String(),
			logAttrTitle, c.books[idx].Title,
			logAttrAvailable, available,
		)
	}

	return nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.books)
}

func (c *Catalog) indexOf(bookID uuid.UUID) int {
	return slices.IndexFunc(c.books, func(b core.Book) bool {
		return b.BookID == bookID
	})
}

func (c *Catalog) filter(match func(core.Book) bool) []core.Book {
	result := make([]core.Book, 0)

	for _, book := range c.books {
		if match(book) {
			result = append(result, book)
		}
	}

	return result
}
