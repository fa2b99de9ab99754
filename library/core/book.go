package core

import (
	"github.com/google/uuid"
)

// Book is a catalog entry. BookID is assigned when the book enters the catalog.
// Available is the only field that changes afterward.
type Book struct {
	BookID    uuid.UUID
	Title     string     `validate:"required,notblank"`
	Author    string     `validate:"required,notblank"`
	Genre     string     `validate:"required,notblank"`
	ISBN      ISBNString `validate:"required,notblank"`
	Available bool
}

// BuildBook creates an available Book without a BookID.
func BuildBook(title string, author string, genre string, isbn ISBNString) Book {
	return Book{
		Title:     title,
		Author:    author,
		Genre:     genre,
		ISBN:      isbn,
		Available: true,
	}
}
