package library

import "errors"

// ErrNotFound is returned by single-row lookups when no row has the given id.
var ErrNotFound = errors.New("library: record not found")

// Author is a writer that books may point at.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book represents a title in the catalogue.
// AuthorID is 0 when the book has no author. AuthorName is filled from the
// authors table on listing and stays empty when the referenced author is gone.
type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
}

// Member represents a registered library member.
type Member struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BorrowRecord links one book and one member. Dates are free-form text and are
// never parsed.
type BorrowRecord struct {
	ID         int64  `json:"id"`
	BookID     int64  `json:"book_id"`
	MemberID   int64  `json:"member_id"`
	BookTitle  string `json:"book_title"`
	MemberName string `json:"member_name"`
	BorrowDate string `json:"borrow_date"`
	ReturnDate string `json:"return_date"`
}
