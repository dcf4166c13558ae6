package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LibraryManager is a thin façade over the Database, keeping front-end code simple.
type LibraryManager struct {
	db *Database
}

// NewLibraryManager opens (or creates) the SQLite database at dbPath.
func NewLibraryManager(dbPath string) (*LibraryManager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &LibraryManager{db: db}, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error { return lm.db.Close() }

// ------------------ Author helpers ------------------

func (lm *LibraryManager) AddAuthor(name string) (int64, error) {
	id, err := lm.db.AddAuthor(name)
	if err == nil {
		log.Printf("added author %d %q", id, name)
	}
	return id, err
}

func (lm *LibraryManager) GetAuthor(id int64) (*Author, error) { return lm.db.GetAuthor(id) }
func (lm *LibraryManager) GetAllAuthors() ([]*Author, error)   { return lm.db.GetAllAuthors() }

func (lm *LibraryManager) UpdateAuthor(id int64, name string) error {
	log.Printf("update author %d", id)
	return lm.db.UpdateAuthor(id, name)
}

func (lm *LibraryManager) DeleteAuthor(id int64) error {
	log.Printf("delete author %d", id)
	return lm.db.DeleteAuthor(id)
}

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title string, authorID int64) (int64, error) {
	id, err := lm.db.AddBook(title, authorID)
	if err == nil {
		log.Printf("added book %d %q (author %d)", id, title, authorID)
	}
	return id, err
}

func (lm *LibraryManager) GetBook(id int64) (*Book, error) { return lm.db.GetBook(id) }
func (lm *LibraryManager) GetAllBooks() ([]*Book, error)   { return lm.db.GetAllBooks() }

func (lm *LibraryManager) UpdateBook(id int64, title string, authorID int64) error {
	log.Printf("update book %d", id)
	return lm.db.UpdateBook(id, title, authorID)
}

func (lm *LibraryManager) DeleteBook(id int64) error {
	log.Printf("delete book %d", id)
	return lm.db.DeleteBook(id)
}

// ------------------ Member helpers ------------------

func (lm *LibraryManager) AddMember(name string) (int64, error) {
	id, err := lm.db.AddMember(name)
	if err == nil {
		log.Printf("added member %d %q", id, name)
	}
	return id, err
}

func (lm *LibraryManager) GetMember(id int64) (*Member, error) { return lm.db.GetMember(id) }
func (lm *LibraryManager) GetAllMembers() ([]*Member, error)   { return lm.db.GetAllMembers() }

func (lm *LibraryManager) UpdateMember(id int64, name string) error {
	log.Printf("update member %d", id)
	return lm.db.UpdateMember(id, name)
}

func (lm *LibraryManager) DeleteMember(id int64) error {
	log.Printf("delete member %d", id)
	return lm.db.DeleteMember(id)
}

// ------------------ Borrow records ------------------

func (lm *LibraryManager) AddBorrowRecord(bookID, memberID int64, borrowDate, returnDate string) (int64, error) {
	id, err := lm.db.AddBorrowRecord(bookID, memberID, borrowDate, returnDate)
	if err == nil {
		log.Printf("added borrow record %d (book %d, member %d)", id, bookID, memberID)
	}
	return id, err
}

func (lm *LibraryManager) GetBorrowRecord(id int64) (*BorrowRecord, error) {
	return lm.db.GetBorrowRecord(id)
}

func (lm *LibraryManager) GetAllBorrowRecords() ([]*BorrowRecord, error) {
	return lm.db.GetAllBorrowRecords()
}

func (lm *LibraryManager) UpdateBorrowRecord(id, bookID, memberID int64, borrowDate, returnDate string) error {
	log.Printf("update borrow record %d", id)
	return lm.db.UpdateBorrowRecord(id, bookID, memberID, borrowDate, returnDate)
}

func (lm *LibraryManager) DeleteBorrowRecord(id int64) error {
	log.Printf("delete borrow record %d", id)
	return lm.db.DeleteBorrowRecord(id)
}

// ------------------ Catalog import ------------------

// ImportResult summarises an ImportCatalog run.
type ImportResult struct {
	Books          []int64
	AuthorsCreated int
	Skipped        int
}

// ImportCatalog reads "title,author" CSV rows and stores one book per row.
// An existing author with the same name is reused. A leading "title,author"
// header row and rows with an empty title are skipped.
func (lm *LibraryManager) ImportCatalog(r io.Reader) (ImportResult, error) {
	var res ImportResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	authors := map[string]int64{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		title := strings.TrimSpace(rec[0])
		author := ""
		if len(rec) > 1 {
			author = strings.TrimSpace(rec[1])
		}
		if line == 1 && strings.EqualFold(title, "title") && strings.EqualFold(author, "author") {
			continue
		}
		if title == "" {
			res.Skipped++
			continue
		}

		var authorID int64
		if author != "" {
			id, created, err := lm.resolveAuthor(authors, author)
			if err != nil {
				return res, fmt.Errorf("catalog line %d: %w", line, err)
			}
			if created {
				res.AuthorsCreated++
			}
			authorID = id
		}

		bookID, err := lm.AddBook(title, authorID)
		if err != nil {
			return res, fmt.Errorf("catalog line %d: add book: %w", line, err)
		}
		res.Books = append(res.Books, bookID)
	}
	return res, nil
}

func (lm *LibraryManager) resolveAuthor(seen map[string]int64, name string) (int64, bool, error) {
	if id, ok := seen[name]; ok {
		return id, false, nil
	}
	existing, err := lm.db.FindAuthorByName(name)
	switch {
	case err == nil:
		seen[name] = existing.ID
		return existing.ID, false, nil
	case !errors.Is(err, ErrNotFound):
		return 0, false, fmt.Errorf("find author: %w", err)
	}

	id, err := lm.AddAuthor(name)
	if err != nil {
		return 0, false, fmt.Errorf("add author: %w", err)
	}
	seen[name] = id
	return id, true, nil
}

// ImportCatalogFromFile reads the CSV file at path (relative paths resolve from cwd).
func (lm *LibraryManager) ImportCatalogFromFile(path string) (ImportResult, error) {
	if strings.TrimSpace(path) == "" {
		return ImportResult{}, fmt.Errorf("file path cannot be empty")
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()
	return lm.ImportCatalog(f)
}
