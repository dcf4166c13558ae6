package library

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Database provides high-level helpers around a SQLite connection.
type Database struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// NewDatabase opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// References are informational only: deleting an author must not be
	// blocked by the books that still point at it.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=0", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("Database initialized at %s", dbPath)
	return &Database{db: db, sq: squirrel.StatementBuilder}, nil
}

// Close closes the DB.
func (d *Database) Close() error {
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Statement plumbing
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

// withTx runs fn in a transaction and commits it when fn succeeds.
func (d *Database) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func execTx(tx *sql.Tx, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}
	return tx.Exec(query, args...)
}

func (d *Database) insert(b squirrel.InsertBuilder) (int64, error) {
	var id int64
	err := d.withTx(func(tx *sql.Tx) error {
		res, err := execTx(tx, b)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// mutate runs an UPDATE or DELETE. A statement matching no row is not an error.
func (d *Database) mutate(b squirrel.Sqlizer) error {
	return d.withTx(func(tx *sql.Tx) error {
		_, err := execTx(tx, b)
		return err
	})
}

func queryAll[T any](db *sql.DB, b squirrel.SelectBuilder, scan func(rowScanner) (*T, error)) ([]*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func queryOne[T any](db *sql.DB, b squirrel.SelectBuilder, scan func(rowScanner) (*T, error)) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	v, err := scan(db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// nullableID stores ids <= 0 as NULL.
func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

// ---------------------------------------------------------------------------
// Authors
// ---------------------------------------------------------------------------

func scanAuthor(r rowScanner) (*Author, error) {
	var a Author
	if err := r.Scan(&a.ID, &a.Name); err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *Database) selectAuthors() squirrel.SelectBuilder {
	return d.sq.Select("author_id", "name").From("authors")
}

func (d *Database) AddAuthor(name string) (int64, error) {
	return d.insert(d.sq.Insert("authors").Columns("name").Values(name))
}

// GetAllAuthors returns every author in id order.
func (d *Database) GetAllAuthors() ([]*Author, error) {
	return queryAll(d.db, d.selectAuthors().OrderBy("author_id"), scanAuthor)
}

func (d *Database) GetAuthor(id int64) (*Author, error) {
	return queryOne(d.db, d.selectAuthors().Where(squirrel.Eq{"author_id": id}), scanAuthor)
}

// UpdateAuthor renames the author; an unknown id changes nothing.
func (d *Database) UpdateAuthor(id int64, name string) error {
	return d.mutate(d.sq.Update("authors").Set("name", name).Where(squirrel.Eq{"author_id": id}))
}

// DeleteAuthor removes the author row only. Books keep their author_id.
func (d *Database) DeleteAuthor(id int64) error {
	return d.mutate(d.sq.Delete("authors").Where(squirrel.Eq{"author_id": id}))
}

// FindAuthorByName returns the first author with exactly this name.
func (d *Database) FindAuthorByName(name string) (*Author, error) {
	q := d.selectAuthors().Where(squirrel.Eq{"name": name}).OrderBy("author_id").Limit(1)
	return queryOne(d.db, q, scanAuthor)
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

func scanBook(r rowScanner) (*Book, error) {
	var b Book
	if err := r.Scan(&b.ID, &b.Title, &b.AuthorID, &b.AuthorName); err != nil {
		return nil, err
	}
	return &b, nil
}

// selectBooks joins the author name; a missing author yields an empty name.
func (d *Database) selectBooks() squirrel.SelectBuilder {
	return d.sq.
		Select("b.book_id", "b.title", "COALESCE(b.author_id, 0)", "COALESCE(a.name, '')").
		From("books b").
		LeftJoin("authors a ON a.author_id = b.author_id")
}

// AddBook inserts a book. authorID <= 0 stores no author.
func (d *Database) AddBook(title string, authorID int64) (int64, error) {
	return d.insert(d.sq.Insert("books").Columns("title", "author_id").Values(title, nullableID(authorID)))
}

func (d *Database) GetAllBooks() ([]*Book, error) {
	return queryAll(d.db, d.selectBooks().OrderBy("b.book_id"), scanBook)
}

func (d *Database) GetBook(id int64) (*Book, error) {
	return queryOne(d.db, d.selectBooks().Where(squirrel.Eq{"b.book_id": id}), scanBook)
}

func (d *Database) UpdateBook(id int64, title string, authorID int64) error {
	return d.mutate(d.sq.Update("books").
		Set("title", title).
		Set("author_id", nullableID(authorID)).
		Where(squirrel.Eq{"book_id": id}))
}

func (d *Database) DeleteBook(id int64) error {
	return d.mutate(d.sq.Delete("books").Where(squirrel.Eq{"book_id": id}))
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

func scanMember(r rowScanner) (*Member, error) {
	var m Member
	if err := r.Scan(&m.ID, &m.Name); err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *Database) selectMembers() squirrel.SelectBuilder {
	return d.sq.Select("member_id", "name").From("members")
}

func (d *Database) AddMember(name string) (int64, error) {
	return d.insert(d.sq.Insert("members").Columns("name").Values(name))
}

// GetAllMembers returns all members.
func (d *Database) GetAllMembers() ([]*Member, error) {
	return queryAll(d.db, d.selectMembers().OrderBy("member_id"), scanMember)
}

// GetMember fetches a single member.
func (d *Database) GetMember(id int64) (*Member, error) {
	return queryOne(d.db, d.selectMembers().Where(squirrel.Eq{"member_id": id}), scanMember)
}

func (d *Database) UpdateMember(id int64, name string) error {
	return d.mutate(d.sq.Update("members").Set("name", name).Where(squirrel.Eq{"member_id": id}))
}

func (d *Database) DeleteMember(id int64) error {
	return d.mutate(d.sq.Delete("members").Where(squirrel.Eq{"member_id": id}))
}

// ---------------------------------------------------------------------------
// Borrow records
// ---------------------------------------------------------------------------

func scanBorrowRecord(r rowScanner) (*BorrowRecord, error) {
	var br BorrowRecord
	err := r.Scan(&br.ID, &br.BookID, &br.MemberID, &br.BookTitle, &br.MemberName, &br.BorrowDate, &br.ReturnDate)
	if err != nil {
		return nil, err
	}
	return &br, nil
}

func (d *Database) selectBorrowRecords() squirrel.SelectBuilder {
	return d.sq.
		Select(
			"r.record_id",
			"COALESCE(r.book_id, 0)",
			"COALESCE(r.member_id, 0)",
			"COALESCE(b.title, '')",
			"COALESCE(m.name, '')",
			"COALESCE(r.borrow_date, '')",
			"COALESCE(r.return_date, '')",
		).
		From("borrow_records r").
		LeftJoin("books b ON b.book_id = r.book_id").
		LeftJoin("members m ON m.member_id = r.member_id")
}

// AddBorrowRecord stores a borrow transaction. Dates are kept verbatim.
func (d *Database) AddBorrowRecord(bookID, memberID int64, borrowDate, returnDate string) (int64, error) {
	return d.insert(d.sq.Insert("borrow_records").
		Columns("book_id", "member_id", "borrow_date", "return_date").
		Values(nullableID(bookID), nullableID(memberID), borrowDate, returnDate))
}

func (d *Database) GetAllBorrowRecords() ([]*BorrowRecord, error) {
	return queryAll(d.db, d.selectBorrowRecords().OrderBy("r.record_id"), scanBorrowRecord)
}

func (d *Database) GetBorrowRecord(id int64) (*BorrowRecord, error) {
	return queryOne(d.db, d.selectBorrowRecords().Where(squirrel.Eq{"r.record_id": id}), scanBorrowRecord)
}

func (d *Database) UpdateBorrowRecord(id, bookID, memberID int64, borrowDate, returnDate string) error {
	return d.mutate(d.sq.Update("borrow_records").
		SetMap(map[string]any{
			"book_id":     nullableID(bookID),
			"member_id":   nullableID(memberID),
			"borrow_date": borrowDate,
			"return_date": returnDate,
		}).
		Where(squirrel.Eq{"record_id": id}))
}

func (d *Database) DeleteBorrowRecord(id int64) error {
	return d.mutate(d.sq.Delete("borrow_records").Where(squirrel.Eq{"record_id": id}))
}
