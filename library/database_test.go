package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err, "new db")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabaseCreatesNestedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "library.db")
	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening runs the migrations again without touching existing tables.
	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	authors, err := db.GetAllAuthors()
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestAuthorCRUD(t *testing.T) {
	db := tempDB(t)

	austenID, err := db.AddAuthor("Jane Austen")
	require.NoError(t, err)
	bronteID, err := db.AddAuthor("Charlotte Bronte")
	require.NoError(t, err)
	assert.NotEqual(t, austenID, bronteID)

	t.Run("list includes each insert exactly once", func(t *testing.T) {
		authors, err := db.GetAllAuthors()
		require.NoError(t, err)
		require.Len(t, authors, 2)
		assert.Equal(t, &Author{ID: austenID, Name: "Jane Austen"}, authors[0])
		assert.Equal(t, &Author{ID: bronteID, Name: "Charlotte Bronte"}, authors[1])
	})

	t.Run("update touches only the target row", func(t *testing.T) {
		require.NoError(t, db.UpdateAuthor(bronteID, "Charlotte Brontë"))

		a, err := db.GetAuthor(bronteID)
		require.NoError(t, err)
		assert.Equal(t, "Charlotte Brontë", a.Name)

		a, err = db.GetAuthor(austenID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Austen", a.Name)
	})

	t.Run("update of unknown id is a no-op", func(t *testing.T) {
		require.NoError(t, db.UpdateAuthor(9999, "Nobody"))
		authors, err := db.GetAllAuthors()
		require.NoError(t, err)
		assert.Len(t, authors, 2)
	})

	t.Run("delete removes exactly one row", func(t *testing.T) {
		require.NoError(t, db.DeleteAuthor(austenID))
		authors, err := db.GetAllAuthors()
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, bronteID, authors[0].ID)

		_, err = db.GetAuthor(austenID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete of unknown id is a no-op", func(t *testing.T) {
		require.NoError(t, db.DeleteAuthor(9999))
		authors, err := db.GetAllAuthors()
		require.NoError(t, err)
		assert.Len(t, authors, 1)
	})
}

func TestIDsAreNotReused(t *testing.T) {
	db := tempDB(t)

	first, err := db.AddMember("Alice")
	require.NoError(t, err)
	require.NoError(t, db.DeleteMember(first))

	second, err := db.AddMember("Bob")
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestBookListingJoinsAuthor(t *testing.T) {
	db := tempDB(t)

	authorID, err := db.AddAuthor("Jane Austen")
	require.NoError(t, err)
	bookID, err := db.AddBook("Emma", authorID)
	require.NoError(t, err)

	books, err := db.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, &Book{ID: bookID, Title: "Emma", AuthorID: authorID, AuthorName: "Jane Austen"}, books[0])

	// No cascade: the book keeps pointing at the deleted author.
	require.NoError(t, db.DeleteAuthor(authorID))

	books, err = db.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, authorID, books[0].AuthorID)
	assert.Empty(t, books[0].AuthorName)
}

func TestBookWithoutAuthor(t *testing.T) {
	db := tempDB(t)

	id, err := db.AddBook("Beowulf", 0)
	require.NoError(t, err)

	b, err := db.GetBook(id)
	require.NoError(t, err)
	assert.Zero(t, b.AuthorID)
	assert.Empty(t, b.AuthorName)
}

func TestBookUpdateAndDelete(t *testing.T) {
	db := tempDB(t)

	austen, _ := db.AddAuthor("Jane Austen")
	eliot, _ := db.AddAuthor("George Eliot")
	emma, err := db.AddBook("Emma", austen)
	require.NoError(t, err)
	persuasion, err := db.AddBook("Persuasion", austen)
	require.NoError(t, err)

	require.NoError(t, db.UpdateBook(emma, "Middlemarch", eliot))

	b, err := db.GetBook(emma)
	require.NoError(t, err)
	assert.Equal(t, "Middlemarch", b.Title)
	assert.Equal(t, "George Eliot", b.AuthorName)

	b, err = db.GetBook(persuasion)
	require.NoError(t, err)
	assert.Equal(t, "Persuasion", b.Title)
	assert.Equal(t, "Jane Austen", b.AuthorName)

	require.NoError(t, db.DeleteBook(emma))
	books, err := db.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, persuasion, books[0].ID)
}

func TestMemberCRUD(t *testing.T) {
	db := tempDB(t)

	alice, err := db.AddMember("Alice")
	require.NoError(t, err)
	bob, err := db.AddMember("Bob")
	require.NoError(t, err)

	require.NoError(t, db.UpdateMember(alice, "Alicia"))

	members, err := db.GetAllMembers()
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Alicia", members[0].Name)
	assert.Equal(t, "Bob", members[1].Name)

	require.NoError(t, db.DeleteMember(bob))
	members, err = db.GetAllMembers()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice, members[0].ID)
}

func TestBorrowRecordCRUD(t *testing.T) {
	db := tempDB(t)

	emma, _ := db.AddBook("Emma", 0)
	persuasion, _ := db.AddBook("Persuasion", 0)
	alice, _ := db.AddMember("Alice")
	bob, _ := db.AddMember("Bob")

	first, err := db.AddBorrowRecord(emma, alice, "2024-01-01", "2024-01-15")
	require.NoError(t, err)
	second, err := db.AddBorrowRecord(persuasion, bob, "next tuesday", "whenever")
	require.NoError(t, err)

	records, err := db.GetAllBorrowRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, &BorrowRecord{
		ID:         first,
		BookID:     emma,
		MemberID:   alice,
		BookTitle:  "Emma",
		MemberName: "Alice",
		BorrowDate: "2024-01-01",
		ReturnDate: "2024-01-15",
	}, records[0])
	// Dates are stored verbatim, never parsed.
	assert.Equal(t, "next tuesday", records[1].BorrowDate)

	require.NoError(t, db.UpdateBorrowRecord(first, persuasion, bob, "2024-02-01", "2024-02-10"))
	r, err := db.GetBorrowRecord(first)
	require.NoError(t, err)
	assert.Equal(t, "Persuasion", r.BookTitle)
	assert.Equal(t, "Bob", r.MemberName)
	assert.Equal(t, "2024-02-10", r.ReturnDate)

	r, err = db.GetBorrowRecord(second)
	require.NoError(t, err)
	assert.Equal(t, "whenever", r.ReturnDate)

	require.NoError(t, db.DeleteBorrowRecord(first))
	records, err = db.GetAllBorrowRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second, records[0].ID)
}

func TestBorrowRecordDanglingReferences(t *testing.T) {
	db := tempDB(t)

	book, _ := db.AddBook("Emma", 0)
	member, _ := db.AddMember("Alice")
	id, err := db.AddBorrowRecord(book, member, "mon", "fri")
	require.NoError(t, err)

	require.NoError(t, db.DeleteBook(book))
	require.NoError(t, db.DeleteMember(member))

	r, err := db.GetBorrowRecord(id)
	require.NoError(t, err)
	assert.Equal(t, book, r.BookID)
	assert.Equal(t, member, r.MemberID)
	assert.Empty(t, r.BookTitle)
	assert.Empty(t, r.MemberName)
}

func TestReferencesAreNotChecked(t *testing.T) {
	db := tempDB(t)

	_, err := db.AddBook("Orphan", 42)
	require.NoError(t, err)
	_, err = db.AddBorrowRecord(7, 8, "a", "b")
	require.NoError(t, err)
}
