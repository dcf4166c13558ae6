package ui

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"library-records/library"
)

// TabID names one of the four tabs.
type TabID string

const (
	Authors       TabID = "authors"
	Books         TabID = "books"
	Members       TabID = "members"
	BorrowRecords TabID = "records"
)

// Form field names.
const (
	FieldName       = "name"
	FieldTitle      = "title"
	FieldAuthor     = "author"
	FieldBook       = "book"
	FieldMember     = "member"
	FieldBorrowDate = "borrow_date"
	FieldReturnDate = "return_date"
)

// Field is one form input. A field with a Source is a drop-down whose values
// are "id name" strings taken from that tab.
type Field struct {
	Name   string
	Label  string
	Source TabID
}

// Choice reports whether the field is a drop-down.
func (f Field) Choice() bool { return f.Source != "" }

type form map[string]string

func (f form) id(name string) (int64, error) { return ParseOptionID(f[name]) }

// Tab is the state behind one tab: its rendered list, selection and form.
type Tab struct {
	ID    TabID
	Title string

	noun         string
	vowel        bool
	emptyMessage string
	fields       []Field
	joinedBy     []TabID

	rows     []string
	selected int
	values   map[string]string
	choices  map[string][]string

	load    func() ([]string, error)
	options func() ([]string, error)
	add     func(form) error
	update  func(int64, form) error
	remove  func(int64) error
}

func newTab(id TabID, title, noun string, fields ...Field) *Tab {
	return &Tab{
		ID:       id,
		Title:    title,
		noun:     noun,
		vowel:    strings.ContainsRune("aeiou", rune(noun[0])),
		fields:   fields,
		selected: -1,
		values:   map[string]string{},
		choices:  map[string][]string{},
	}
}

// Noun is the capitalised entity name used in messages.
func (t *Tab) Noun() string { return strings.ToUpper(t.noun[:1]) + t.noun[1:] }

func (t *Tab) article() string {
	if t.vowel {
		return "an " + t.noun
	}
	return "a " + t.noun
}

// Rows returns the rendered list entries.
func (t *Tab) Rows() []string { return t.rows }

// Fields returns the form layout.
func (t *Tab) Fields() []Field { return t.fields }

// Select marks the i-th (0-based) list entry as selected.
func (t *Tab) Select(i int) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, i+1)
	}
	t.selected = i
	return nil
}

// ClearSelection drops the current selection.
func (t *Tab) ClearSelection() { t.selected = -1 }

// Selected returns the selected list entry, if any.
func (t *Tab) Selected() (string, bool) {
	if t.selected < 0 || t.selected >= len(t.rows) {
		return "", false
	}
	return t.rows[t.selected], true
}

func (t *Tab) selectedID() (int64, bool, error) {
	row, ok := t.Selected()
	if !ok {
		return 0, false, nil
	}
	id, err := ParseOptionID(row)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (t *Tab) field(name string) (Field, error) {
	f, ok := lo.Find(t.fields, func(f Field) bool { return f.Name == name })
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return f, nil
}

// SetField types value into a form field. Drop-downs accept free text too.
func (t *Tab) SetField(name, value string) error {
	if _, err := t.field(name); err != nil {
		return err
	}
	t.values[name] = value
	return nil
}

// Value returns the current content of a form field.
func (t *Tab) Value(name string) string { return t.values[name] }

// Options returns the drop-down values of a choice field.
func (t *Tab) Options(name string) ([]string, error) {
	f, err := t.field(name)
	if err != nil {
		return nil, err
	}
	if !f.Choice() {
		return nil, fmt.Errorf("%w: %s is not a drop-down", ErrUnknownField, name)
	}
	return t.choices[name], nil
}

// Choose picks the i-th (0-based) drop-down value for a choice field.
func (t *Tab) Choose(name string, i int) error {
	opts, err := t.Options(name)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(opts) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, i+1)
	}
	t.values[name] = opts[i]
	return nil
}

func (t *Tab) formComplete() bool {
	return lo.EveryBy(t.fields, func(f Field) bool {
		return strings.TrimSpace(t.values[f.Name]) != ""
	})
}

func (t *Tab) form() form {
	return lo.SliceToMap(t.fields, func(f Field) (string, string) {
		return f.Name, strings.TrimSpace(t.values[f.Name])
	})
}

// ---------------------------------------------------------------------------
// Tab definitions
// ---------------------------------------------------------------------------

func joinRow(id int64, parts ...string) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", id, strings.Join(parts, " ")))
}

func (c *Controller) authorsTab() *Tab {
	t := newTab(Authors, "Authors", "author", Field{Name: FieldName, Label: "Name"})
	t.emptyMessage = "Please enter author name"
	t.joinedBy = []TabID{Books}
	t.load = func() ([]string, error) {
		authors, err := c.store.GetAllAuthors()
		if err != nil {
			return nil, err
		}
		return lo.Map(authors, func(a *library.Author, _ int) string { return joinRow(a.ID, a.Name) }), nil
	}
	t.options = t.load
	t.add = func(f form) error {
		_, err := c.store.AddAuthor(f[FieldName])
		return err
	}
	t.update = func(id int64, f form) error { return c.store.UpdateAuthor(id, f[FieldName]) }
	t.remove = c.store.DeleteAuthor
	return t
}

func (c *Controller) booksTab() *Tab {
	t := newTab(Books, "Books", "book",
		Field{Name: FieldTitle, Label: "Title"},
		Field{Name: FieldAuthor, Label: "Author", Source: Authors},
	)
	t.emptyMessage = "Please fill all fields"
	t.joinedBy = []TabID{BorrowRecords}
	t.load = func() ([]string, error) {
		books, err := c.store.GetAllBooks()
		if err != nil {
			return nil, err
		}
		return lo.Map(books, func(b *library.Book, _ int) string { return joinRow(b.ID, b.Title, b.AuthorName) }), nil
	}
	t.options = func() ([]string, error) {
		books, err := c.store.GetAllBooks()
		if err != nil {
			return nil, err
		}
		return lo.Map(books, func(b *library.Book, _ int) string { return joinRow(b.ID, b.Title) }), nil
	}
	t.add = func(f form) error {
		authorID, err := f.id(FieldAuthor)
		if err != nil {
			return err
		}
		_, err = c.store.AddBook(f[FieldTitle], authorID)
		return err
	}
	t.update = func(id int64, f form) error {
		authorID, err := f.id(FieldAuthor)
		if err != nil {
			return err
		}
		return c.store.UpdateBook(id, f[FieldTitle], authorID)
	}
	t.remove = c.store.DeleteBook
	return t
}

func (c *Controller) membersTab() *Tab {
	t := newTab(Members, "Members", "member", Field{Name: FieldName, Label: "Name"})
	t.emptyMessage = "Please enter member name"
	t.joinedBy = []TabID{BorrowRecords}
	t.load = func() ([]string, error) {
		members, err := c.store.GetAllMembers()
		if err != nil {
			return nil, err
		}
		return lo.Map(members, func(m *library.Member, _ int) string { return joinRow(m.ID, m.Name) }), nil
	}
	t.options = t.load
	t.add = func(f form) error {
		_, err := c.store.AddMember(f[FieldName])
		return err
	}
	t.update = func(id int64, f form) error { return c.store.UpdateMember(id, f[FieldName]) }
	t.remove = c.store.DeleteMember
	return t
}

func (c *Controller) borrowRecordsTab() *Tab {
	t := newTab(BorrowRecords, "Borrow Records", "borrow record",
		Field{Name: FieldBook, Label: "Book", Source: Books},
		Field{Name: FieldMember, Label: "Member", Source: Members},
		Field{Name: FieldBorrowDate, Label: "Borrow Date"},
		Field{Name: FieldReturnDate, Label: "Return Date"},
	)
	t.emptyMessage = "Please fill all fields"
	t.load = func() ([]string, error) {
		records, err := c.store.GetAllBorrowRecords()
		if err != nil {
			return nil, err
		}
		return lo.Map(records, func(r *library.BorrowRecord, _ int) string {
			return joinRow(r.ID, r.BookTitle, r.MemberName, r.BorrowDate, r.ReturnDate)
		}), nil
	}
	t.add = func(f form) error {
		bookID, memberID, err := recordRefs(f)
		if err != nil {
			return err
		}
		_, err = c.store.AddBorrowRecord(bookID, memberID, f[FieldBorrowDate], f[FieldReturnDate])
		return err
	}
	t.update = func(id int64, f form) error {
		bookID, memberID, err := recordRefs(f)
		if err != nil {
			return err
		}
		return c.store.UpdateBorrowRecord(id, bookID, memberID, f[FieldBorrowDate], f[FieldReturnDate])
	}
	t.remove = c.store.DeleteBorrowRecord
	return t
}

func recordRefs(f form) (bookID, memberID int64, err error) {
	if bookID, err = f.id(FieldBook); err != nil {
		return 0, 0, err
	}
	if memberID, err = f.id(FieldMember); err != nil {
		return 0, 0, err
	}
	return bookID, memberID, nil
}
