// Package ui holds the presentation controller: one tab per table, each with a
// list, a form and an optional selection, mapped onto library operations.
package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"library-records/library"
)

var (
	// ErrUnknownTab is returned when a tab id does not exist.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrUnknownField is returned when a form field does not exist on the tab.
	ErrUnknownField = errors.New("unknown field")
	// ErrNoSuchRow is returned when selecting or choosing outside the list.
	ErrNoSuchRow = errors.New("no such row")
	// ErrEmptyChoice is returned by ParseOptionID for a blank entry.
	ErrEmptyChoice = errors.New("empty choice")
)

// Notifier shows modal messages to the user.
type Notifier interface {
	Info(title, message string)
	Error(title, message string)
}

// Store is the persistence surface the controller drives.
type Store interface {
	AddAuthor(name string) (int64, error)
	GetAllAuthors() ([]*library.Author, error)
	UpdateAuthor(id int64, name string) error
	DeleteAuthor(id int64) error

	AddBook(title string, authorID int64) (int64, error)
	GetAllBooks() ([]*library.Book, error)
	UpdateBook(id int64, title string, authorID int64) error
	DeleteBook(id int64) error

	AddMember(name string) (int64, error)
	GetAllMembers() ([]*library.Member, error)
	UpdateMember(id int64, name string) error
	DeleteMember(id int64) error

	AddBorrowRecord(bookID, memberID int64, borrowDate, returnDate string) (int64, error)
	GetAllBorrowRecords() ([]*library.BorrowRecord, error)
	UpdateBorrowRecord(id, bookID, memberID int64, borrowDate, returnDate string) error
	DeleteBorrowRecord(id int64) error
}

// ParseOptionID recovers the id from an "id name..." list entry or drop-down
// value by taking the first whitespace-separated token.
func ParseOptionID(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, ErrEmptyChoice
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed reference %q: %w", s, err)
	}
	return id, nil
}

// Controller owns the four tabs and routes form actions to the Store.
type Controller struct {
	store  Store
	notify Notifier
	tabs   []*Tab
}

// NewController builds the tabs and loads every list and drop-down.
func NewController(store Store, notify Notifier) (*Controller, error) {
	c := &Controller{store: store, notify: notify}
	c.tabs = []*Tab{c.authorsTab(), c.booksTab(), c.membersTab(), c.borrowRecordsTab()}

	for _, t := range c.tabs {
		if err := c.refresh(t.ID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Tabs returns the tabs in display order.
func (c *Controller) Tabs() []*Tab { return c.tabs }

// Tab looks a tab up by id.
func (c *Controller) Tab(id TabID) (*Tab, error) {
	t, ok := lo.Find(c.tabs, func(t *Tab) bool { return t.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTab, id)
	}
	return t, nil
}

// Add inserts a row from the tab's form.
// Recognised user mistakes are reported through the Notifier and return nil;
// a non-nil error is a fault the caller cannot recover from.
func (c *Controller) Add(id TabID) error {
	t, err := c.Tab(id)
	if err != nil {
		return err
	}
	if !t.formComplete() {
		c.notify.Error("Error", t.emptyMessage)
		return nil
	}
	if err := t.add(t.form()); err != nil {
		return fmt.Errorf("add %s: %w", t.noun, err)
	}
	if err := c.refresh(id); err != nil {
		return err
	}
	c.notify.Info("Success", t.Noun()+" added successfully!")
	return nil
}

// Update overwrites the selected row with the tab's form.
func (c *Controller) Update(id TabID) error {
	t, err := c.Tab(id)
	if err != nil {
		return err
	}
	rowID, ok, err := t.selectedID()
	if err != nil {
		return err
	}
	if !ok {
		c.notify.Error("Error", fmt.Sprintf("Please select %s to update", t.article()))
		return nil
	}
	if !t.formComplete() {
		c.notify.Error("Error", t.emptyMessage)
		return nil
	}
	if err := t.update(rowID, t.form()); err != nil {
		return fmt.Errorf("update %s %d: %w", t.noun, rowID, err)
	}
	if err := c.refresh(id); err != nil {
		return err
	}
	c.notify.Info("Success", t.Noun()+" updated successfully!")
	return nil
}

// Delete removes the selected row. There is no confirmation step.
func (c *Controller) Delete(id TabID) error {
	t, err := c.Tab(id)
	if err != nil {
		return err
	}
	rowID, ok, err := t.selectedID()
	if err != nil {
		return err
	}
	if !ok {
		c.notify.Error("Error", fmt.Sprintf("Please select %s to delete", t.article()))
		return nil
	}
	if err := t.remove(rowID); err != nil {
		return fmt.Errorf("delete %s %d: %w", t.noun, rowID, err)
	}
	if err := c.refresh(id); err != nil {
		return err
	}
	c.notify.Info("Success", t.Noun()+" deleted successfully!")
	return nil
}

// refresh re-renders the changed tab, every list that joins its rows and
// every drop-down filled from it.
func (c *Controller) refresh(changed TabID) error {
	src, err := c.Tab(changed)
	if err != nil {
		return err
	}
	for _, id := range append([]TabID{changed}, src.joinedBy...) {
		t, err := c.Tab(id)
		if err != nil {
			return err
		}
		rows, err := t.load()
		if err != nil {
			return fmt.Errorf("load %s list: %w", t.noun, err)
		}
		t.rows = rows
		t.selected = -1
	}

	if src.options == nil {
		return nil
	}
	var opts []string
	for _, t := range c.tabs {
		for _, f := range t.fields {
			if f.Source != changed {
				continue
			}
			if opts == nil {
				if opts, err = src.options(); err != nil {
					return fmt.Errorf("load %s options: %w", src.noun, err)
				}
			}
			t.choices[f.Name] = opts
		}
	}
	return nil
}
