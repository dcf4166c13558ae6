// Package console runs the interactive terminal front end over a ui.Controller.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/term"

	"library-records/ui"
)

// Shell reads commands line by line and drives the controller.
type Shell struct {
	in    *bufio.Scanner
	out   io.Writer
	ctrl  *ui.Controller
	tab   ui.TabID
	width int

	// Interactive prints a prompt before every command.
	Interactive bool
}

// New returns a shell reading from in and writing to out. Call Attach before Run.
func New(in io.Reader, out io.Writer) *Shell {
	return &Shell{
		in:  bufio.NewScanner(in),
		out: out,
		tab: ui.Authors,
	}
}

// NewStdio wires the shell to the process terminal. The prompt is printed and
// list entries are cut to the window width only when stdin/stdout are a tty.
func NewStdio() *Shell {
	s := New(os.Stdin, os.Stdout)
	s.Interactive = term.IsTerminal(int(os.Stdin.Fd()))
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		s.width = w
	}
	return s
}

// Attach sets the controller the shell drives. The shell itself is usually the
// controller's Notifier, so the two are built in two steps.
func (s *Shell) Attach(c *ui.Controller) { s.ctrl = c }

// Info prints a success message.
func (s *Shell) Info(title, message string) {
	fmt.Fprintf(s.out, "[%s] %s\n", title, message)
}

// Error prints an error message.
func (s *Shell) Error(title, message string) {
	fmt.Fprintf(s.out, "[%s] %s\n", title, message)
}

// Run processes commands until "exit" or end of input. A non-nil error means
// the controller hit a fault it could not recover from.
func (s *Shell) Run() error {
	if s.ctrl == nil {
		return errors.New("console: no controller attached")
	}

	fmt.Fprintln(s.out, "Library records. Type 'help' for commands.")
	s.printList()

	for {
		if s.Interactive {
			fmt.Fprintf(s.out, "\n[%s] > ", s.currentTab().Title)
		}
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch strings.ToLower(cmd) {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case "help":
			s.printHelp()
		case "tabs":
			s.handleTabs()
		case "tab":
			s.handleSwitchTab(rest)
		case "list":
			s.printList()
		case "form":
			s.printForm()
		case "select":
			s.handleSelect(rest)
		case "clear":
			s.currentTab().ClearSelection()
			fmt.Fprintln(s.out, "Selection cleared.")
		case "set":
			s.handleSet(rest)
		case "options":
			s.handleOptions(rest)
		case "choose":
			s.handleChoose(rest)
		case "add":
			err = s.ctrl.Add(s.tab)
		case "update":
			err = s.ctrl.Update(s.tab)
		case "delete":
			err = s.ctrl.Delete(s.tab)
		default:
			fmt.Fprintln(s.out, "Unknown command. Type 'help' to see the available commands.")
		}

		if err != nil {
			return err
		}
		if lo.Contains([]string{"add", "update", "delete"}, strings.ToLower(cmd)) {
			s.printList()
		}
	}
}

func (s *Shell) currentTab() *ui.Tab {
	t, err := s.ctrl.Tab(s.tab)
	if err != nil {
		// s.tab only ever holds ids returned by the controller.
		panic(err)
	}
	return t
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Available commands:")
	fmt.Fprintln(s.out, "  tabs                     list the tabs")
	fmt.Fprintln(s.out, "  tab <name>               switch tab (authors, books, members, records)")
	fmt.Fprintln(s.out, "  list                     show the current tab's list")
	fmt.Fprintln(s.out, "  select <n> | clear       select list entry n / drop the selection")
	fmt.Fprintln(s.out, "  form                     show the form fields")
	fmt.Fprintln(s.out, "  set <field> <value>      type into a form field")
	fmt.Fprintln(s.out, "  options <field>          show drop-down values")
	fmt.Fprintln(s.out, "  choose <field> <n>       pick drop-down value n")
	fmt.Fprintln(s.out, "  add | update | delete    run the form action")
	fmt.Fprintln(s.out, "  exit                     quit")
}

func (s *Shell) handleTabs() {
	for _, t := range s.ctrl.Tabs() {
		marker := " "
		if t.ID == s.tab {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %-8s %s\n", marker, t.ID, t.Title)
	}
}

func (s *Shell) handleSwitchTab(name string) {
	id := ui.TabID(strings.ToLower(name))
	if _, err := s.ctrl.Tab(id); err != nil {
		fmt.Fprintf(s.out, "Unknown tab: %s\n", name)
		return
	}
	s.tab = id
	s.printList()
}

func (s *Shell) printList() {
	t := s.currentTab()
	fmt.Fprintf(s.out, "%s:\n", t.Title)

	rows := t.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(s.out, "  (empty)")
		return
	}
	selected, _ := t.Selected()
	for i, row := range rows {
		marker := " "
		if row == selected {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %3d. %s\n", marker, i+1, s.truncate(row, 8))
	}
}

func (s *Shell) printForm() {
	t := s.currentTab()
	fmt.Fprintf(s.out, "%s form:\n", t.Title)
	for _, f := range t.Fields() {
		kind := "text"
		if f.Choice() {
			kind = "choice"
		}
		fmt.Fprintf(s.out, "  %-12s %-7s %q\n", f.Name, kind, t.Value(f.Name))
	}
	if row, ok := t.Selected(); ok {
		fmt.Fprintf(s.out, "Selected: %s\n", row)
	} else {
		fmt.Fprintln(s.out, "Selected: none")
	}
}

func (s *Shell) handleSelect(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid row number: %s\n", arg)
		return
	}
	t := s.currentTab()
	if err := t.Select(n - 1); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	row, _ := t.Selected()
	fmt.Fprintf(s.out, "Selected: %s\n", row)
}

func (s *Shell) handleSet(arg string) {
	name, value, _ := strings.Cut(arg, " ")
	if name == "" {
		fmt.Fprintln(s.out, "Usage: set <field> <value>")
		return
	}
	if err := s.currentTab().SetField(name, strings.TrimSpace(value)); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) handleOptions(name string) {
	opts, err := s.currentTab().Options(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if len(opts) == 0 {
		fmt.Fprintln(s.out, "  (no values)")
		return
	}
	for i, o := range opts {
		fmt.Fprintf(s.out, "  %3d. %s\n", i+1, s.truncate(o, 8))
	}
}

func (s *Shell) handleChoose(arg string) {
	name, num, _ := strings.Cut(arg, " ")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		fmt.Fprintf(s.out, "Invalid option number: %s\n", num)
		return
	}
	t := s.currentTab()
	if err := t.Choose(name, n-1); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, t.Value(name))
}

// truncate cuts str so that it fits the terminal after indent columns.
func (s *Shell) truncate(str string, indent int) string {
	limit := s.width - indent
	if s.width == 0 || len(str) <= limit {
		return str
	}
	if limit <= 3 {
		return str[:max(limit, 0)]
	}
	return str[:limit-3] + "..."
}
