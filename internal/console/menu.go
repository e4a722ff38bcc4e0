// Package console runs the interactive advising menu over line-oriented
// input and output.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/advisor/internal/advisor"
	"github.com/JonMunkholm/advisor/internal/source"
)

// DefaultLoadTimeout bounds a single menu-triggered load.
const DefaultLoadTimeout = 30 * time.Second

/* ----------------------------------------
	MENU
---------------------------------------- */

// MenuItem is one numbered menu entry. Action returns false to leave the menu.
type MenuItem struct {
	Key    string
	Label  string
	Action func(ctx context.Context) bool
}

// Menu is the top-level option list.
type Menu struct {
	Title string
	Items []MenuItem
}

// Options configures a Console.
type Options struct {
	LoadTimeout time.Duration                   // Per-load timeout (DefaultLoadTimeout if <= 0)
	SourceFor   func(path string) source.Source // Source factory (source.ForPath if nil)
}

// Console drives an advisor.Service from a line-oriented terminal.
type Console struct {
	svc         *advisor.Service
	in          *bufio.Scanner
	out         io.Writer
	loadTimeout time.Duration
	sourceFor   func(path string) source.Source
	menu        *Menu
}

// New creates a console reading commands from in and writing to out.
func New(svc *advisor.Service, in io.Reader, out io.Writer, opts Options) *Console {
	c := &Console{
		svc:         svc,
		in:          bufio.NewScanner(in),
		out:         out,
		loadTimeout: opts.LoadTimeout,
		sourceFor:   opts.SourceFor,
	}
	if c.loadTimeout <= 0 {
		c.loadTimeout = DefaultLoadTimeout
	}
	if c.sourceFor == nil {
		c.sourceFor = source.ForPath
	}
	c.menu = c.buildMenu()
	return c
}

func (c *Console) buildMenu() *Menu {
	return &Menu{
		Title: "Welcome to the CS Advising Assistance Program",
		Items: []MenuItem{
			{Key: "1", Label: "Load data from file", Action: c.loadData},
			{Key: "2", Label: "Print course list (A Through Z)", Action: c.printCourseList},
			{Key: "3", Label: "Print course info", Action: c.printCourse},
			{Key: "9", Label: "Exit", Action: c.exit},
		},
	}
}

// Run shows the menu until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, c.menu.Title)

	for {
		c.showMenu()

		choice, ok := c.readLine()
		if !ok {
			break
		}

		item := c.lookupItem(choice)
		if item == nil {
			fmt.Fprintf(c.out, "Invalid option. Please choose %s.\n", c.choiceList())
			continue
		}
		if !item.Action(ctx) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	fmt.Fprintln(c.out, "Good bye.")
	return c.in.Err()
}

func (c *Console) showMenu() {
	fmt.Fprintln(c.out)
	for _, item := range c.menu.Items {
		fmt.Fprintf(c.out, "  %s. %s\n", item.Key, item.Label)
	}
	fmt.Fprint(c.out, "Select an option: ")
}

func (c *Console) lookupItem(key string) *MenuItem {
	for i := range c.menu.Items {
		if c.menu.Items[i].Key == key {
			return &c.menu.Items[i]
		}
	}
	return nil
}

// choiceList renders the menu keys as "1, 2, 3, or 9".
func (c *Console) choiceList() string {
	keys := make([]string, len(c.menu.Items))
	for i, item := range c.menu.Items {
		keys[i] = item.Key
	}
	if len(keys) < 2 {
		return strings.Join(keys, "")
	}
	return strings.Join(keys[:len(keys)-1], ", ") + ", or " + keys[len(keys)-1]
}

// readLine returns the next trimmed input line; false at end of input.
func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func (c *Console) loadData(ctx context.Context) bool {
	fmt.Fprint(c.out, "Enter CSV file path: ")
	path, _ := c.readLine()

	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	if _, err := c.svc.Load(loadCtx, c.sourceFor(path)); err != nil {
		c.printLoadError(path, err)
	}
	return true
}

func (c *Console) printLoadError(path string, err error) {
	switch {
	case errors.Is(err, source.ErrSourceRequired):
		fmt.Fprintln(c.out, "Error: file path is required.")
	case errors.Is(err, source.ErrSourceUnavailable):
		fmt.Fprintf(c.out, "Error: could not open file '%s'.\n", path)
	default:
		msg := advisor.MapError(err)
		fmt.Fprintf(c.out, "Error: %s (%s).\n", msg.Message, msg.Code)
	}
}

func (c *Console) printCourseList(ctx context.Context) bool {
	courses, err := c.svc.List()
	if err != nil {
		c.printQueryError(err)
		return true
	}
	advisor.WriteCourseList(c.out, courses)
	return true
}

func (c *Console) printCourse(ctx context.Context) bool {
	if c.svc.State() != advisor.StateLoaded {
		c.printQueryError(advisor.ErrNotLoaded)
		return true
	}

	fmt.Fprint(c.out, "Enter course ID (e.g., CS200): ")
	id, _ := c.readLine()

	course, err := c.svc.Lookup(id)
	if err != nil {
		c.printQueryError(err)
		return true
	}
	advisor.WriteCourse(c.out, course)
	return true
}

func (c *Console) printQueryError(err error) {
	var notFound *advisor.NotFoundError
	switch {
	case errors.Is(err, advisor.ErrNotLoaded):
		fmt.Fprintln(c.out, "Please load data first (Option 1).")
	case errors.Is(err, advisor.ErrEmptyCourseID):
		fmt.Fprintln(c.out, "No course ID entered.")
	case errors.As(err, &notFound):
		fmt.Fprintf(c.out, "Course %s not found.\n", notFound.ID)
	default:
		msg := advisor.MapError(err)
		fmt.Fprintf(c.out, "Error: %s (%s).\n", msg.Message, msg.Code)
	}
}

func (c *Console) exit(ctx context.Context) bool {
	fmt.Fprintln(c.out, "Good bye.")
	return false
}
