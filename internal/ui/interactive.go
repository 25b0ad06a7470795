package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/file-organizer/internal/organizer"
	"github.com/fenilsonani/file-organizer/internal/ui/models"
	"github.com/fenilsonani/file-organizer/internal/ui/styles"
	"golang.org/x/term"
)

// Selection is one menu answer
type Selection = models.Selection

// ValidateFunc checks a typed root and returns the path to organize
type ValidateFunc = models.ValidateFunc

// Selector asks the user what to organize next
type Selector interface {
	Select(ctx context.Context) (Selection, error)
}

// RunFunc organizes one selection
type RunFunc func(ctx context.Context, sel Selection) error

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// NewSelector picks the Bubble Tea menu when both ends are terminals and the
// line prompter otherwise
func NewSelector(in, out *os.File, validate ValidateFunc, defaultPolicy organizer.Policy) Selector {
	if IsTerminal(in) && IsTerminal(out) {
		return &MenuSelector{
			input:         in,
			output:        out,
			validate:      validate,
			defaultPolicy: defaultPolicy,
		}
	}
	return NewPrompter(in, out, validate)
}

// MenuSelector runs the Bubble Tea menu once per selection
type MenuSelector struct {
	input         io.Reader
	output        io.Writer
	validate      ValidateFunc
	defaultPolicy organizer.Policy
}

// Select runs the menu until the user picks a method or quits
func (s *MenuSelector) Select(ctx context.Context) (Selection, error) {
	m := models.NewMenuModel(s.validate, s.defaultPolicy)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(s.input),
		tea.WithOutput(s.output),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Selection{}, ctxErr
		}
		return Selection{}, fmt.Errorf("error running interactive menu: %w", err)
	}

	menu, ok := final.(*models.MenuModel)
	if !ok {
		return Selection{Exit: true}, nil
	}
	return menu.Result(), nil
}

// RunInteractive keeps asking for a directory and method and running them
// until the user exits, input ends, or ctx is cancelled. A failed run is
// reported and the loop continues; cancellation ends it.
func RunInteractive(ctx context.Context, sel Selector, w io.Writer, run RunFunc) error {
	fmt.Fprintln(w, styles.TitleStyle.Render("File Organizer"))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := sel.Select(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if choice.Exit {
			fmt.Fprintln(w, "Goodbye!")
			return nil
		}

		if err := run(ctx, choice); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			fmt.Fprintln(w, styles.ErrorStyle.Render("Error: "+err.Error()))
		}
		fmt.Fprintln(w)
	}
}
