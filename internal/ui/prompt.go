package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fenilsonani/file-organizer/internal/organizer"
	"github.com/fenilsonani/file-organizer/internal/ui/styles"
)

// Prompter is the line-based menu used when stdin is not a terminal
type Prompter struct {
	reader   *bufio.Reader
	writer   io.Writer
	validate ValidateFunc
}

// NewPrompter creates a prompter reading answers from reader
func NewPrompter(reader io.Reader, writer io.Writer, validate ValidateFunc) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	if validate == nil {
		validate = func(s string) (string, error) { return s, nil }
	}

	return &Prompter{
		reader:   bufio.NewReader(reader),
		writer:   writer,
		validate: validate,
	}
}

// Select asks for a directory and then a method
func (p *Prompter) Select(ctx context.Context) (Selection, error) {
	root, err := p.AskRoot(ctx)
	if err != nil {
		return Selection{}, err
	}
	if root == "" {
		return Selection{Exit: true}, nil
	}

	policy, exit, err := p.AskPolicy(ctx)
	if err != nil {
		return Selection{}, err
	}
	if exit {
		return Selection{Exit: true}, nil
	}
	return Selection{Root: root, Policy: policy}, nil
}

// AskRoot prompts until a valid directory is entered. "q" returns an empty root.
func (p *Prompter) AskRoot(ctx context.Context) (string, error) {
	for {
		line, err := p.readLine(ctx, "Enter the directory path to organize (q to quit): ")
		if err != nil {
			return "", err
		}
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return "", nil
		}

		root, err := p.validate(line)
		if err != nil {
			fmt.Fprintln(p.writer, styles.ErrorStyle.Render(err.Error()))
			continue
		}
		return root, nil
	}
}

// AskPolicy prompts until a valid menu choice is entered
func (p *Prompter) AskPolicy(ctx context.Context) (organizer.Policy, bool, error) {
	policies := organizer.Policies()
	exitChoice := len(policies) + 1

	fmt.Fprintln(p.writer, "\nChoose an organize method:")
	for i, policy := range policies {
		fmt.Fprintf(p.writer, "  %d. %s\n", i+1, policy.Label())
	}
	fmt.Fprintf(p.writer, "  %d. Exit\n", exitChoice)

	for {
		line, err := p.readLine(ctx, fmt.Sprintf("Choice [1-%d]: ", exitChoice))
		if err != nil {
			return "", false, err
		}

		switch strings.ToLower(line) {
		case fmt.Sprint(exitChoice), "q", "quit", "exit":
			return "", true, nil
		}

		policy, err := organizer.ParsePolicy(line)
		if err != nil {
			fmt.Fprintf(p.writer, "Invalid choice %q, please enter a number from 1 to %d.\n", line, exitChoice)
			continue
		}
		return policy, false, nil
	}
}

// readLine returns io.EOF once input is exhausted with nothing left to read
func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	fmt.Fprint(p.writer, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.writer)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
