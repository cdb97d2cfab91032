package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user dismisses a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter asks the user for confirmations and free-text input.
type Prompter interface {
	// Confirm asks a yes/no question. Dismissing the prompt returns ErrCancelled.
	Confirm(title, description string) (bool, error)
	// Input asks for a line of text. validate may be nil.
	Input(title, description string, validate func(string) error) (string, error)
}

// HuhPrompter implements Prompter with huh forms.
type HuhPrompter struct {
	// Accessible renders prompts as plain line-based questions (screen readers, dumb terminals).
	Accessible bool
}

// NewHuhPrompter creates the interactive prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

// Confirm implements Prompter.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithAccessible(p.Accessible)

	if err := form.Run(); err != nil {
		return false, mapFormErr(err)
	}
	return confirmed, nil
}

// Input implements Prompter.
func (p *HuhPrompter) Input(title, description string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible)
	if err := form.Run(); err != nil {
		return "", mapFormErr(err)
	}
	return strings.TrimSpace(value), nil
}

func mapFormErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// NotEmpty is a validator rejecting blank input.
func NotEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " can't be empty")
		}
		return nil
	}
}
