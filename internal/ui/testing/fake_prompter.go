// Package testing provides test doubles for the ui package.
package testing

import (
	"fmt"

	"github.com/rileyhilliard/dorc/internal/ui"
)

// FakePrompter answers prompts from queues. An empty queue answers with
// ui.ErrCancelled so a test that prompts unexpectedly takes the cancel path.
type FakePrompter struct {
	confirms []bool
	inputs   []string

	// Tracking for assertions
	ConfirmCalls []string
	InputCalls   []string
}

// NewFakePrompter creates a prompter with no queued answers.
func NewFakePrompter() *FakePrompter {
	return &FakePrompter{}
}

// AnswerConfirm queues answers for Confirm.
func (p *FakePrompter) AnswerConfirm(answers ...bool) *FakePrompter {
	p.confirms = append(p.confirms, answers...)
	return p
}

// AnswerInput queues answers for Input.
func (p *FakePrompter) AnswerInput(answers ...string) *FakePrompter {
	p.inputs = append(p.inputs, answers...)
	return p
}

// Confirm implements ui.Prompter.
func (p *FakePrompter) Confirm(title, description string) (bool, error) {
	p.ConfirmCalls = append(p.ConfirmCalls, title)
	if len(p.confirms) == 0 {
		return false, ui.ErrCancelled
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

// Input implements ui.Prompter. Queued answers still pass through validate.
func (p *FakePrompter) Input(title, description string, validate func(string) error) (string, error) {
	p.InputCalls = append(p.InputCalls, title)
	if len(p.inputs) == 0 {
		return "", ui.ErrCancelled
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", fmt.Errorf("fake input %q rejected: %w", answer, err)
		}
	}
	return answer, nil
}
