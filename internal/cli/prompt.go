package cli

import (
	"errors"
	"io"

	"github.com/peterh/liner"
)

var ErrAborted = errors.New("aborted")

// Prompter asks the operator for input that was not passed as a flag.
type Prompter interface {
	Prompt(label string) (string, error)
	Password(label string) (string, error)
}

// terminalPrompter reads from the controlling terminal. Each prompt opens its
// own liner state so the terminal is restored between questions.
type terminalPrompter struct{}

func (terminalPrompter) Prompt(label string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(label)
	return answer, promptError(err)
}

func (terminalPrompter) Password(label string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.PasswordPrompt(label)
	return answer, promptError(err)
}

func promptError(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return ErrAborted
	}
	return err
}
