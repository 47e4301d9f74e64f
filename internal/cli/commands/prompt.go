package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when input is needed but stdin is not a terminal.
var ErrNonInteractive = errors.New("stdin is not a terminal")

// Prompter asks the user for missing input.
type Prompter interface {
	Text(label string) (string, error)
	Password(label string) (string, error)
}

type terminalPrompter struct {
	in  *os.File
	out io.Writer
}

func (p terminalPrompter) interactive() bool {
	return term.IsTerminal(int(p.in.Fd()))
}

func (p terminalPrompter) Text(label string) (string, error) {
	if !p.interactive() {
		return "", ErrNonInteractive
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value is required")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

func (p terminalPrompter) Password(label string) (string, error) {
	if !p.interactive() {
		return "", ErrNonInteractive
	}

	fmt.Fprintf(p.out, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(p.in.Fd()))
	fmt.Fprintln(p.out) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}
