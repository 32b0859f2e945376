package setup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter abstracts interactive input so the wizard is testable.
type Prompter interface {
	// Ask shows a prompt and returns the trimmed answer, or def when the
	// answer is empty.
	Ask(prompt, def string) (string, error)
	// AskSecret reads a value without echoing it.
	AskSecret(prompt string) (string, error)
}

// TerminalPrompter reads answers from a terminal. Secrets are read without
// echo when stdin is a real terminal, with a plain read fallback otherwise
// (pipes, tests).
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer

	reader *bufio.Reader
}

// NewTerminalPrompter prompts on stdin/stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout}
}

func (p *TerminalPrompter) line() (*bufio.Reader, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	return p.reader, nil
}

func (p *TerminalPrompter) Ask(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.Out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.Out, "%s: ", prompt)
	}
	r, err := p.line()
	if err != nil {
		return "", err
	}
	answer, err := r.ReadString('\n')
	if err != nil && answer == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *TerminalPrompter) AskSecret(prompt string) (string, error) {
	fmt.Fprintf(p.Out, "%s: ", prompt)
	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	r, err := p.line()
	if err != nil {
		return "", err
	}
	answer, err := r.ReadString('\n')
	if err != nil && answer == "" {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
