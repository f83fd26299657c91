// Package prompt reads a password without echo and a yes/no answer from an
// interactive user. Both reads give up when their context is cancelled.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	// ErrEmptyInput is returned by Password when the user submits nothing.
	ErrEmptyInput = errors.New("prompt: empty input")

	// ErrCancelled is returned when the context is cancelled while waiting
	// for input, or when input ends before a password was entered.
	ErrCancelled = errors.New("prompt: cancelled")
)

// EchoWarning is printed before a password prompt when input is not a
// terminal and the typed password would be visible.
const EchoWarning = "Warning: input is not a terminal; the password will be echoed."

// Prompter asks questions on out and reads answers from in. When configured
// with a terminal file descriptor, passwords are read with echo disabled.
//
// A Prompter must not be reused after a read returned ErrCancelled: the
// abandoned read may still be holding the input.
type Prompter struct {
	out   io.Writer
	diag  io.Writer
	lines *bufio.Reader
	fd    int
	tty   bool
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithTerminal reads passwords from fd with echo disabled if fd is a
// terminal. fd should refer to the same stream as the reader given to New.
func WithTerminal(fd int) Option {
	return func(p *Prompter) {
		p.fd = fd
		p.tty = term.IsTerminal(fd)
	}
}

// WithDiagnostics sends warnings, such as EchoWarning, to w instead of
// os.Stderr. They never go to the prompt output, which may carry the hash.
func WithDiagnostics(w io.Writer) Option {
	return func(p *Prompter) {
		p.diag = w
	}
}

// New returns a Prompter reading lines from in and writing prompts to out.
// Warnings go to os.Stderr unless WithDiagnostics is given.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		out:   out,
		diag:  os.Stderr,
		lines: bufio.NewReader(in),
		fd:    -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsTerminal reports whether passwords are read with echo disabled.
func (p *Prompter) IsTerminal() bool { return p.tty }

// Password prints label and reads a password. The bytes are returned exactly
// as typed, minus the line terminator.
func (p *Prompter) Password(ctx context.Context, label string) ([]byte, error) {
	var (
		pw  []byte
		err error
	)
	if p.tty {
		fmt.Fprint(p.out, label)
		pw, err = p.readSecret(ctx)
		if err == nil {
			// The user's Enter was not echoed.
			fmt.Fprintln(p.out)
		}
	} else {
		fmt.Fprintln(p.diag, EchoWarning)
		fmt.Fprint(p.out, label)
		var line string
		line, err = p.readLine(ctx)
		pw = []byte(line)
	}
	switch {
	case errors.Is(err, io.EOF):
		return nil, ErrCancelled
	case err != nil:
		return nil, err
	case len(pw) == 0:
		return nil, ErrEmptyInput
	}
	return pw, nil
}

// Confirm prints question and reports whether the answer is "y" or "Y",
// ignoring surrounding whitespace. End of input counts as "no".
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprint(p.out, question)
	line, err := p.readLine(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

type readResult struct {
	b   []byte
	err error
}

func (p *Prompter) readSecret(ctx context.Context) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	state, err := term.GetState(p.fd)
	if err != nil {
		return nil, fmt.Errorf("prompt: save terminal state: %w", err)
	}

	done := make(chan readResult, 1)
	go func() {
		b, err := term.ReadPassword(p.fd)
		done <- readResult{b, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return nil, fmt.Errorf("prompt: read password: %w", r.err)
		}
		return r.b, r.err
	case <-ctx.Done():
		// ReadPassword restores echo only when it returns; it is still blocked.
		_ = term.Restore(p.fd, state)
		return nil, ErrCancelled
	}
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// A final line without terminator is returned with a nil error; io.EOF is
// returned only when nothing was read.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrCancelled
	}
	done := make(chan readResult, 1)
	go func() {
		s, err := p.lines.ReadString('\n')
		done <- readResult{[]byte(s), err}
	}()

	select {
	case r := <-done:
		line := strings.TrimSuffix(strings.TrimSuffix(string(r.b), "\n"), "\r")
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && len(r.b) > 0 {
				return line, nil
			}
			if errors.Is(r.err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("prompt: read line: %w", r.err)
		}
		return line, nil
	case <-ctx.Done():
		return "", ErrCancelled
	}
}
