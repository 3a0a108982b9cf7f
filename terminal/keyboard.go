// Package terminal reads single key presses and draws page regions as
// lines of text.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Keyboard delivers key presses from a terminal in raw mode.
type Keyboard struct {
	in    io.Reader
	fd    int
	state *term.State
}

// OpenKeyboard switches stdin to raw mode when it is a terminal. Otherwise
// input is read as is, which keeps piped input working.
func OpenKeyboard() (*Keyboard, error) {
	k := &Keyboard{in: os.Stdin, fd: int(os.Stdin.Fd())}
	if !term.IsTerminal(k.fd) {
		return k, nil
	}
	state, err := term.MakeRaw(k.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	k.state = state
	return k, nil
}

// NewKeyboard reads keys from r. Used for tests and non-terminal input.
func NewKeyboard(r io.Reader) *Keyboard {
	return &Keyboard{in: r, fd: -1}
}

// Raw reports whether the terminal is in raw mode.
func (k *Keyboard) Raw() bool {
	return k.state != nil
}

// Keys streams key presses until ctx is done or input ends. The reader
// goroutine may outlive ctx while blocked on input.
func (k *Keyboard) Keys(ctx context.Context) <-chan rune {
	keys := make(chan rune)
	go func() {
		defer close(keys)
		r := bufio.NewReader(k.in)
		for {
			c, _, err := r.ReadRune()
			if err != nil {
				return
			}
			select {
			case keys <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

// Close restores the terminal state.
func (k *Keyboard) Close() error {
	if k.state == nil {
		return nil
	}
	err := term.Restore(k.fd, k.state)
	k.state = nil
	return err
}
