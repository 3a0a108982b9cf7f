package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Screen prints region updates and the answer prompt. In raw mode lines
// must end with \r\n.
type Screen struct {
	mu  sync.Mutex
	out io.Writer
	eol string
}

func NewScreen(out io.Writer, raw bool) *Screen {
	eol := "\n"
	if raw {
		eol = "\r\n"
	}
	return &Screen{out: out, eol: eol}
}

// Region shows the new text of a page region.
func (s *Screen) Region(target, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s[%s] %s%s", s.clearLine(), target, text, s.eol)
}

// Prompt redraws the answer line.
func (s *Screen) Prompt(answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s> %s", s.clearLine(), answer)
}

// Message prints a status line.
func (s *Screen) Message(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s%s%s", s.clearLine(), fmt.Sprintf(format, args...), s.eol)
}

func (s *Screen) clearLine() string {
	return "\r\x1b[2K"
}
