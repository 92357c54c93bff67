package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/digeex/raider/internal/errx"
)

// TerminalPrompter reads plugin values interactively. The terminal is a
// process-wide resource, so prompts are serialised by a mutex; two
// plugins never interleave their reads.
type TerminalPrompter struct {
	mu     sync.Mutex
	in     io.Reader
	out    io.Writer
	hidden map[string]bool
}

// NewTerminalPrompter prompts on the given streams. Names listed in
// hidden are read without echo when stdin is a real terminal, for OTPs
// and passwords pasted during a run.
func NewTerminalPrompter(in io.Reader, out io.Writer, hidden ...string) *TerminalPrompter {
	h := make(map[string]bool, len(hidden))
	for _, name := range hidden {
		h[name] = true
	}
	return &TerminalPrompter{in: in, out: out, hidden: h}
}

// Prompt asks for one value, retrying on empty input. Context
// cancellation is checked between attempts; a blocked terminal read is
// not interruptible.
func (p *TerminalPrompter) Prompt(ctx context.Context, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reader := bufio.NewReader(p.in)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(p.out, "%s: ", name)

		if p.hidden[name] {
			if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				raw, err := term.ReadPassword(int(f.Fd()))
				fmt.Fprintln(p.out)
				if err != nil {
					return "", errx.Wrap(ErrPromptClosed, err)
				}
				if value := strings.TrimSpace(string(raw)); value != "" {
					return value, nil
				}
				continue
			}
		}

		line, err := reader.ReadString('\n')
		if value := strings.TrimSpace(line); value != "" {
			return value, nil
		}
		if err != nil {
			return "", errx.Wrap(ErrPromptClosed, err)
		}
	}
}
