// Package operations implements the post-response actions attached to a
// flow: control-flow (NextStage), conditionals (Http, Grep) and side
// effects (Print, Save, Error).
package operations

import (
	"io"
	"log/slog"
	"os"

	"github.com/digeex/raider/pkg/api"
)

// Context is what an operation runs against: the just-received response,
// the run's plugin-value store, and the output stream for Print.
type Context struct {
	Response *api.Response
	Store    api.ValueStore
	Stdout   io.Writer
	Logger   *slog.Logger
}

func (c *Context) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Operation is a post-response action. Run must be side-effect-only for
// non-terminal operations and must not mutate the response.
type Operation interface {
	Run(c *Context) Verdict
}

// RunAll evaluates operations in declared order, short-circuiting on the
// first terminal verdict. An empty list contributes Continue.
func RunAll(ops []Operation, c *Context) Verdict {
	for _, op := range ops {
		if verdict := op.Run(c); verdict.Terminal() {
			return verdict
		}
	}
	return Continue()
}
