package operations

import (
	"regexp"

	"github.com/digeex/raider/internal/errx"
)

// Http evaluates its action when the response status equals status, and
// the otherwise branch (if any) when it does not. Actions are operation
// lists evaluated in order, short-circuiting on the first terminal
// verdict; a false predicate with no otherwise contributes Continue.
type Http struct {
	status    int
	action    []Operation
	otherwise []Operation
}

// NewHttp builds the status conditional.
func NewHttp(status int, action []Operation, otherwise []Operation) *Http {
	return &Http{status: status, action: action, otherwise: otherwise}
}

func (o *Http) Run(c *Context) Verdict {
	if c.Response.StatusCode == o.status {
		return RunAll(o.action, c)
	}
	return RunAll(o.otherwise, c)
}

// Grep evaluates its action when the response body matches the pattern.
// The pattern is compiled once, at graph construction.
type Grep struct {
	re        *regexp.Regexp
	action    []Operation
	otherwise []Operation
}

// NewGrep builds the body-match conditional.
func NewGrep(pattern string, action []Operation, otherwise []Operation) (*Grep, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errx.Wrap(ErrBadPattern, err)
	}
	return &Grep{re: re, action: action, otherwise: otherwise}, nil
}

func (o *Grep) Run(c *Context) Verdict {
	if o.re.Match(c.Response.Body) {
		return RunAll(o.action, c)
	}
	return RunAll(o.otherwise, c)
}
