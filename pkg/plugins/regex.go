package plugins

import (
	"regexp"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// NewRegex extracts the first capturing group of the first match of expr
// against the response body. The expression is compiled once, at graph
// construction.
func NewRegex(name, expr string) (*Plugin, error) {
	return NewRegexGroup(name, expr, 1)
}

// NewRegexGroup extracts capture group number group instead of the first.
func NewRegexGroup(name, expr string, group int) (*Plugin, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errx.Wrap(ErrBadRegex, err)
	}
	if group < 1 || group > re.NumSubexp() {
		return nil, errx.With(ErrBadRegex, ": %q has no capture group %d", expr, group)
	}
	return &Plugin{
		name:  name,
		kind:  "regex",
		flags: NeedsResponse,
		extract: func(resp *api.Response) (string, error) {
			m := re.FindStringSubmatch(resp.Text())
			if m == nil {
				return "", errx.With(ErrNoMatch, ": regex %q", expr)
			}
			return m[group], nil
		},
	}, nil
}
