package plugins

import (
	"net/url"
	"strings"

	"github.com/digeex/raider/internal/errx"
)

// NewUrlParser extracts one component of the URL held by another plugin.
//
// element is one of "scheme", "netloc", "path", "fragment", or
// "query.<key>" to pull a single query parameter. The plugin takes the
// element as its name, matching how redirect-chasing configs refer to it.
func NewUrlParser(parent *Plugin, element string) *Plugin {
	return &Plugin{
		name:  element,
		kind:  "urlparser",
		flags: DependsOnPlugins,
		deps:  []*Plugin{parent},
		resolve: func(p *Plugin, env *Env) (string, error) {
			raw, err := parent.Resolve(env)
			if err != nil {
				return "", errx.With(ErrDepUnresolved, ": %s", parent.Name())
			}
			u, err := url.Parse(raw)
			if err != nil {
				return "", errx.Wrap(ErrParseURL, err)
			}
			switch {
			case strings.HasPrefix(element, "query."):
				key := strings.TrimPrefix(element, "query.")
				values, ok := u.Query()[key]
				if !ok || len(values) == 0 {
					return "", errx.With(ErrNoMatch, ": query parameter %q", key)
				}
				return values[0], nil
			case element == "scheme":
				return u.Scheme, nil
			case element == "netloc":
				return u.Host, nil
			case element == "path":
				return u.Path, nil
			case element == "fragment":
				return u.Fragment, nil
			}
			return "", errx.With(ErrParseURL, ": unknown element %q", element)
		},
	}
}
