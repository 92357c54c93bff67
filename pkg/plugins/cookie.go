package plugins

import (
	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// NewCookie extracts the response cookie with the plugin's name. As a
// request input it emits a name=value pair from the stored value.
func NewCookie(name string) *Plugin {
	return &Plugin{
		name:  name,
		kind:  "cookie",
		flags: NeedsResponse,
		extract: func(resp *api.Response) (string, error) {
			if v, ok := resp.Cookie(name); ok {
				return v, nil
			}
			return "", errx.With(ErrNoMatch, ": cookie %q", name)
		},
	}
}

// NewCookieValue is a cookie with a predefined value; it never reads the
// response.
func NewCookieValue(name, value string) *Plugin {
	return &Plugin{
		name: name,
		kind: "cookie",
		resolve: func(p *Plugin, env *Env) (string, error) {
			return value, nil
		},
	}
}

// CookieFromPlugin emits a cookie named name whose value tracks another
// plugin.
func CookieFromPlugin(parent *Plugin, name string) *Plugin {
	return &Plugin{
		name:  name,
		kind:  "cookie",
		flags: DependsOnPlugins,
		deps:  []*Plugin{parent},
		resolve: func(p *Plugin, env *Env) (string, error) {
			return parent.Resolve(env)
		},
	}
}
