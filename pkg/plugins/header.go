package plugins

import (
	"encoding/base64"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// NewHeader extracts the response header with the plugin's name. As a
// request input it emits a name: value pair from the stored value.
func NewHeader(name string) *Plugin {
	return &Plugin{
		name:  name,
		kind:  "header",
		flags: NeedsResponse,
		extract: func(resp *api.Response) (string, error) {
			if v, ok := resp.Header(name); ok {
				return v, nil
			}
			return "", errx.With(ErrNoMatch, ": header %q", name)
		},
	}
}

// NewHeaderValue is a header with a predefined value.
func NewHeaderValue(name, value string) *Plugin {
	return &Plugin{
		name: name,
		kind: "header",
		resolve: func(p *Plugin, env *Env) (string, error) {
			return value, nil
		},
	}
}

// Basicauth builds an Authorization header carrying HTTP basic auth for
// the given credentials.
func Basicauth(username, password string) *Plugin {
	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return NewHeaderValue("Authorization", "Basic "+encoded)
}

// Bearerauth builds an Authorization header whose token tracks another
// plugin, typically a Regex or Json extraction of an access token.
func Bearerauth(token *Plugin) *Plugin {
	return &Plugin{
		name:  "Authorization",
		kind:  "header",
		flags: DependsOnPlugins,
		deps:  []*Plugin{token},
		resolve: func(p *Plugin, env *Env) (string, error) {
			v, err := token.Resolve(env)
			if err != nil {
				return "", errx.With(ErrDepUnresolved, ": %s", token.Name())
			}
			return "Bearer " + v, nil
		},
	}
}

// HeaderFromPlugin emits a header named name whose value tracks another
// plugin.
func HeaderFromPlugin(parent *Plugin, name string) *Plugin {
	return &Plugin{
		name:  name,
		kind:  "header",
		flags: DependsOnPlugins,
		deps:  []*Plugin{parent},
		resolve: func(p *Plugin, env *Env) (string, error) {
			return parent.Resolve(env)
		},
	}
}
