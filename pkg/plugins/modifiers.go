package plugins

import (
	"strings"

	"github.com/digeex/raider/internal/errx"
)

// AlterFunc post-processes another plugin's value.
type AlterFunc func(value string) (string, error)

// NewAlter wraps another plugin and post-processes its value. The wrapper
// keeps the parent's name, so request templates referencing the name pick
// up the altered value; the raw value in the store is left untouched.
func NewAlter(parent *Plugin, fn AlterFunc) *Plugin {
	return &Plugin{
		name:  parent.name,
		kind:  "alter",
		flags: DependsOnPlugins,
		deps:  []*Plugin{parent},
		resolve: func(p *Plugin, env *Env) (string, error) {
			v, err := parent.Resolve(env)
			if err != nil {
				return "", errx.With(ErrDepUnresolved, ": %s", parent.Name())
			}
			return fn(v)
		},
	}
}

// AlterPrepend prefixes the parent's value with a literal.
func AlterPrepend(parent *Plugin, prefix string) *Plugin {
	return NewAlter(parent, func(v string) (string, error) {
		return prefix + v, nil
	})
}

// AlterAppend suffixes the parent's value with a literal.
func AlterAppend(parent *Plugin, suffix string) *Plugin {
	return NewAlter(parent, func(v string) (string, error) {
		return v + suffix, nil
	})
}

// AlterReplace replaces all occurrences of old in the parent's value.
func AlterReplace(parent *Plugin, old, new string) *Plugin {
	return NewAlter(parent, func(v string) (string, error) {
		return strings.ReplaceAll(v, old, new), nil
	})
}

// AlterReplacePlugin replaces all occurrences of old with another
// plugin's value.
func AlterReplacePlugin(parent *Plugin, old string, replacement *Plugin) *Plugin {
	p := NewAlter(parent, nil)
	p.deps = append(p.deps, replacement)
	p.resolve = func(_ *Plugin, env *Env) (string, error) {
		v, err := parent.Resolve(env)
		if err != nil {
			return "", errx.With(ErrDepUnresolved, ": %s", parent.Name())
		}
		r, err := replacement.Resolve(env)
		if err != nil {
			return "", errx.With(ErrDepUnresolved, ": %s", replacement.Name())
		}
		return strings.ReplaceAll(v, old, r), nil
	}
	return p
}

// CombinePart is one element of a Combine: either a literal or a plugin.
type CombinePart struct {
	Literal string
	Plugin  *Plugin
}

// Literal wraps a string for use in NewCombine.
func Literal(s string) CombinePart { return CombinePart{Literal: s} }

// Part wraps a plugin for use in NewCombine.
func Part(p *Plugin) CombinePart { return CombinePart{Plugin: p} }

// NewCombine concatenates the values of the given parts in order. A part
// whose plugin cannot resolve makes the whole combination unresolvable.
func NewCombine(name string, parts ...CombinePart) *Plugin {
	var deps []*Plugin
	for _, part := range parts {
		if part.Plugin != nil {
			deps = append(deps, part.Plugin)
		}
	}
	return &Plugin{
		name:  name,
		kind:  "combine",
		flags: DependsOnPlugins,
		deps:  deps,
		resolve: func(p *Plugin, env *Env) (string, error) {
			var sb strings.Builder
			for _, part := range parts {
				if part.Plugin == nil {
					sb.WriteString(part.Literal)
					continue
				}
				v, err := part.Plugin.Resolve(env)
				if err != nil {
					return "", errx.With(ErrDepUnresolved, ": %s", part.Plugin.Name())
				}
				sb.WriteString(v)
			}
			return sb.String(), nil
		},
	}
}
