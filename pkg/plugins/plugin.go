// Package plugins implements the named value carriers that feed HTTP
// requests and capture data from HTTP responses.
//
// A plugin is an immutable descriptor: its resolved values live in the
// session's value store, never on the plugin itself, so one graph can be
// shared by concurrent runs that each own their session.
package plugins

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// Flag is the plugin capability bitset.
type Flag uint8

const (
	// NeedsUserdata marks plugins resolved from the active user's fields.
	NeedsUserdata Flag = 1 << iota
	// NeedsResponse marks plugins whose value originates from an HTTP
	// response; they are the only plugins valid as flow outputs.
	NeedsResponse
	// DependsOnPlugins marks plugins derived from other plugin values at
	// resolution time.
	DependsOnPlugins
)

// Prompter supplies interactive input for Prompt plugins. Implementations
// must serialise concurrent prompts; the terminal is a process-wide
// resource.
type Prompter interface {
	Prompt(ctx context.Context, name string) (string, error)
}

// Env carries everything a plugin may need at input-resolution time.
// The session builds one per flow run.
type Env struct {
	Ctx      context.Context
	Userdata map[string]string
	Store    api.ValueStore
	// Prompter handles Prompt plugins. When nil, Stdin/Stdout are used
	// for a plain line read.
	Prompter Prompter
	Stdin    io.Reader
	Stdout   io.Writer
	Logger   *slog.Logger
}

type resolveFunc func(p *Plugin, env *Env) (string, error)

type extractFunc func(resp *api.Response) (string, error)

// Plugin is a named, typed value carrier. Construct one with the variant
// constructors in this package; the zero value is not usable.
type Plugin struct {
	name    string
	kind    string
	flags   Flag
	resolve resolveFunc
	extract extractFunc
	deps    []*Plugin
}

// Name returns the plugin's identifier inside the flow graph.
func (p *Plugin) Name() string { return p.name }

// Kind returns the variant name ("regex", "cookie", ...), used in logs.
func (p *Plugin) Kind() string { return p.kind }

// Flags returns the capability bitset.
func (p *Plugin) Flags() Flag { return p.flags }

// NeedsUserdata reports whether resolution requires the active user.
func (p *Plugin) NeedsUserdata() bool { return p.flags&NeedsUserdata != 0 }

// NeedsResponse reports whether the value originates from a response.
func (p *Plugin) NeedsResponse() bool { return p.flags&NeedsResponse != 0 }

// DependsOnPlugins reports whether the value derives from other plugins.
func (p *Plugin) DependsOnPlugins() bool { return p.flags&DependsOnPlugins != 0 }

// Deps returns the plugins this one derives its value from.
func (p *Plugin) Deps() []*Plugin { return p.deps }

// Resolve produces the plugin's input value.
//
// Response-extracted plugins read the value a previous flow stored;
// user-data plugins read the active user's field of the same name;
// derived plugins recompute from their dependencies on every call and do
// not touch the store, so a derived plugin sharing its parent's name never
// clobbers the parent's raw value.
func (p *Plugin) Resolve(env *Env) (string, error) {
	switch {
	case p.flags&NeedsResponse != 0:
		if v, ok := env.Store.Get(p.name); ok {
			return v, nil
		}
		return "", errx.With(api.ErrNoValue, ": %s", p.name)
	case p.flags&NeedsUserdata != 0:
		if v, ok := env.Userdata[p.name]; ok {
			return v, nil
		}
		return "", errx.With(ErrUserdataField, ": %s", p.name)
	default:
		return p.resolve(p, env)
	}
}

// CanExtract reports whether the plugin may be declared as a flow output.
func (p *Plugin) CanExtract() bool { return p.extract != nil }

// Extract pulls the plugin's value out of a response. The caller (the
// flow's output binding) stores the result.
func (p *Plugin) Extract(resp *api.Response) (string, error) {
	if p.extract == nil {
		return "", errx.With(ErrNotExtractable, ": %s (%s)", p.name, p.kind)
	}
	return p.extract(resp)
}

func (p *Plugin) String() string {
	return fmt.Sprintf("%s:%s", p.kind, p.name)
}

// readLine reads one non-empty line from the environment's stdin,
// prompting on stdout first. Used by Prompt when no Prompter is set.
func readLine(env *Env, name string) (string, error) {
	reader := bufio.NewReader(env.Stdin)
	for {
		if err := env.Ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(env.Stdout, "%s = ", name)
		line, err := reader.ReadString('\n')
		line = trimEOL(line)
		if line != "" {
			return line, nil
		}
		if err != nil {
			return "", errx.Wrap(ErrPromptRead, err)
		}
	}
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
