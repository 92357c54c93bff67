package plugins

import (
	"os/exec"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// NewVariable reads a field from the active user (e.g. "username",
// "password"). Resolution fails if the field is missing.
func NewVariable(name string) *Plugin {
	return &Plugin{
		name:  name,
		kind:  "variable",
		flags: NeedsUserdata,
	}
}

// NewPrompt asks for a line of interactive input. The first answer is
// cached in the session's value store under the plugin name, so the same
// run never prompts twice for one plugin; clear the store entry to force a
// re-prompt.
func NewPrompt(name string) *Plugin {
	return &Plugin{
		name: name,
		kind: "prompt",
		resolve: func(p *Plugin, env *Env) (string, error) {
			if v, ok := env.Store.Get(p.name); ok && v != "" {
				return v, nil
			}
			var value string
			var err error
			if env.Prompter != nil {
				value, err = env.Prompter.Prompt(env.Ctx, p.name)
			} else {
				value, err = readLine(env, p.name)
			}
			if err != nil {
				return "", err
			}
			env.Store.Set(p.name, value)
			return value, nil
		},
	}
}

// NewCommand runs a shell command line and captures its stdout, stripped
// of trailing newlines. The command is split with shell quoting rules and
// executed directly, without a shell.
func NewCommand(name, command string) *Plugin {
	return &Plugin{
		name: name,
		kind: "command",
		resolve: func(p *Plugin, env *Env) (string, error) {
			argv, err := shellquote.Split(command)
			if err != nil {
				return "", errx.Wrap(ErrCommandRun, err)
			}
			if len(argv) == 0 {
				return "", errx.With(ErrCommandRun, ": empty command")
			}
			out, err := exec.CommandContext(env.Ctx, argv[0], argv[1:]...).Output()
			if err != nil {
				return "", errx.Wrap(ErrCommandRun, err)
			}
			return strings.TrimRight(string(out), "\n"), nil
		},
	}
}

// NewEmpty is a placeholder with no intrinsic value. It resolves from the
// value store, so it only carries what a fuzzer or a Save-style assignment
// put there.
func NewEmpty(name string) *Plugin {
	return &Plugin{
		name: name,
		kind: "empty",
		resolve: func(p *Plugin, env *Env) (string, error) {
			if v, ok := env.Store.Get(p.name); ok {
				return v, nil
			}
			return "", errx.With(api.ErrNoValue, ": %s", p.name)
		},
	}
}
