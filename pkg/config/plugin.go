package config

import (
	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/plugins"
)

type pluginSpec struct {
	Type string `yaml:"type"`

	// cookie_value / header_value
	Value string `yaml:"value"`

	// command
	Command string `yaml:"command"`

	// regex
	Regex string `yaml:"regex"`
	Group int    `yaml:"group"`

	// json
	Path string `yaml:"path"`

	// html
	Tag        string            `yaml:"tag"`
	Attributes map[string]string `yaml:"attributes"`
	Extract    string            `yaml:"extract"`

	// basicauth
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// bearerauth
	Token string `yaml:"token"`

	// parent reference: alter, urlparser, cookie/header from plugin
	Plugin string `yaml:"plugin"`

	// alter
	Prepend string       `yaml:"prepend"`
	Append  string       `yaml:"append"`
	Replace *replaceSpec `yaml:"replace"`

	// urlparser
	Element string `yaml:"element"`

	// combine
	Parts []partSpec `yaml:"parts"`
}

type replaceSpec struct {
	Old    string `yaml:"old"`
	New    string `yaml:"new"`
	Plugin string `yaml:"plugin"`
}

type partSpec struct {
	Text   string `yaml:"text"`
	Plugin string `yaml:"plugin"`
}

// pluginBuilder lowers plugin specs to constructed plugins, resolving
// name references between them. Derived plugins (alter, combine,
// bearerauth, urlparser) force their dependencies to build first;
// visiting tracks the active chain so reference cycles fail instead of
// recursing forever.
type pluginBuilder struct {
	specs    map[string]pluginSpec
	built    map[string]*plugins.Plugin
	visiting map[string]bool
}

func (b *pluginBuilder) build(name string) (*plugins.Plugin, error) {
	if p, ok := b.built[name]; ok {
		return p, nil
	}
	spec, ok := b.specs[name]
	if !ok {
		return nil, errx.With(ErrUnknownPlugin, ": %q", name)
	}
	if b.visiting[name] {
		return nil, errx.With(ErrPluginCycle, ": %q", name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	p, err := b.construct(name, spec)
	if err != nil {
		return nil, err
	}
	b.built[name] = p
	return p, nil
}

func (b *pluginBuilder) construct(name string, spec pluginSpec) (*plugins.Plugin, error) {
	switch spec.Type {
	case "variable":
		return plugins.NewVariable(name), nil

	case "prompt":
		return plugins.NewPrompt(name), nil

	case "command":
		if spec.Command == "" {
			return nil, errx.With(ErrBadPlugin, ": command plugin %q needs a command", name)
		}
		return plugins.NewCommand(name, spec.Command), nil

	case "empty":
		return plugins.NewEmpty(name), nil

	case "cookie":
		if spec.Plugin != "" {
			parent, err := b.build(spec.Plugin)
			if err != nil {
				return nil, err
			}
			return plugins.CookieFromPlugin(parent, name), nil
		}
		if spec.Value != "" {
			return plugins.NewCookieValue(name, spec.Value), nil
		}
		return plugins.NewCookie(name), nil

	case "header":
		if spec.Plugin != "" {
			parent, err := b.build(spec.Plugin)
			if err != nil {
				return nil, err
			}
			return plugins.HeaderFromPlugin(parent, name), nil
		}
		if spec.Value != "" {
			return plugins.NewHeaderValue(name, spec.Value), nil
		}
		return plugins.NewHeader(name), nil

	case "basicauth":
		return plugins.Basicauth(spec.Username, spec.Password), nil

	case "bearerauth":
		if spec.Token == "" {
			return nil, errx.With(ErrBadPlugin, ": bearerauth plugin %q needs a token reference", name)
		}
		token, err := b.build(spec.Token)
		if err != nil {
			return nil, err
		}
		return plugins.Bearerauth(token), nil

	case "regex":
		if spec.Regex == "" {
			return nil, errx.With(ErrBadPlugin, ": regex plugin %q needs an expression", name)
		}
		if spec.Group > 0 {
			return plugins.NewRegexGroup(name, spec.Regex, spec.Group)
		}
		return plugins.NewRegex(name, spec.Regex)

	case "json":
		if spec.Path == "" {
			return nil, errx.With(ErrBadPlugin, ": json plugin %q needs a path", name)
		}
		return plugins.NewJson(name, spec.Path)

	case "html":
		if spec.Tag == "" {
			return nil, errx.With(ErrBadPlugin, ": html plugin %q needs a tag", name)
		}
		if spec.Extract == "" {
			return nil, errx.With(ErrBadPlugin, ": html plugin %q needs an extract attribute", name)
		}
		return plugins.NewHtml(name, spec.Tag, spec.Attributes, spec.Extract), nil

	case "alter":
		if spec.Plugin == "" {
			return nil, errx.With(ErrBadPlugin, ": alter plugin %q needs a parent reference", name)
		}
		parent, err := b.build(spec.Plugin)
		if err != nil {
			return nil, err
		}
		switch {
		case spec.Prepend != "":
			return plugins.AlterPrepend(parent, spec.Prepend), nil
		case spec.Append != "":
			return plugins.AlterAppend(parent, spec.Append), nil
		case spec.Replace != nil && spec.Replace.Plugin != "":
			replacement, err := b.build(spec.Replace.Plugin)
			if err != nil {
				return nil, err
			}
			return plugins.AlterReplacePlugin(parent, spec.Replace.Old, replacement), nil
		case spec.Replace != nil:
			return plugins.AlterReplace(parent, spec.Replace.Old, spec.Replace.New), nil
		}
		return nil, errx.With(ErrBadPlugin, ": alter plugin %q needs prepend, append or replace", name)

	case "combine":
		if len(spec.Parts) == 0 {
			return nil, errx.With(ErrBadPlugin, ": combine plugin %q needs parts", name)
		}
		parts := make([]plugins.CombinePart, 0, len(spec.Parts))
		for _, part := range spec.Parts {
			if part.Plugin != "" {
				dep, err := b.build(part.Plugin)
				if err != nil {
					return nil, err
				}
				parts = append(parts, plugins.Part(dep))
				continue
			}
			parts = append(parts, plugins.Literal(part.Text))
		}
		return plugins.NewCombine(name, parts...), nil

	case "urlparser":
		if spec.Plugin == "" || spec.Element == "" {
			return nil, errx.With(ErrBadPlugin, ": urlparser plugin %q needs a parent and an element", name)
		}
		parent, err := b.build(spec.Plugin)
		if err != nil {
			return nil, err
		}
		return plugins.NewUrlParser(parent, spec.Element), nil

	case "":
		return nil, errx.With(ErrBadPlugin, ": plugin %q has no type", name)
	default:
		return nil, errx.With(ErrUnknownPluginType, ": %q (plugin %q)", spec.Type, name)
	}
}
