// Package config loads a project definition from YAML and lowers it to
// the in-memory graph the runner executes: a plugin registry, the
// ordered authentication flow list, the standalone functions, and the
// user records. All references are checked at load time, so a run never
// hits a dangling name.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/authentication"
	"github.com/digeex/raider/pkg/flow"
	"github.com/digeex/raider/pkg/plugins"
	"github.com/digeex/raider/pkg/session"
)

// Project is the loaded, validated graph.
type Project struct {
	BaseURL   string
	Users     []*session.User
	Plugins   map[string]*plugins.Plugin
	Flows     []*flow.Flow
	Functions []*flow.Flow
}

// Runner builds the authentication runner for this project.
func (p *Project) Runner(opts ...authentication.Option) (*authentication.Runner, error) {
	opts = append([]authentication.Option{
		authentication.WithBaseURL(p.BaseURL),
		authentication.WithFunctions(p.Functions...),
	}, opts...)
	return authentication.New(p.Flows, opts...)
}

type projectSpec struct {
	BaseURL   string                `yaml:"base_url"`
	Users     []map[string]string   `yaml:"users"`
	Plugins   map[string]pluginSpec `yaml:"plugins"`
	Flows     []flowSpec            `yaml:"flows"`
	Functions []flowSpec            `yaml:"functions"`
}

// Load reads and validates a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errx.Wrap(ErrRead, err)
	}
	return Parse(data)
}

// Parse validates a project definition. yaml.v3 rejects duplicate
// mapping keys, so plugin names are unique by construction; flow names
// are checked when the runner is built.
func Parse(data []byte) (*Project, error) {
	var spec projectSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errx.Wrap(ErrParse, err)
	}

	p := &Project{
		BaseURL: spec.BaseURL,
		Plugins: make(map[string]*plugins.Plugin, len(spec.Plugins)),
	}

	for _, record := range spec.Users {
		user := &session.User{Extra: make(map[string]string)}
		for field, value := range record {
			switch field {
			case "username":
				user.Username = value
			case "password":
				user.Password = value
			default:
				user.Extra[field] = value
			}
		}
		p.Users = append(p.Users, user)
	}

	builder := &pluginBuilder{
		specs:    spec.Plugins,
		built:    p.Plugins,
		visiting: make(map[string]bool),
	}
	for name := range spec.Plugins {
		if _, err := builder.build(name); err != nil {
			return nil, err
		}
	}

	for _, fs := range spec.Flows {
		f, err := buildFlow(fs, p.Plugins)
		if err != nil {
			return nil, err
		}
		p.Flows = append(p.Flows, f)
	}
	for _, fs := range spec.Functions {
		f, err := buildFlow(fs, p.Plugins)
		if err != nil {
			return nil, err
		}
		p.Functions = append(p.Functions, f)
	}
	return p, nil
}
