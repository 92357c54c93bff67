package plugins

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// NewJson extracts the value at a dotted path from a JSON body.
//
// Path syntax: keys separated by dots, array indexes in square brackets,
// keys containing dots wrapped in double quotes:
//
//	env.production[0].field
//	keys[1].x5c[0]."with.dots"
//
// A missing intermediate key or out-of-range index makes the value absent.
func NewJson(name, path string) (*Plugin, error) {
	steps, err := parseJSONPath(path)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		name:  name,
		kind:  "json",
		flags: NeedsResponse,
		extract: func(resp *api.Response) (string, error) {
			return walkJSON(resp.Body, steps, path)
		},
	}, nil
}

// JsonFromPlugin applies the same dotted-path extraction to another
// plugin's value instead of a response body.
func JsonFromPlugin(parent *Plugin, name, path string) (*Plugin, error) {
	steps, err := parseJSONPath(path)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		name:  name,
		kind:  "json",
		flags: DependsOnPlugins,
		deps:  []*Plugin{parent},
		resolve: func(p *Plugin, env *Env) (string, error) {
			v, err := parent.Resolve(env)
			if err != nil {
				return "", errx.With(ErrDepUnresolved, ": %s", parent.Name())
			}
			return walkJSON([]byte(v), steps, path)
		},
	}, nil
}

type jsonStep struct {
	key   string
	index int
	isKey bool
}

func parseJSONPath(path string) ([]jsonStep, error) {
	if path == "" {
		return nil, errx.With(ErrBadJSONPath, ": empty path")
	}
	var steps []jsonStep
	rest := path
	for rest != "" {
		switch {
		case rest[0] == '.':
			rest = rest[1:]
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, errx.With(ErrBadJSONPath, ": unclosed index in %q", path)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, errx.With(ErrBadJSONPath, ": bad index in %q", path)
			}
			steps = append(steps, jsonStep{index: idx})
			rest = rest[end+1:]
		case rest[0] == '"':
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, errx.With(ErrBadJSONPath, ": unclosed quote in %q", path)
			}
			steps = append(steps, jsonStep{key: rest[1 : end+1], isKey: true})
			rest = rest[end+2:]
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			steps = append(steps, jsonStep{key: rest[:end], isKey: true})
			rest = rest[end:]
		}
	}
	return steps, nil
}

func walkJSON(body []byte, steps []jsonStep, path string) (string, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", errx.Wrap(ErrNoMatch, err)
	}
	current := data
	for _, step := range steps {
		if step.isKey {
			obj, ok := current.(map[string]any)
			if !ok {
				return "", errx.With(ErrNoMatch, ": %q is not an object at %q", path, step.key)
			}
			current, ok = obj[step.key]
			if !ok {
				return "", errx.With(ErrNoMatch, ": key %q not found", step.key)
			}
		} else {
			arr, ok := current.([]any)
			if !ok || step.index < 0 || step.index >= len(arr) {
				return "", errx.With(ErrNoMatch, ": index %d out of range in %q", step.index, path)
			}
			current = arr[step.index]
		}
	}
	return stringifyJSON(current)
}

func stringifyJSON(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case nil:
		return "null", nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", errx.Wrap(ErrNoMatch, err)
		}
		return string(b), nil
	}
}
