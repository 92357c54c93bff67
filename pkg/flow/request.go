package flow

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/plugins"
)

func envLogger(env *plugins.Env) *slog.Logger {
	if env.Logger != nil {
		return env.Logger
	}
	return slog.Default()
}

// DataItem is one half of a body entry: a literal string or a plugin
// reference resolved at send time.
type DataItem struct {
	literal string
	plugin  *plugins.Plugin
}

// Literal wraps a fixed string.
func Literal(s string) DataItem { return DataItem{literal: s} }

// FromPlugin wraps a plugin reference.
func FromPlugin(p *plugins.Plugin) DataItem { return DataItem{plugin: p} }

// resolve returns the item's value. ok is false when a plugin reference
// cannot be resolved; the entry is then omitted from the body.
func (d DataItem) resolve(env *plugins.Env) (value string, ok bool, err error) {
	if d.plugin == nil {
		return d.literal, true, nil
	}
	v, err := d.plugin.Resolve(env)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (d DataItem) describe() string {
	if d.plugin != nil {
		return d.plugin.Name()
	}
	return d.literal
}

// DataEntry is one key/value pair of a form or JSON body. Order is
// preserved for form encoding.
type DataEntry struct {
	Key   DataItem
	Value DataItem
}

// Request is a reusable HTTP request template. Plugin references are
// resolved fresh on every materialisation, so the same template serves
// repeated stage visits.
type Request struct {
	Method string
	// URL is an absolute target. When empty, Path is joined onto the
	// project base URL.
	URL  string
	Path string

	// Headers and Cookies are plugin references; each contributes a
	// name/value pair named after the plugin.
	Headers []*plugins.Plugin
	Cookies []*plugins.Plugin

	// Data entries become a form-urlencoded body, or a JSON object when
	// JSON is set. Entries whose key or value plugin is unresolvable are
	// omitted.
	Data []DataEntry
	JSON bool

	// Body is a raw payload; it wins over Data.
	Body        []byte
	ContentType string
}

// Materialised is a concrete HTTP message lowered from a template.
type Materialised struct {
	Method      string
	URL         string
	Headers     map[string]string
	Cookies     map[string]string
	Body        []byte
	ContentType string
}

// Target resolves the request URL against the project base URL,
// normalising exactly one slash at the join.
func (r *Request) Target(baseURL string) (string, error) {
	raw := r.URL
	if raw == "" {
		raw = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(r.Path, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errx.Wrap(ErrBadTarget, err)
	}
	if !u.IsAbs() {
		return "", errx.With(ErrBadTarget, ": %q is not absolute", raw)
	}
	return u.String(), nil
}

// Materialise lowers the template to a concrete message. Unresolvable
// plugins are non-fatal: they contribute nothing and a warning is
// logged; the request still goes out.
func (r *Request) Materialise(env *plugins.Env, baseURL string) (*Materialised, error) {
	target, err := r.Target(baseURL)
	if err != nil {
		return nil, err
	}

	m := &Materialised{
		Method:  r.Method,
		URL:     target,
		Headers: make(map[string]string),
		Cookies: make(map[string]string),
	}

	for _, p := range r.Headers {
		v, err := p.Resolve(env)
		if err != nil {
			envLogger(env).Warn("couldn't resolve header", "header", p.Name(), "error", err)
			continue
		}
		m.Headers[p.Name()] = v
	}
	for _, p := range r.Cookies {
		v, err := p.Resolve(env)
		if err != nil {
			envLogger(env).Warn("couldn't resolve cookie", "cookie", p.Name(), "error", err)
			continue
		}
		m.Cookies[p.Name()] = v
	}

	switch {
	case r.Body != nil:
		m.Body = r.Body
		m.ContentType = r.ContentType
	case len(r.Data) > 0:
		body, contentType, err := r.encodeData(env)
		if err != nil {
			return nil, err
		}
		m.Body = body
		m.ContentType = contentType
	}
	return m, nil
}

func (r *Request) encodeData(env *plugins.Env) ([]byte, string, error) {
	type pair struct{ key, value string }
	var pairs []pair

	for _, entry := range r.Data {
		key, ok, err := entry.Key.resolve(env)
		if err != nil || !ok {
			envLogger(env).Warn("couldn't resolve body key", "key", entry.Key.describe(), "error", err)
			continue
		}
		value, ok, err := entry.Value.resolve(env)
		if err != nil || !ok {
			envLogger(env).Warn("couldn't resolve body value", "key", key, "error", err)
			continue
		}
		pairs = append(pairs, pair{key, value})
	}

	if r.JSON {
		obj := make(map[string]string, len(pairs))
		for _, p := range pairs {
			obj[p.key] = p.value
		}
		body, err := json.Marshal(obj)
		if err != nil {
			return nil, "", errx.Wrap(ErrEncodeBody, err)
		}
		return body, "application/json", nil
	}

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return []byte(sb.String()), "application/x-www-form-urlencoded", nil
}
