// Package session owns the per-run state: the cookie jar, the
// plugin-value store, the user list, and the HTTP client. One session
// belongs to exactly one run; concurrent runs each build their own.
package session

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
	"github.com/digeex/raider/pkg/logging"
	"github.com/digeex/raider/pkg/plugins"
)

const defaultUserAgent = "digeex_raider/1.0"

// Config is the HTTP transport configuration.
type Config struct {
	// Proxy is an optional upstream proxy URL, e.g. an intercepting
	// proxy at http://127.0.0.1:8080.
	Proxy string
	// Verify toggles TLS certificate verification. Off by default;
	// authentication testing usually goes through intercepting proxies
	// with their own CAs.
	Verify    bool
	UserAgent string
	Timeout   time.Duration
}

// Session is the mutable state shared by all flows of one run.
type Session struct {
	jar       *Jar
	store     *Store
	users     *UserStore
	client    *http.Client
	logger    *slog.Logger
	emitter   *logging.Emitter
	prompter  plugins.Prompter
	stdin     io.Reader
	stdout    io.Writer
	userAgent string
}

// Option adjusts a Session at construction.
type Option func(*Session)

// WithUsers sets the user list.
func WithUsers(users *UserStore) Option {
	return func(s *Session) { s.users = users }
}

// WithLogger sets the slog logger; component scoping is applied here.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger.With("component", "session") }
}

// WithEmitter attaches a structured event emitter. nil disables event
// logging.
func WithEmitter(emitter *logging.Emitter) Option {
	return func(s *Session) { s.emitter = emitter }
}

// WithPrompter overrides how Prompt plugins read input.
func WithPrompter(p plugins.Prompter) Option {
	return func(s *Session) { s.prompter = p }
}

// WithStdio overrides the streams used for prompting and Print output.
func WithStdio(stdin io.Reader, stdout io.Writer) Option {
	return func(s *Session) {
		s.stdin = stdin
		s.stdout = stdout
	}
}

// New builds a session with its HTTP client wired for the given
// transport config.
func New(cfg Config, opts ...Option) (*Session, error) {
	jar := NewJar()

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.Verify},
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, errx.Wrap(ErrBadProxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	s := &Session{
		jar:   jar,
		store: NewStore(),
		users: NewUserStore(nil),
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
		},
		logger:    slog.Default().With("component", "session"),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		userAgent: userAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Jar returns the run's cookie jar.
func (s *Session) Jar() *Jar { return s.jar }

// Store returns the run's plugin-value store.
func (s *Session) Store() *Store { return s.store }

// Users returns the user list.
func (s *Session) Users() *UserStore { return s.users }

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Emitter returns the structured event emitter, nil when disabled.
func (s *Session) Emitter() *logging.Emitter { return s.emitter }

// Stdout returns the stream Print operations write to.
func (s *Session) Stdout() io.Writer { return s.stdout }

// Env builds a plugin resolution environment for the active user.
func (s *Session) Env(ctx context.Context) *plugins.Env {
	var userdata map[string]string
	if u := s.users.Active(); u != nil {
		userdata = u.ToMap()
	}
	return &plugins.Env{
		Ctx:      ctx,
		Userdata: userdata,
		Store:    s.store,
		Prompter: s.prompter,
		Stdin:    s.stdin,
		Stdout:   s.stdout,
		Logger:   s.logger,
	}
}

// Send performs one HTTP exchange. The jar supplies matching cookies and
// absorbs Set-Cookie headers, including across redirects, which the
// client follows by default. The returned response is the final one in
// the chain with its body fully buffered.
func (s *Session) Send(ctx context.Context, method, rawURL string, headers map[string]string, cookies map[string]string, body []byte, contentType string) (*api.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, errx.Wrap(ErrBuildRequest, err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, name := range sortedKeys(headers) {
		req.Header.Set(name, headers[name])
	}
	for _, name := range sortedKeys(cookies) {
		req.AddCookie(&http.Cookie{Name: name, Value: cookies[name]})
	}

	start := time.Now()
	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, errx.Wrap(api.ErrTransport, err)
	}
	resp, err := api.FromHTTP(httpResp)
	if err != nil {
		return nil, errx.Wrap(api.ErrTransport, err)
	}

	s.logger.Debug("request complete",
		"method", method,
		"url", rawURL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"bytes", len(resp.Body),
	)
	return resp, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
