package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digeex/raider/pkg/api"
)

func TestSend_HeadersCookiesAndBody(t *testing.T) {
	var got *http.Request
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestSession(t)
	resp, err := s.Send(context.Background(), http.MethodPost, srv.URL+"/login",
		map[string]string{"X-Requested-With": "XMLHttpRequest"},
		map[string]string{"tracking": "t1"},
		[]byte("username=admin&password=hunter2"),
		"application/x-www-form-urlencoded")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "XMLHttpRequest", got.Header.Get("X-Requested-With"))
	assert.Equal(t, "application/x-www-form-urlencoded", got.Header.Get("Content-Type"))
	assert.Equal(t, defaultUserAgent, got.Header.Get("User-Agent"))
	c, err := got.Cookie("tracking")
	require.NoError(t, err)
	assert.Equal(t, "t1", c.Value)
	assert.Equal(t, "username=admin&password=hunter2", gotBody)
}

func TestSend_JarCarriesCookiesAcrossRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/profile":
			if c, err := r.Cookie("session"); err == nil && c.Value == "s1" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	s := newTestSession(t)
	_, err := s.Send(context.Background(), http.MethodGet, srv.URL+"/login", nil, nil, nil, "")
	require.NoError(t, err)

	resp, err := s.Send(context.Background(), http.MethodGet, srv.URL+"/profile", nil, nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	all := s.Jar().All()
	require.Len(t, all, 1)
	assert.Equal(t, "session", all[0].Name)
}

func TestSend_FollowsRedirectsAndKeepsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
			http.Redirect(w, r, "/home", http.StatusFound)
		case "/home":
			if _, err := r.Cookie("session"); err != nil {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Write([]byte("welcome"))
		}
	}))
	defer srv.Close()

	s := newTestSession(t)
	resp, err := s.Send(context.Background(), http.MethodGet, srv.URL+"/login", nil, nil, nil, "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "welcome", resp.Text())
	assert.Equal(t, "/home", resp.URL.Path)
}

func TestSend_TransportErrorWrapped(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Send(context.Background(), http.MethodGet, "http://127.0.0.1:1/unreachable", nil, nil, nil, "")
	require.ErrorIs(t, err, api.ErrTransport)
}

func TestSend_BadURL(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Send(context.Background(), "GET", "http://bad url/", nil, nil, nil, "")
	require.ErrorIs(t, err, ErrBuildRequest)
}

func TestNew_BadProxy(t *testing.T) {
	_, err := New(Config{Proxy: "://nope"})
	require.ErrorIs(t, err, ErrBadProxy)
}

func TestEnv_ActiveUserdata(t *testing.T) {
	s := newTestSession(t)
	env := s.Env(context.Background())
	assert.Nil(t, env.Userdata)

	users := NewUserStore([]*User{{Username: "alice", Password: "pw"}})
	s2, err := New(Config{}, WithUsers(users))
	require.NoError(t, err)
	env = s2.Env(context.Background())
	assert.Equal(t, "alice", env.Userdata["username"])
}

func TestTerminalPrompter_ReadsLine(t *testing.T) {
	p := NewTerminalPrompter(strings.NewReader("\n  otp-123456  \n"), &strings.Builder{})
	v, e := p.Prompt(context.Background(), "otp")
	require.NoError(t, e)
	assert.Equal(t, "otp-123456", v)
}

func TestTerminalPrompter_EOF(t *testing.T) {
	p := NewTerminalPrompter(strings.NewReader(""), &strings.Builder{})
	_, e := p.Prompt(context.Background(), "otp")
	require.ErrorIs(t, e, ErrPromptClosed)
}
