package session

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestJar_SetAndMatch(t *testing.T) {
	jar := NewJar()
	u := mustURL(t, "https://app.example.com/login")

	jar.SetCookies(u, []*http.Cookie{
		{Name: "session", Value: "abc"},
	})

	got := jar.Cookies(mustURL(t, "https://app.example.com/dashboard"))
	require.Len(t, got, 1)
	assert.Equal(t, "session", got[0].Name)
	assert.Equal(t, "abc", got[0].Value)
}

func TestJar_HostOnlyDoesNotLeakToSubdomains(t *testing.T) {
	jar := NewJar()
	jar.SetCookies(mustURL(t, "https://example.com/"), []*http.Cookie{
		{Name: "host_only", Value: "1"},
	})
	jar.SetCookies(mustURL(t, "https://example.com/"), []*http.Cookie{
		{Name: "shared", Value: "1", Domain: "example.com"},
	})

	sub := jar.Cookies(mustURL(t, "https://api.example.com/"))
	require.Len(t, sub, 1)
	assert.Equal(t, "shared", sub[0].Name)
}

func TestJar_SecureRequiresHTTPS(t *testing.T) {
	jar := NewJar()
	jar.SetCookies(mustURL(t, "https://example.com/"), []*http.Cookie{
		{Name: "token", Value: "s3cr3t", Secure: true},
	})

	assert.Empty(t, jar.Cookies(mustURL(t, "http://example.com/")))
	assert.Len(t, jar.Cookies(mustURL(t, "https://example.com/")), 1)
}

func TestJar_PathMatching(t *testing.T) {
	jar := NewJar()
	jar.SetCookies(mustURL(t, "https://example.com/admin/login"), []*http.Cookie{
		{Name: "admin", Value: "1", Path: "/admin"},
	})

	assert.Len(t, jar.Cookies(mustURL(t, "https://example.com/admin/panel")), 1)
	assert.Len(t, jar.Cookies(mustURL(t, "https://example.com/admin")), 1)
	assert.Empty(t, jar.Cookies(mustURL(t, "https://example.com/administrator")))
	assert.Empty(t, jar.Cookies(mustURL(t, "https://example.com/")))
}

func TestJar_OverwriteSameKey(t *testing.T) {
	jar := NewJar()
	u := mustURL(t, "https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "old"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "new"}})

	got := jar.Cookies(u)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Value)
}

func TestJar_ExpiryDeletes(t *testing.T) {
	jar := NewJar()
	u := mustURL(t, "https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc"}})

	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "", MaxAge: -1}})
	assert.Empty(t, jar.Cookies(u))
}

func TestJar_MaxAgeLapses(t *testing.T) {
	jar := NewJar()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jar.now = func() time.Time { return now }

	u := mustURL(t, "https://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "short", Value: "1", MaxAge: 60}})
	require.Len(t, jar.Cookies(u), 1)

	now = now.Add(2 * time.Minute)
	assert.Empty(t, jar.Cookies(u))
}

func TestJar_AllSortedAndLongestPathFirst(t *testing.T) {
	jar := NewJar()
	u := mustURL(t, "https://example.com/a/b/c")
	jar.SetCookies(u, []*http.Cookie{
		{Name: "outer", Value: "1", Path: "/"},
		{Name: "inner", Value: "2", Path: "/a/b"},
	})

	got := jar.Cookies(u)
	require.Len(t, got, 2)
	assert.Equal(t, "inner", got[0].Name)
	assert.Equal(t, "outer", got[1].Name)

	all := jar.All()
	require.Len(t, all, 2)
	assert.Equal(t, "/", all[0].Path)
	assert.Equal(t, "/a/b", all[1].Path)
}
