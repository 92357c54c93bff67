package session

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cookie is one jar entry, keyed by (domain, path, name).
type Cookie struct {
	Domain   string
	Path     string
	Name     string
	Value    string
	Secure   bool
	HostOnly bool
	// Expires is zero for session cookies.
	Expires time.Time
}

// Jar is the cookie jar shared by all flows of one run. Unlike
// net/http/cookiejar it exposes its entries, which session persistence
// needs. It implements http.CookieJar, so redirect chains inside the
// client carry cookies too.
type Jar struct {
	mu      sync.Mutex
	entries map[string]*Cookie
	now     func() time.Time
}

// NewJar creates an empty jar.
func NewJar() *Jar {
	return &Jar{
		entries: make(map[string]*Cookie),
		now:     time.Now,
	}
}

func jarKey(domain, path, name string) string {
	return domain + ";" + path + ";" + name
}

// SetCookies merges a response's Set-Cookie list into the jar.
// An expired cookie (Max-Age<=0 or past Expires) deletes the entry.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()

	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		domain := strings.ToLower(c.Domain)
		hostOnly := false
		if domain == "" {
			domain = strings.ToLower(u.Hostname())
			hostOnly = true
		}
		domain = strings.TrimPrefix(domain, ".")

		path := c.Path
		if path == "" || path[0] != '/' {
			path = defaultPath(u.Path)
		}

		key := jarKey(domain, path, c.Name)

		expired := c.MaxAge < 0 ||
			(c.MaxAge == 0 && !c.Expires.IsZero() && !c.Expires.After(now))
		if expired {
			delete(j.entries, key)
			continue
		}

		entry := &Cookie{
			Domain:   domain,
			Path:     path,
			Name:     c.Name,
			Value:    c.Value,
			Secure:   c.Secure,
			HostOnly: hostOnly,
		}
		if c.MaxAge > 0 {
			entry.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		} else if !c.Expires.IsZero() {
			entry.Expires = c.Expires
		}
		j.entries[key] = entry
	}
}

// Cookies returns the cookies to send with a request to u, longest path
// first.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	host := strings.ToLower(u.Hostname())
	secure := u.Scheme == "https"

	var matched []*Cookie
	for key, c := range j.entries {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			delete(j.entries, key)
			continue
		}
		if c.Secure && !secure {
			continue
		}
		if !domainMatch(host, c.Domain, c.HostOnly) {
			continue
		}
		if !pathMatch(u.Path, c.Path) {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, k int) bool {
		if len(matched[i].Path) != len(matched[k].Path) {
			return len(matched[i].Path) > len(matched[k].Path)
		}
		return matched[i].Name < matched[k].Name
	})

	out := make([]*http.Cookie, len(matched))
	for i, c := range matched {
		out[i] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return out
}

// All returns every live entry sorted by (domain, path, name). The order
// is what makes session dumps deterministic.
func (j *Jar) All() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()

	out := make([]Cookie, 0, len(j.entries))
	for key, c := range j.entries {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			delete(j.entries, key)
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Domain != out[k].Domain {
			return out[i].Domain < out[k].Domain
		}
		if out[i].Path != out[k].Path {
			return out[i].Path < out[k].Path
		}
		return out[i].Name < out[k].Name
	})
	return out
}

// Put inserts an entry directly, bypassing Set-Cookie semantics. Used by
// session restore.
func (j *Jar) Put(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	entry := c
	j.entries[jarKey(c.Domain, c.Path, c.Name)] = &entry
}

// Clear drops every entry.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = make(map[string]*Cookie)
}

func defaultPath(requestPath string) string {
	if requestPath == "" || requestPath[0] != '/' {
		return "/"
	}
	idx := strings.LastIndexByte(requestPath, '/')
	if idx <= 0 {
		return "/"
	}
	return requestPath[:idx]
}

func domainMatch(host, domain string, hostOnly bool) bool {
	if host == domain {
		return true
	}
	if hostOnly {
		return false
	}
	return strings.HasSuffix(host, "."+domain)
}

func pathMatch(requestPath, cookiePath string) bool {
	if requestPath == "" {
		requestPath = "/"
	}
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}
