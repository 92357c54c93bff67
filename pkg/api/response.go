// Package api holds the leaf types shared between the plugin, operation,
// flow, and session packages.
package api

import (
	"io"
	"net/http"
	"net/url"
)

// Response is the bound HTTP response a flow operates on. The transport
// buffers the body before handing the response to plugins and operations,
// so Body is always the complete payload of the final response in a
// redirect chain.
type Response struct {
	StatusCode int
	Headers    http.Header
	// Cookies holds the parsed Set-Cookie values of the response,
	// in wire order.
	Cookies []*http.Cookie
	Body    []byte
	// URL is the final request URL after any redirects.
	URL *url.URL
}

// FromHTTP buffers an *http.Response into a Response. The body reader is
// drained and closed.
func FromHTTP(resp *http.Response) (*Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Cookies:    resp.Cookies(),
		Body:       body,
		URL:        resp.Request.URL,
	}, nil
}

// Text returns the response body decoded as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Cookie returns the value of the named Set-Cookie entry. The name match
// is case-sensitive; when the server set the same cookie more than once,
// the last one wins.
func (r *Response) Cookie(name string) (string, bool) {
	value := ""
	found := false
	for _, c := range r.Cookies {
		if c.Name == name {
			value = c.Value
			found = true
		}
	}
	return value, found
}

// Header returns the value of the named response header. The lookup is
// case-sensitive against the stored header keys; when a header repeats,
// the last value wins.
func (r *Response) Header(name string) (string, bool) {
	values, ok := r.Headers[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}
