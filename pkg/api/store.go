package api

import "context"

// ValueStore is the plugin-value store shared by all flows of one run.
// The session owns the canonical implementation; the interface lives here
// so plugins and operations can read and write values without importing
// the session package.
type ValueStore interface {
	// Get returns the last known value of a plugin, if any.
	Get(name string) (string, bool)
	// Set records a plugin value. Setting overwrites any previous value.
	Set(name, value string)
	// Delete removes a plugin value.
	Delete(name string)
}

// Sender is the HTTP transport boundary. The session implements it with a
// real client; tests substitute their own.
type Sender interface {
	// Send performs one HTTP exchange. Redirects are followed by the
	// transport; the returned Response is the final one in the chain,
	// with its body fully buffered.
	Send(ctx context.Context, method, rawURL string, headers map[string]string, cookies map[string]string, body []byte, contentType string) (*Response, error)
}
