// Package flow executes one authentication stage: a templated HTTP
// request, output extraction from the response, and the post-response
// operations that decide where the run goes next.
package flow

import (
	"context"
	"time"

	"github.com/digeex/raider/pkg/logging"
	"github.com/digeex/raider/pkg/operations"
	"github.com/digeex/raider/pkg/plugins"
	"github.com/digeex/raider/pkg/session"
)

// Flow is one stage of the state machine. It is read-only after
// construction; all run state lands in the session.
type Flow struct {
	name    string
	request *Request
	outputs []*plugins.Plugin
	ops     []operations.Operation
}

// Option adjusts a Flow at construction.
type Option func(*Flow)

// WithOutputs declares the plugins to extract from the response, in
// order.
func WithOutputs(outputs ...*plugins.Plugin) Option {
	return func(f *Flow) { f.outputs = outputs }
}

// WithOperations declares the post-response operations, in order.
func WithOperations(ops ...operations.Operation) Option {
	return func(f *Flow) { f.ops = ops }
}

// New builds a flow.
func New(name string, request *Request, opts ...Option) *Flow {
	f := &Flow{name: name, request: request}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the flow's unique name in the graph.
func (f *Flow) Name() string { return f.name }

// Request returns the flow's request template.
func (f *Flow) Request() *Request { return f.request }

// Outputs returns the declared output plugins.
func (f *Flow) Outputs() []*plugins.Plugin { return f.outputs }

// Operations returns the declared post-response operations.
func (f *Flow) Operations() []operations.Operation { return f.ops }

// Run executes the stage once: materialise, send, bind outputs, then
// evaluate operations. Extraction failures are warnings; only the
// transport can fail the run from here.
func (f *Flow) Run(ctx context.Context, sess *session.Session, baseURL string) (operations.Verdict, error) {
	if f.request == nil {
		return operations.Verdict{}, ErrNoRequest
	}

	env := sess.Env(ctx)
	logger := sess.Logger().With("flow", f.name)

	m, err := f.request.Materialise(env, baseURL)
	if err != nil {
		return operations.Verdict{}, err
	}

	emitter := sess.Emitter()
	if emitter != nil {
		_ = emitter.Emit(logging.EventHTTPRequest, m.Method+" "+m.URL, f.name, nil,
			&logging.HTTPRequestData{Method: m.Method, URL: m.URL})
	}

	start := time.Now()
	resp, err := sess.Send(ctx, m.Method, m.URL, m.Headers, m.Cookies, m.Body, m.ContentType)
	if err != nil {
		return operations.Verdict{}, err
	}
	if emitter != nil {
		_ = emitter.Emit(logging.EventHTTPResponse, m.Method+" "+m.URL, f.name, nil,
			&logging.HTTPResponseData{
				Method:     m.Method,
				URL:        m.URL,
				StatusCode: resp.StatusCode,
				DurationMS: time.Since(start).Milliseconds(),
				BodyBytes:  int64(len(resp.Body)),
			})
	}

	// Output binding precedes operation evaluation, so conditionals see
	// populated plugin values.
	for _, output := range f.outputs {
		value, err := output.Extract(resp)
		if err != nil {
			logger.Warn("Couldn't extract output: "+output.Name(), "error", err)
			if emitter != nil {
				_ = emitter.Emit(logging.EventOutputExtracted, "missed "+output.Name(), f.name, nil,
					&logging.OutputExtractedData{Output: output.Name()})
			}
			continue
		}
		sess.Store().Set(output.Name(), value)
		if emitter != nil {
			_ = emitter.Emit(logging.EventOutputExtracted, "extracted "+output.Name(), f.name, nil,
				&logging.OutputExtractedData{Output: output.Name(), Found: true, ValueBytes: len(value)})
		}
	}

	verdict := operations.RunAll(f.ops, &operations.Context{
		Response: resp,
		Store:    sess.Store(),
		Stdout:   sess.Stdout(),
		Logger:   logger,
	})
	if emitter != nil {
		_ = emitter.Emit(logging.EventVerdict, verdict.String(), f.name, nil,
			&logging.VerdictData{Kind: verdict.Kind.String(), Next: verdict.Next, Message: verdict.Message})
	}
	return verdict, nil
}
