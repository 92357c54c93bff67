// Package authentication drives the flow state machine: it runs the
// configured stages in order, follows the verdicts they return, and
// stops on success, error, or the loop guard.
package authentication

import (
	"context"
	"log/slog"
	"time"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/flow"
	"github.com/digeex/raider/pkg/logging"
	"github.com/digeex/raider/pkg/operations"
	"github.com/digeex/raider/pkg/session"
)

// DefaultMaxSteps bounds stage transitions per run. Stage graphs are
// tiny; anything past this is a WRONG_OTP-style ping-pong.
const DefaultMaxSteps = 25

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Stats counts what a run did.
type Stats struct {
	Steps    int
	Duration time.Duration
}

// Result is the terminal state of one run.
type Result struct {
	Outcome  Outcome
	Message  string
	LastFlow string
	Stats    Stats
}

// Runner executes the authentication stage list and the standalone
// functions against one session. It is read-only after construction and
// may be shared by concurrent runs.
type Runner struct {
	flows     []*flow.Flow
	functions []*flow.Flow
	flowIdx   map[string]int
	fnIdx     map[string]*flow.Flow
	baseURL   string
	maxSteps  int
	logger    *slog.Logger
}

// Option adjusts a Runner at construction.
type Option func(*Runner)

// WithFunctions registers the standalone flows invocable by name.
func WithFunctions(functions ...*flow.Flow) Option {
	return func(r *Runner) { r.functions = functions }
}

// WithBaseURL sets the project base URL that relative request paths are
// joined onto.
func WithBaseURL(baseURL string) Option {
	return func(r *Runner) { r.baseURL = baseURL }
}

// WithMaxSteps overrides the loop guard bound.
func WithMaxSteps(n int) Option {
	return func(r *Runner) { r.maxSteps = n }
}

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger.With("component", "authentication") }
}

// New builds a runner over the ordered authentication flow list. Flow
// and function names must be unique across both lists; NextStage
// resolves against them by name.
func New(flows []*flow.Flow, opts ...Option) (*Runner, error) {
	r := &Runner{
		flows:    flows,
		maxSteps: DefaultMaxSteps,
		logger:   slog.Default().With("component", "authentication"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.flowIdx = make(map[string]int, len(r.flows))
	for i, f := range r.flows {
		if _, dup := r.flowIdx[f.Name()]; dup {
			return nil, errx.With(ErrDuplicateFlow, ": %q", f.Name())
		}
		r.flowIdx[f.Name()] = i
	}
	r.fnIdx = make(map[string]*flow.Flow, len(r.functions))
	for _, f := range r.functions {
		if _, dup := r.flowIdx[f.Name()]; dup {
			return nil, errx.With(ErrDuplicateFlow, ": %q", f.Name())
		}
		if _, dup := r.fnIdx[f.Name()]; dup {
			return nil, errx.With(ErrDuplicateFlow, ": %q", f.Name())
		}
		r.fnIdx[f.Name()] = f
	}
	return r, nil
}

// Run executes the authentication sequence from the first flow.
func (r *Runner) Run(ctx context.Context, sess *session.Session) (*Result, error) {
	return r.run(ctx, sess, 0)
}

// RunFrom executes the authentication sequence starting at the named
// stage.
func (r *Runner) RunFrom(ctx context.Context, sess *session.Session, stage string) (*Result, error) {
	i, ok := r.flowIdx[stage]
	if !ok {
		err := errx.With(ErrUnknownStage, ": %s", stage)
		return &Result{Outcome: OutcomeError, Message: err.Error()}, err
	}
	return r.run(ctx, sess, i)
}

func (r *Runner) run(ctx context.Context, sess *session.Session, start int) (*Result, error) {
	began := time.Now()
	result := &Result{Outcome: OutcomeOK}
	finish := func(err error) (*Result, error) {
		result.Stats.Duration = time.Since(began)
		r.emitEnd(sess, result)
		return result, err
	}

	if len(r.flows) == 0 {
		result.Message = "no authentication flows configured"
		return finish(nil)
	}

	r.emitStart(sess, r.flows[start].Name())

	current := start
	for {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)
		}
		if result.Stats.Steps >= r.maxSteps {
			err := errx.With(ErrLoopGuard, " %d steps", r.maxSteps)
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)
		}
		result.Stats.Steps++

		f := r.flows[current]
		result.LastFlow = f.Name()
		r.logger.Info("running stage", "stage", f.Name(), "step", result.Stats.Steps)

		verdict, err := f.Run(ctx, sess, r.baseURL)
		if err != nil {
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)
		}

		switch verdict.Kind {
		case operations.KindStop:
			return finish(nil)

		case operations.KindError:
			result.Outcome = OutcomeError
			result.Message = verdict.Message
			return finish(nil)

		case operations.KindNext:
			if i, ok := r.flowIdx[verdict.Next]; ok {
				current = i
				continue
			}
			// A stage name that only exists in the functions list runs
			// that function once, then the run stops.
			if fn, ok := r.fnIdx[verdict.Next]; ok {
				if result.Stats.Steps >= r.maxSteps {
					err := errx.With(ErrLoopGuard, " %d steps", r.maxSteps)
					result.Outcome = OutcomeError
					result.Message = err.Error()
					return finish(err)
				}
				result.Stats.Steps++
				result.LastFlow = fn.Name()
				fnVerdict, err := fn.Run(ctx, sess, r.baseURL)
				if err != nil {
					result.Outcome = OutcomeError
					result.Message = err.Error()
					return finish(err)
				}
				if fnVerdict.Kind == operations.KindError {
					result.Outcome = OutcomeError
					result.Message = fnVerdict.Message
				}
				return finish(nil)
			}
			err := errx.With(ErrUnknownStage, ": %s", verdict.Next)
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)

		default: // KindContinue
			if current+1 < len(r.flows) {
				current++
				continue
			}
			return finish(nil)
		}
	}
}

// RunFunction invokes one standalone flow by name. NextStage verdicts
// chain, resolving against the functions list first and then the
// authentication list, under the same loop guard.
func (r *Runner) RunFunction(ctx context.Context, sess *session.Session, name string) (*Result, error) {
	began := time.Now()
	result := &Result{Outcome: OutcomeOK}
	finish := func(err error) (*Result, error) {
		result.Stats.Duration = time.Since(began)
		r.emitEnd(sess, result)
		return result, err
	}

	current, ok := r.lookupFunction(name)
	if !ok {
		err := errx.With(ErrUnknownFunction, ": %s", name)
		result.Outcome = OutcomeError
		result.Message = err.Error()
		return result, err
	}

	r.emitStart(sess, current.Name())

	for {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)
		}
		if result.Stats.Steps >= r.maxSteps {
			err := errx.With(ErrLoopGuard, " %d steps", r.maxSteps)
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)
		}
		result.Stats.Steps++
		result.LastFlow = current.Name()
		r.logger.Info("running function", "flow", current.Name(), "step", result.Stats.Steps)

		verdict, err := current.Run(ctx, sess, r.baseURL)
		if err != nil {
			result.Outcome = OutcomeError
			result.Message = err.Error()
			return finish(err)
		}

		switch verdict.Kind {
		case operations.KindStop:
			return finish(nil)
		case operations.KindError:
			result.Outcome = OutcomeError
			result.Message = verdict.Message
			return finish(nil)
		case operations.KindNext:
			next, ok := r.lookupFunction(verdict.Next)
			if !ok {
				err := errx.With(ErrUnknownStage, ": %s", verdict.Next)
				result.Outcome = OutcomeError
				result.Message = err.Error()
				return finish(err)
			}
			current = next
		default: // KindContinue: a standalone flow has no list to advance in.
			return finish(nil)
		}
	}
}

func (r *Runner) lookupFunction(name string) (*flow.Flow, bool) {
	if f, ok := r.fnIdx[name]; ok {
		return f, true
	}
	if i, ok := r.flowIdx[name]; ok {
		return r.flows[i], true
	}
	return nil, false
}

func (r *Runner) emitStart(sess *session.Session, stage string) {
	emitter := sess.Emitter()
	if emitter == nil {
		return
	}
	var user string
	if u := sess.Users().Active(); u != nil {
		user = u.Username
	}
	_ = emitter.Emit(logging.EventRunStart, "run started at "+stage, "", nil,
		&logging.RunStartData{Stage: stage, User: user})
}

func (r *Runner) emitEnd(sess *session.Session, result *Result) {
	emitter := sess.Emitter()
	if emitter == nil {
		return
	}
	_ = emitter.Emit(logging.EventRunEnd, "run ended: "+string(result.Outcome), result.LastFlow, nil,
		&logging.RunEndData{
			Outcome:    string(result.Outcome),
			Message:    result.Message,
			LastFlow:   result.LastFlow,
			Steps:      result.Stats.Steps,
			DurationMS: result.Stats.Duration.Milliseconds(),
		})
}
