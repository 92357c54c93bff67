package operations

import "fmt"

// Kind classifies a verdict.
type Kind int

const (
	// KindContinue means the operation finished its side effect; the
	// flow moves to the next operation, and past the last one the runner
	// advances to the next flow in the authentication list.
	KindContinue Kind = iota
	// KindNext names the stage to run next.
	KindNext
	// KindStop ends the authentication run successfully.
	KindStop
	// KindError aborts the run with a message.
	KindError
)

// Verdict is the result of evaluating an operation, and by extension of a
// flow's whole operation list.
type Verdict struct {
	Kind    Kind
	Next    string
	Message string
}

// Continue is the non-terminal verdict.
func Continue() Verdict { return Verdict{Kind: KindContinue} }

// Next routes to the named stage.
func Next(stage string) Verdict { return Verdict{Kind: KindNext, Next: stage} }

// Stop ends the run successfully.
func Stop() Verdict { return Verdict{Kind: KindStop} }

// Fail aborts the run with a message.
func Fail(message string) Verdict { return Verdict{Kind: KindError, Message: message} }

// Terminal reports whether the verdict stops operation evaluation.
func (v Verdict) Terminal() bool { return v.Kind != KindContinue }

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindNext:
		return "next"
	case KindStop:
		return "stop"
	case KindError:
		return "error"
	}
	return "unknown"
}

func (v Verdict) String() string {
	switch v.Kind {
	case KindContinue:
		return "continue"
	case KindNext:
		return "next:" + v.Next
	case KindStop:
		return "stop"
	case KindError:
		return fmt.Sprintf("error:%s", v.Message)
	}
	return "unknown"
}
