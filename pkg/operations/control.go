package operations

// NextStage is the terminal control-flow operation. An empty stage name
// means "stop authentication normally".
type NextStage struct {
	stage string
}

// NewNextStage routes to the named stage when run.
func NewNextStage(stage string) *NextStage {
	return &NextStage{stage: stage}
}

// Finish is a NextStage that stops the run.
func Finish() *NextStage {
	return &NextStage{}
}

// Stage returns the target stage name, empty for stop.
func (o *NextStage) Stage() string { return o.stage }

func (o *NextStage) Run(c *Context) Verdict {
	if o.stage == "" {
		return Stop()
	}
	return Next(o.stage)
}

// Error aborts the run with a message when reached.
type Error struct {
	message string
}

// NewError builds the terminal Error operation.
func NewError(message string) *Error {
	return &Error{message: message}
}

func (o *Error) Run(c *Context) Verdict {
	return Fail(o.message)
}
