package logging

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	events []*Event
	closed bool
}

func (m *memorySink) Write(event *Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

type failingSink struct{ err error }

func (f *failingSink) Write(*Event) error { return f.err }
func (f *failingSink) Close() error       { return f.err }

func TestEmitter_StampsMetadata(t *testing.T) {
	sink := &memorySink{}
	e := NewEmitter(EmitterConfig{RunID: "run-1", Project: "shop"}, sink)

	err := e.Emit(EventRunStart, "run started", "", []string{"auth"}, &RunStartData{Stage: "login"})
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, "shop", ev.Project)
	assert.Equal(t, EventRunStart, ev.EventType)
	assert.Equal(t, "run started", ev.Summary)
	assert.Equal(t, []string{"auth"}, ev.Tags)
	assert.False(t, ev.Timestamp.IsZero())

	var data RunStartData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "login", data.Stage)
}

func TestEmitter_DefaultsRunID(t *testing.T) {
	e := NewEmitter(EmitterConfig{Project: "shop"})
	assert.NotEmpty(t, e.RunID())

	other := NewEmitter(EmitterConfig{Project: "shop"})
	assert.NotEqual(t, e.RunID(), other.RunID())
}

func TestEmitter_NilDataOmitsPayload(t *testing.T) {
	sink := &memorySink{}
	e := NewEmitter(EmitterConfig{RunID: "run-1"}, sink)

	require.NoError(t, e.Emit(EventVerdict, "stop", "login", nil, nil))
	require.Len(t, sink.events, 1)
	assert.Nil(t, sink.events[0].Data)
}

func TestEmitter_FanOutAndSinkError(t *testing.T) {
	good := &memorySink{}
	bad := &failingSink{err: errors.New("disk full")}
	e := NewEmitter(EmitterConfig{RunID: "run-1"}, good, bad)

	err := e.Emit(EventHTTPRequest, "GET /login", "login", nil, nil)
	require.Error(t, err)
	assert.Len(t, good.events, 1)
}

func TestEmitter_CloseClosesAllSinks(t *testing.T) {
	a := &memorySink{}
	b := &memorySink{}
	e := NewEmitter(EmitterConfig{RunID: "run-1"}, a, b)

	require.NoError(t, e.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
