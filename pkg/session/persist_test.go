package session

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Config{})
	require.NoError(t, err)
	return s
}

func TestDumpRestore_RoundTrip(t *testing.T) {
	s := newTestSession(t)
	s.Store().Set("csrf_token", "deadbeef")
	s.Store().Set("access_token", "eyJ...")
	s.Jar().SetCookies(mustURL(t, "https://app.example.com/login"), []*http.Cookie{
		{Name: "session", Value: "abc123"},
		{Name: "remember", Value: "1", Expires: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	data, err := s.Dump()
	require.NoError(t, err)

	restored := newTestSession(t)
	require.NoError(t, restored.Restore(data))

	assert.Equal(t, s.Store().Snapshot(), restored.Store().Snapshot())
	assert.Equal(t, s.Jar().All(), restored.Jar().All())
}

func TestDump_Deterministic(t *testing.T) {
	build := func() *Session {
		s := newTestSession(t)
		s.Store().Set("b", "2")
		s.Store().Set("a", "1")
		s.Jar().SetCookies(mustURL(t, "https://example.com/"), []*http.Cookie{
			{Name: "z", Value: "last"},
			{Name: "a", Value: "first"},
		})
		return s
	}

	first, err := build().Dump()
	require.NoError(t, err)
	second, err := build().Dump()
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// A dump of restored state matches the original dump byte for byte.
	restored := newTestSession(t)
	require.NoError(t, restored.Restore(first))
	again, err := restored.Dump()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestRestore_ReplacesExistingState(t *testing.T) {
	s := newTestSession(t)
	s.Store().Set("stale", "1")
	s.Jar().SetCookies(mustURL(t, "https://old.example.com/"), []*http.Cookie{
		{Name: "old", Value: "1"},
	})

	empty := newTestSession(t)
	data, err := empty.Dump()
	require.NoError(t, err)

	require.NoError(t, s.Restore(data))
	assert.Empty(t, s.Store().Names())
	assert.Empty(t, s.Jar().All())
}

func TestRestore_RejectsGarbage(t *testing.T) {
	s := newTestSession(t)
	err := s.Restore([]byte("not cbor"))
	require.ErrorIs(t, err, ErrRestore)
}

func TestSlotStore_SaveLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	st, err := OpenSlotStore(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Save("default", []byte("one")))
	require.NoError(t, st.Save("mfa", []byte("two")))

	data, err := st.Load("default")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	slots, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "mfa"}, slots)
}

func TestSlotStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	st, err := OpenSlotStore(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Save("default", []byte("one")))
	require.NoError(t, st.Save("default", []byte("two")))

	data, err := st.Load("default")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)

	slots, err := st.List()
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestSlotStore_LoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	st, err := OpenSlotStore(path)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Load("nope")
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSlotStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	st, err := OpenSlotStore(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Save("default", []byte("one")))
	require.NoError(t, st.Delete("default"))
	require.NoError(t, st.Delete("default"))

	_, err = st.Load("default")
	require.ErrorIs(t, err, ErrSlotNotFound)
}
