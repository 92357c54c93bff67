package plugins

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digeex/raider/pkg/api"
)

// mapStore is a minimal api.ValueStore for tests.
type mapStore map[string]string

func (s mapStore) Get(name string) (string, bool) { v, ok := s[name]; return v, ok }
func (s mapStore) Set(name, value string)         { s[name] = value }
func (s mapStore) Delete(name string)             { delete(s, name) }

func testEnv(store mapStore, userdata map[string]string) *Env {
	return &Env{
		Ctx:      context.Background(),
		Userdata: userdata,
		Store:    store,
		Stdin:    strings.NewReader(""),
		Stdout:   &strings.Builder{},
	}
}

func bodyResponse(body string) *api.Response {
	return &api.Response{
		StatusCode: 200,
		Headers:    http.Header{},
		Body:       []byte(body),
	}
}

func TestVariable_ReadsUserField(t *testing.T) {
	p := NewVariable("username")
	env := testEnv(mapStore{}, map[string]string{"username": "admin"})

	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "admin", v)
}

func TestVariable_MissingFieldFails(t *testing.T) {
	p := NewVariable("mfa_secret")
	env := testEnv(mapStore{}, map[string]string{"username": "admin"})

	_, err := p.Resolve(env)
	assert.ErrorIs(t, err, ErrUserdataField)
}

func TestPrompt_ReadsLineAndCaches(t *testing.T) {
	p := NewPrompt("mfa")
	store := mapStore{}
	env := testEnv(store, nil)
	env.Stdin = strings.NewReader("123456\n")

	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "123456", v)
	assert.Equal(t, "123456", store["mfa"])

	// Second resolution hits the cache, not stdin.
	env.Stdin = strings.NewReader("")
	v, err = p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "123456", v)
}

func TestPrompt_SkipsEmptyLines(t *testing.T) {
	p := NewPrompt("otp")
	env := testEnv(mapStore{}, nil)
	env.Stdin = strings.NewReader("\n\n654321\n")

	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "654321", v)
}

type stubPrompter struct {
	value string
	calls int
}

func (s *stubPrompter) Prompt(_ context.Context, name string) (string, error) {
	s.calls++
	return s.value, nil
}

func TestPrompt_UsesPrompterWhenSet(t *testing.T) {
	p := NewPrompt("code")
	prompter := &stubPrompter{value: "999"}
	env := testEnv(mapStore{}, nil)
	env.Prompter = prompter

	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "999", v)
	assert.Equal(t, 1, prompter.calls)
}

func TestCommand_CapturesStdout(t *testing.T) {
	p := NewCommand("token", "echo secret-token")
	env := testEnv(mapStore{}, nil)

	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", v, "trailing newline should be stripped")
}

func TestCommand_QuotedArguments(t *testing.T) {
	p := NewCommand("msg", `echo "hello world"`)
	env := testEnv(mapStore{}, nil)

	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "hello world", v)
}

func TestEmpty_ResolvesFromStoreOnly(t *testing.T) {
	p := NewEmpty("fuzz")
	store := mapStore{}
	env := testEnv(store, nil)

	_, err := p.Resolve(env)
	assert.ErrorIs(t, err, api.ErrNoValue)

	store["fuzz"] = "payload"
	v, err := p.Resolve(env)
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
}

func TestResponsePlugin_ResolvesFromStore(t *testing.T) {
	p := NewCookie("sid")
	store := mapStore{"sid": "abc"}

	v, err := p.Resolve(testEnv(store, nil))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestResponsePlugin_AbsentValueFails(t *testing.T) {
	p := NewCookie("sid")

	_, err := p.Resolve(testEnv(mapStore{}, nil))
	assert.ErrorIs(t, err, api.ErrNoValue)
}

func TestFlags(t *testing.T) {
	assert.True(t, NewVariable("u").NeedsUserdata())
	assert.True(t, NewCookie("c").NeedsResponse())
	assert.True(t, NewCombine("x", Literal("a")).DependsOnPlugins())
	assert.False(t, NewPrompt("p").NeedsResponse())
}
