package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlterPrepend(t *testing.T) {
	token := NewCookie("token")
	p := AlterPrepend(token, "v2:")
	store := mapStore{"token": "abc"}

	v, err := p.Resolve(testEnv(store, nil))
	require.NoError(t, err)
	assert.Equal(t, "v2:abc", v)
}

func TestAlterAppend(t *testing.T) {
	token := NewCookie("token")
	p := AlterAppend(token, ";secure")

	v, err := p.Resolve(testEnv(mapStore{"token": "abc"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "abc;secure", v)
}

func TestAlterReplace(t *testing.T) {
	raw := NewCookie("raw")
	p := AlterReplace(raw, "%20", " ")

	v, err := p.Resolve(testEnv(mapStore{"raw": "a%20b%20c"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "a b c", v)
}

func TestAlterReplacePlugin(t *testing.T) {
	template := NewCookie("template")
	userID := NewCookie("uid")
	p := AlterReplacePlugin(template, "{id}", userID)
	store := mapStore{"template": "/users/{id}/profile", "uid": "42"}

	v, err := p.Resolve(testEnv(store, nil))
	require.NoError(t, err)
	assert.Equal(t, "/users/42/profile", v)
}

func TestAlter_KeepsParentName(t *testing.T) {
	token := NewCookie("token")
	p := AlterPrepend(token, "x")
	assert.Equal(t, "token", p.Name())
}

func TestAlter_DoesNotClobberStore(t *testing.T) {
	token := NewCookie("token")
	p := AlterPrepend(token, "v2:")
	store := mapStore{"token": "abc"}

	_, err := p.Resolve(testEnv(store, nil))
	require.NoError(t, err)
	assert.Equal(t, "abc", store["token"], "derived values must not overwrite the raw value")
}

func TestCombine_OrderedConcatenation(t *testing.T) {
	sid := NewCookie("sid")
	csrf := NewCookie("csrf")
	p := NewCombine("pair", Part(sid), Literal(":"), Part(csrf))
	store := mapStore{"sid": "s", "csrf": "c"}

	v, err := p.Resolve(testEnv(store, nil))
	require.NoError(t, err)
	assert.Equal(t, "s:c", v)
}

func TestCombine_AbsentPartFails(t *testing.T) {
	p := NewCombine("pair", Part(NewCookie("missing")), Literal("x"))

	_, err := p.Resolve(testEnv(mapStore{}, nil))
	assert.ErrorIs(t, err, ErrDepUnresolved)
}

func TestUrlParser_Components(t *testing.T) {
	location := NewHeader("Location")
	store := mapStore{"Location": "https://sso.example.com/callback?code=z9&state=s1#frag"}

	cases := []struct {
		element string
		want    string
	}{
		{"scheme", "https"},
		{"netloc", "sso.example.com"},
		{"path", "/callback"},
		{"fragment", "frag"},
		{"query.code", "z9"},
	}
	for _, tc := range cases {
		t.Run(tc.element, func(t *testing.T) {
			p := NewUrlParser(location, tc.element)
			v, err := p.Resolve(testEnv(store, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestUrlParser_MissingQueryParam(t *testing.T) {
	location := NewHeader("Location")
	p := NewUrlParser(location, "query.nope")

	_, err := p.Resolve(testEnv(mapStore{"Location": "https://x.test/?a=1"}, nil))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestJsonFromPlugin(t *testing.T) {
	blob := NewCookie("blob")
	p, err := JsonFromPlugin(blob, "inner", "data.token")
	require.NoError(t, err)
	store := mapStore{"blob": `{"data":{"token":"inner-tok"}}`}

	v, err := p.Resolve(testEnv(store, nil))
	require.NoError(t, err)
	assert.Equal(t, "inner-tok", v)
}

func TestHeaderFromPlugin(t *testing.T) {
	token := NewCookie("token")
	p := HeaderFromPlugin(token, "X-Auth")
	assert.Equal(t, "X-Auth", p.Name())

	v, err := p.Resolve(testEnv(mapStore{"token": "abc"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestCookieFromPlugin(t *testing.T) {
	token := NewCookie("token")
	p := CookieFromPlugin(token, "session")
	assert.Equal(t, "session", p.Name())

	v, err := p.Resolve(testEnv(mapStore{"token": "abc"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}
