package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `
<html><body>
<form action="/login" method="post">
<input type="text" name="username">
<input type="hidden" name="csrf_token" value="0123456789abcdef0123456789abcdef01234567">
<input type="submit" value="Log in">
</form>
<a id="next" href="/mfa">continue</a>
</body></html>`

func TestHtml_ExtractsAttributeWithRegexPredicate(t *testing.T) {
	p := NewHtml("csrf", "input", map[string]string{
		"name":  "csrf_token",
		"value": "[0-9a-f]{40}",
		"type":  "hidden",
	}, "value")

	v, err := p.Extract(bodyResponse(loginPage))
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", v)
	assert.Len(t, v, 40)
}

func TestHtml_ExactAttributeMatch(t *testing.T) {
	p := NewHtml("href", "a", map[string]string{"id": "next"}, "href")

	v, err := p.Extract(bodyResponse(loginPage))
	require.NoError(t, err)
	assert.Equal(t, "/mfa", v)
}

func TestHtml_FirstCandidateWins(t *testing.T) {
	body := `<div><span class="v">first</span><span class="v">second</span></div>`
	p := NewHtml("val", "span", map[string]string{"class": "v"}, DataAttribute)

	v, err := p.Extract(bodyResponse(body))
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestHtml_InnerTextExtraction(t *testing.T) {
	body := `<p id="msg">hello <b>there</b>!</p>`
	p := NewHtml("msg", "p", map[string]string{"id": "msg"}, DataAttribute)

	v, err := p.Extract(bodyResponse(body))
	require.NoError(t, err)
	assert.Equal(t, "hello there!", v)
}

func TestHtml_AllAttributesMustMatch(t *testing.T) {
	p := NewHtml("csrf", "input", map[string]string{
		"name": "csrf_token",
		"type": "text",
	}, "value")

	_, err := p.Extract(bodyResponse(loginPage))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestHtml_MissingExtractAttribute(t *testing.T) {
	p := NewHtml("x", "a", map[string]string{"id": "next"}, "rel")

	_, err := p.Extract(bodyResponse(loginPage))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestHtml_RegexIsAnchored(t *testing.T) {
	// "hid" must not match "hidden" when treated as a regex.
	p := NewHtml("csrf", "input", map[string]string{"type": "hid"}, "value")

	_, err := p.Extract(bodyResponse(loginPage))
	assert.ErrorIs(t, err, ErrNoMatch)
}
