package plugins

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/api"
)

// DataAttribute selects the tag's inner text instead of an attribute.
const DataAttribute = "data"

// attrPredicate matches a tag attribute value either exactly or as an
// anchored regular expression. The regex form is compiled once at graph
// construction; a value that is not a valid regex matches exactly only.
type attrPredicate struct {
	exact string
	re    *regexp.Regexp
}

func newAttrPredicate(value string) attrPredicate {
	p := attrPredicate{exact: value}
	if re, err := regexp.Compile("^(?:" + value + ")$"); err == nil {
		p.re = re
	}
	return p
}

func (p attrPredicate) match(v string) bool {
	if v == p.exact {
		return true
	}
	return p.re != nil && p.re.MatchString(v)
}

// NewHtml parses the response body as HTML and selects the first tag (in
// document order) with the given tag name whose attributes all satisfy the
// attributes map. Each map value matches exactly or as an anchored regex.
// extract names the attribute to pull from the winning tag, or
// DataAttribute for its inner text.
func NewHtml(name, tag string, attributes map[string]string, extract string) *Plugin {
	predicates := make(map[string]attrPredicate, len(attributes))
	for attr, value := range attributes {
		predicates[attr] = newAttrPredicate(value)
	}
	return &Plugin{
		name:  name,
		kind:  "html",
		flags: NeedsResponse,
		extract: func(resp *api.Response) (string, error) {
			doc, err := html.Parse(bytes.NewReader(resp.Body))
			if err != nil {
				return "", errx.Wrap(ErrNoMatch, err)
			}
			node := findTag(doc, tag, predicates)
			if node == nil {
				return "", errx.With(ErrNoMatch, ": tag <%s> with attributes %v", tag, attributes)
			}
			if extract == DataAttribute {
				return innerText(node), nil
			}
			for _, a := range node.Attr {
				if a.Key == extract {
					return a.Val, nil
				}
			}
			return "", errx.With(ErrNoMatch, ": tag <%s> has no attribute %q", tag, extract)
		},
	}
}

// findTag walks the parse tree depth-first, which is document order, and
// returns the first element matching the tag name and all predicates.
func findTag(n *html.Node, tag string, predicates map[string]attrPredicate) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && tagMatches(n, predicates) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTag(c, tag, predicates); found != nil {
			return found
		}
	}
	return nil
}

func tagMatches(n *html.Node, predicates map[string]attrPredicate) bool {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	for key, pred := range predicates {
		value, ok := attrs[key]
		if !ok || !pred.match(value) {
			return false
		}
	}
	return true
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
