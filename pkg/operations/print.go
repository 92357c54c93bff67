package operations

import (
	"context"
	"fmt"

	"github.com/digeex/raider/pkg/plugins"
)

// PrintItem is one element of a Print operation: a literal line or a
// plugin whose current value is printed as "name = value".
type PrintItem struct {
	Literal string
	Plugin  *plugins.Plugin
}

// Text wraps a literal for NewPrint.
func Text(s string) PrintItem { return PrintItem{Literal: s} }

// Value wraps a plugin for NewPrint.
func Value(p *plugins.Plugin) PrintItem { return PrintItem{Plugin: p} }

// Print writes each item on its own line and continues.
type Print struct {
	items []PrintItem
}

// NewPrint builds a Print over literals and plugin values.
func NewPrint(items ...PrintItem) *Print {
	return &Print{items: items}
}

func (o *Print) Run(c *Context) Verdict {
	for _, item := range o.items {
		if item.Plugin == nil {
			fmt.Fprintln(c.stdout(), item.Literal)
			continue
		}
		value, ok := o.pluginValue(c, item.Plugin)
		if !ok {
			value = "<absent>"
		}
		fmt.Fprintf(c.stdout(), "%s = %s\n", item.Plugin.Name(), value)
	}
	return Continue()
}

// pluginValue looks up a plugin's printable value. Derived plugins never
// write the store, so they are recomputed from the stored dependency
// values; everything else reads the store directly.
func (o *Print) pluginValue(c *Context, p *plugins.Plugin) (string, bool) {
	if p.DependsOnPlugins() {
		env := &plugins.Env{Ctx: context.Background(), Store: c.Store, Logger: c.Logger}
		value, err := p.Resolve(env)
		if err != nil {
			c.logger().Debug("couldn't resolve plugin for printing", "plugin", p.Name(), "error", err)
			return c.Store.Get(p.Name())
		}
		return value, true
	}
	return c.Store.Get(p.Name())
}

// PrintBody prints the whole response body.
type PrintBody struct{}

// NewPrintBody builds a PrintBody.
func NewPrintBody() *PrintBody { return &PrintBody{} }

func (o *PrintBody) Run(c *Context) Verdict {
	fmt.Fprintf(c.stdout(), "\nHTTP response body:\n%s\n", c.Response.Text())
	return Continue()
}

// PrintHeaders prints the named response headers, or all of them when no
// names are given.
type PrintHeaders struct {
	names []string
}

// NewPrintHeaders builds a PrintHeaders.
func NewPrintHeaders(names ...string) *PrintHeaders {
	return &PrintHeaders{names: names}
}

func (o *PrintHeaders) Run(c *Context) Verdict {
	out := c.stdout()
	fmt.Fprintln(out, "HTTP response headers:")
	if len(o.names) > 0 {
		for _, name := range o.names {
			if value, ok := c.Response.Header(name); ok {
				fmt.Fprintf(out, "%s: %s\n", name, value)
			}
		}
		return Continue()
	}
	for name, values := range c.Response.Headers {
		for _, value := range values {
			fmt.Fprintf(out, "%s: %s\n", name, value)
		}
	}
	return Continue()
}

// PrintCookies prints the named response cookies, or all of them when no
// names are given.
type PrintCookies struct {
	names []string
}

// NewPrintCookies builds a PrintCookies.
func NewPrintCookies(names ...string) *PrintCookies {
	return &PrintCookies{names: names}
}

func (o *PrintCookies) Run(c *Context) Verdict {
	out := c.stdout()
	fmt.Fprintln(out, "HTTP response cookies:")
	if len(o.names) > 0 {
		for _, name := range o.names {
			if value, ok := c.Response.Cookie(name); ok {
				fmt.Fprintf(out, "%s: %s\n", name, value)
			}
		}
		return Continue()
	}
	for _, cookie := range c.Response.Cookies {
		fmt.Fprintf(out, "%s: %s\n", cookie.Name, cookie.Value)
	}
	return Continue()
}
