package operations

import (
	"os"

	"github.com/digeex/raider/pkg/plugins"
)

// Save writes a plugin value, or the response body, to a file. A write
// failure is logged and the flow continues; Save never yields a terminal
// verdict.
type Save struct {
	path    string
	plugin  *plugins.Plugin
	appends bool
}

// NewSave truncates path and writes the plugin's current value.
func NewSave(path string, plugin *plugins.Plugin) *Save {
	return &Save{path: path, plugin: plugin}
}

// NewSaveAppend appends instead of truncating.
func NewSaveAppend(path string, plugin *plugins.Plugin) *Save {
	return &Save{path: path, plugin: plugin, appends: true}
}

// NewSaveBody writes the whole response body.
func NewSaveBody(path string, appends bool) *Save {
	return &Save{path: path, appends: appends}
}

func (o *Save) Run(c *Context) Verdict {
	var content string
	if o.plugin == nil {
		content = c.Response.Text()
	} else {
		value, ok := c.Store.Get(o.plugin.Name())
		if !ok {
			c.logger().Warn("nothing to save, plugin has no value", "plugin", o.plugin.Name(), "path", o.path)
			return Continue()
		}
		content = value
	}

	mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if o.appends {
		mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(o.path, mode, 0o644)
	if err != nil {
		c.logger().Warn("save failed", "path", o.path, "error", err)
		return Continue()
	}
	defer f.Close()
	if _, err := f.WriteString(content + "\n"); err != nil {
		c.logger().Warn("save write failed", "path", o.path, "error", err)
	}
	return Continue()
}
