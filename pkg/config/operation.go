package config

import (
	"github.com/digeex/raider/internal/errx"
	"github.com/digeex/raider/pkg/flow"
	"github.com/digeex/raider/pkg/operations"
	"github.com/digeex/raider/pkg/plugins"
)

type flowSpec struct {
	Name       string      `yaml:"name"`
	Request    requestSpec `yaml:"request"`
	Outputs    []string    `yaml:"outputs"`
	Operations []opSpec    `yaml:"operations"`
}

type requestSpec struct {
	Method      string     `yaml:"method"`
	URL         string     `yaml:"url"`
	Path        string     `yaml:"path"`
	Headers     []string   `yaml:"headers"`
	Cookies     []string   `yaml:"cookies"`
	Data        []dataSpec `yaml:"data"`
	JSON        bool       `yaml:"json"`
	Body        string     `yaml:"body"`
	ContentType string     `yaml:"content_type"`
}

type dataSpec struct {
	// Name is the literal body key; KeyPlugin substitutes a plugin value
	// as the key instead.
	Name      string `yaml:"name"`
	KeyPlugin string `yaml:"key_plugin"`
	// Value is the literal body value; Plugin substitutes a plugin value.
	Value  *string `yaml:"value"`
	Plugin string  `yaml:"plugin"`
}

type opSpec struct {
	NextStage *string         `yaml:"next_stage"`
	Finish    bool            `yaml:"finish"`
	Error     string          `yaml:"error"`
	Print     []printItemSpec `yaml:"print"`
	PrintBody bool            `yaml:"print_body"`
	// PrintHeaders/PrintCookies print the named ones, or all when the
	// list is empty.
	PrintHeaders *[]string `yaml:"print_headers"`
	PrintCookies *[]string `yaml:"print_cookies"`
	Save         *saveSpec `yaml:"save"`
	Http         *httpSpec `yaml:"http"`
	Grep         *grepSpec `yaml:"grep"`
}

type printItemSpec struct {
	Text   string `yaml:"text"`
	Plugin string `yaml:"plugin"`
}

type saveSpec struct {
	Path   string `yaml:"path"`
	Plugin string `yaml:"plugin"`
	Body   bool   `yaml:"body"`
	Append bool   `yaml:"append"`
}

type httpSpec struct {
	Status    int      `yaml:"status"`
	Action    []opSpec `yaml:"action"`
	Otherwise []opSpec `yaml:"otherwise"`
}

type grepSpec struct {
	Pattern   string   `yaml:"pattern"`
	Action    []opSpec `yaml:"action"`
	Otherwise []opSpec `yaml:"otherwise"`
}

func buildFlow(spec flowSpec, registry map[string]*plugins.Plugin) (*flow.Flow, error) {
	if spec.Name == "" {
		return nil, errx.With(ErrBadFlow, ": flow without a name")
	}

	req := &flow.Request{
		Method:      spec.Request.Method,
		URL:         spec.Request.URL,
		Path:        spec.Request.Path,
		JSON:        spec.Request.JSON,
		ContentType: spec.Request.ContentType,
	}
	if req.Method == "" {
		return nil, errx.With(ErrBadFlow, ": flow %q request has no method", spec.Name)
	}
	if spec.Request.Body != "" {
		req.Body = []byte(spec.Request.Body)
	}

	for _, name := range spec.Request.Headers {
		p, ok := registry[name]
		if !ok {
			return nil, errx.With(ErrUnknownPlugin, ": header %q in flow %q", name, spec.Name)
		}
		req.Headers = append(req.Headers, p)
	}
	for _, name := range spec.Request.Cookies {
		p, ok := registry[name]
		if !ok {
			return nil, errx.With(ErrUnknownPlugin, ": cookie %q in flow %q", name, spec.Name)
		}
		req.Cookies = append(req.Cookies, p)
	}
	for _, d := range spec.Request.Data {
		entry, err := buildDataEntry(d, spec.Name, registry)
		if err != nil {
			return nil, err
		}
		req.Data = append(req.Data, entry)
	}

	var outputs []*plugins.Plugin
	for _, name := range spec.Outputs {
		p, ok := registry[name]
		if !ok {
			return nil, errx.With(ErrUnknownPlugin, ": output %q in flow %q", name, spec.Name)
		}
		if !p.CanExtract() {
			return nil, errx.With(ErrBadFlow, ": output %q in flow %q is not response-extractable", name, spec.Name)
		}
		outputs = append(outputs, p)
	}

	ops, err := buildOperations(spec.Operations, spec.Name, registry)
	if err != nil {
		return nil, err
	}

	return flow.New(spec.Name, req,
		flow.WithOutputs(outputs...),
		flow.WithOperations(ops...),
	), nil
}

func buildDataEntry(spec dataSpec, flowName string, registry map[string]*plugins.Plugin) (flow.DataEntry, error) {
	var entry flow.DataEntry

	switch {
	case spec.KeyPlugin != "":
		p, ok := registry[spec.KeyPlugin]
		if !ok {
			return entry, errx.With(ErrUnknownPlugin, ": body key %q in flow %q", spec.KeyPlugin, flowName)
		}
		entry.Key = flow.FromPlugin(p)
	case spec.Name != "":
		entry.Key = flow.Literal(spec.Name)
	default:
		return entry, errx.With(ErrBadFlow, ": body entry in flow %q has no key", flowName)
	}

	switch {
	case spec.Plugin != "":
		p, ok := registry[spec.Plugin]
		if !ok {
			return entry, errx.With(ErrUnknownPlugin, ": body value %q in flow %q", spec.Plugin, flowName)
		}
		entry.Value = flow.FromPlugin(p)
	case spec.Value != nil:
		entry.Value = flow.Literal(*spec.Value)
	default:
		return entry, errx.With(ErrBadFlow, ": body entry %q in flow %q has no value", spec.Name, flowName)
	}
	return entry, nil
}

func buildOperations(specs []opSpec, flowName string, registry map[string]*plugins.Plugin) ([]operations.Operation, error) {
	var ops []operations.Operation
	for _, spec := range specs {
		op, err := buildOperation(spec, flowName, registry)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func buildOperation(spec opSpec, flowName string, registry map[string]*plugins.Plugin) (operations.Operation, error) {
	variants := 0
	for _, set := range []bool{
		spec.NextStage != nil,
		spec.Finish,
		spec.Error != "",
		len(spec.Print) > 0,
		spec.PrintBody,
		spec.PrintHeaders != nil,
		spec.PrintCookies != nil,
		spec.Save != nil,
		spec.Http != nil,
		spec.Grep != nil,
	} {
		if set {
			variants++
		}
	}
	if variants != 1 {
		return nil, errx.With(ErrBadOperation, ": operation in flow %q must set exactly one variant", flowName)
	}

	switch {
	case spec.NextStage != nil:
		return operations.NewNextStage(*spec.NextStage), nil

	case spec.Finish:
		return operations.Finish(), nil

	case spec.Error != "":
		return operations.NewError(spec.Error), nil

	case len(spec.Print) > 0:
		items := make([]operations.PrintItem, 0, len(spec.Print))
		for _, item := range spec.Print {
			if item.Plugin != "" {
				p, ok := registry[item.Plugin]
				if !ok {
					return nil, errx.With(ErrUnknownPlugin, ": print %q in flow %q", item.Plugin, flowName)
				}
				items = append(items, operations.Value(p))
				continue
			}
			items = append(items, operations.Text(item.Text))
		}
		return operations.NewPrint(items...), nil

	case spec.PrintBody:
		return operations.NewPrintBody(), nil

	case spec.PrintHeaders != nil:
		return operations.NewPrintHeaders(*spec.PrintHeaders...), nil

	case spec.PrintCookies != nil:
		return operations.NewPrintCookies(*spec.PrintCookies...), nil

	case spec.Save != nil:
		if spec.Save.Path == "" {
			return nil, errx.With(ErrBadOperation, ": save in flow %q needs a path", flowName)
		}
		if spec.Save.Body {
			return operations.NewSaveBody(spec.Save.Path, spec.Save.Append), nil
		}
		p, ok := registry[spec.Save.Plugin]
		if !ok {
			return nil, errx.With(ErrUnknownPlugin, ": save %q in flow %q", spec.Save.Plugin, flowName)
		}
		if spec.Save.Append {
			return operations.NewSaveAppend(spec.Save.Path, p), nil
		}
		return operations.NewSave(spec.Save.Path, p), nil

	case spec.Http != nil:
		action, err := buildOperations(spec.Http.Action, flowName, registry)
		if err != nil {
			return nil, err
		}
		otherwise, err := buildOperations(spec.Http.Otherwise, flowName, registry)
		if err != nil {
			return nil, err
		}
		return operations.NewHttp(spec.Http.Status, action, otherwise), nil

	case spec.Grep != nil:
		action, err := buildOperations(spec.Grep.Action, flowName, registry)
		if err != nil {
			return nil, err
		}
		otherwise, err := buildOperations(spec.Grep.Otherwise, flowName, registry)
		if err != nil {
			return nil, err
		}
		g, err := operations.NewGrep(spec.Grep.Pattern, action, otherwise)
		if err != nil {
			return nil, errx.With(ErrBadOperation, ": grep in flow %q: %w", flowName, err)
		}
		return g, nil
	}
	return nil, errx.With(ErrBadOperation, ": empty operation in flow %q", flowName)
}
