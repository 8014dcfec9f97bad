package export

import "fmt"

// Format selects an export plugin.
type Format string

const (
	YAML    Format = "yaml"
	Codegen Format = "codegen"
)

var formats = []Format{YAML, Codegen}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Deps are the collaborators a plugin is built with.
type Deps struct {
	Out     *Output
	DB      Querier
	Codegen CodegenOptions
}

// New builds the plugin for f.
func New(f Format, deps Deps) (Plugin, error) {
	switch f {
	case YAML:
		return NewYAML(deps.Out, deps.DB), nil
	case Codegen:
		return NewCodegen(deps.Out, deps.DB, deps.Codegen)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
