// Package transform holds the column transformation plugins: display
// transformations rewrite a stored value for presentation, input
// transformations also render the edit widget and convert submitted text
// back to the stored form. Plugins are stateless.
package transform

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// ErrUnknownKind is returned by Lookup and ParseKind for unknown plugins.
var ErrUnknownKind = errors.New("unknown transformation")

// Plugin transforms a single cell value.
type Plugin interface {
	Name() string
	Info() string
	MIMEType() string
	MIMESubtype() string

	// Apply transforms buffer. meta may be nil.
	Apply(buffer string, options []string, meta *types.ColumnMeta) string
}

// InputPlugin is a Plugin that also renders the edit widget of a cell.
type InputPlugin interface {
	Plugin
	InputHTML(f InputField) string
}

// InputField is the context of one edit widget.
type InputField struct {
	NameAppendix     string // appended to the form field names
	Options          []string
	Value            string // stored value
	TextDir          string // "ltr" or "rtl"
	TabIndex         int
	TabIndexForValue int
	IDIndex          int
}

// Kind identifies a plugin.
type Kind string

const (
	KindTextFileUpload Kind = "text_plain_fileupload"
	KindIPToBinary     Kind = "text_plain_iptobinary"
	KindBinaryToIP     Kind = "text_plain_binarytoip"
)

var kinds = []Kind{KindTextFileUpload, KindIPToBinary, KindBinaryToIP}

// Kinds returns every plugin kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind parses a plugin kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Lookup returns the plugin for k.
func Lookup(k Kind) (Plugin, error) {
	switch k {
	case KindTextFileUpload:
		return TextFileUpload{}, nil
	case KindIPToBinary:
		return IPToBinary{}, nil
	case KindBinaryToIP:
		return BinaryToIP{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// emptyValue reports whether a stored value counts as absent. A lone "0"
// is treated as absent, like an empty string.
func emptyValue(v string) bool {
	return v == "" || v == "0"
}
