package transform

import (
	"html"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// TextFileUpload replaces the textarea of TEXT columns with a file upload
// input. The value itself is passed through unchanged.
type TextFileUpload struct{}

// Name returns the display name.
func (TextFileUpload) Name() string { return "Text file upload" }

func (TextFileUpload) Info() string {
	return "File upload functionality for TEXT columns. It does not have a textarea for input."
}

func (TextFileUpload) MIMEType() string    { return "Text" }
func (TextFileUpload) MIMESubtype() string { return "Plain" }

// Apply returns buffer unchanged.
func (TextFileUpload) Apply(buffer string, _ []string, _ *types.ColumnMeta) string {
	return buffer
}

// InputHTML carries an existing value in hidden fields next to the file
// input so it survives a submit without upload.
func (TextFileUpload) InputHTML(f InputField) string {
	out := ""
	if !emptyValue(f.Value) {
		v := html.EscapeString(f.Value)
		out = `<input type="hidden" name="fields_prev` + f.NameAppendix + `" value="` + v + `">`
		out += `<input type="hidden" name="fields` + f.NameAppendix + `" value="` + v + `">`
	}
	return out + `<input type="file" name="fields_upload` + f.NameAppendix + `">`
}
