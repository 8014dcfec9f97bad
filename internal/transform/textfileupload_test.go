package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFileUploadApplyPassesThrough(t *testing.T) {
	for _, s := range []string{"", "plain", "<b>bold</b>", "line1\nline2"} {
		assert.Equal(t, s, TextFileUpload{}.Apply(s, []string{"x"}, nil))
	}
}

func TestTextFileUploadInputHTML(t *testing.T) {
	tests := []struct {
		name string
		f    InputField
		want string
	}{
		{
			name: "no value",
			f:    InputField{NameAppendix: "[bio]"},
			want: `<input type="file" name="fields_upload[bio]">`,
		},
		{
			name: "zero counts as empty",
			f:    InputField{NameAppendix: "[bio]", Value: "0"},
			want: `<input type="file" name="fields_upload[bio]">`,
		},
		{
			name: "existing value is escaped",
			f:    InputField{NameAppendix: "[bio]", Value: `a "b" <c>`},
			want: `<input type="hidden" name="fields_prev[bio]" value="a &#34;b&#34; &lt;c&gt;">` +
				`<input type="hidden" name="fields[bio]" value="a &#34;b&#34; &lt;c&gt;">` +
				`<input type="file" name="fields_upload[bio]">`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextFileUpload{}.InputHTML(tt.f))
		})
	}
}
