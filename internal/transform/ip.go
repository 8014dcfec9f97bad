package transform

import (
	"encoding/hex"
	"html"
	"net/netip"
	"strconv"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// IPToBinary lets users edit a binary address column as text.
type IPToBinary struct{}

// Name returns the display name.
func (IPToBinary) Name() string { return "IPv4/IPv6 To Binary" }

func (IPToBinary) Info() string {
	return "Converts an Internet network address in (IPv4/IPv6) format to binary"
}

func (IPToBinary) MIMEType() string    { return "Text" }
func (IPToBinary) MIMESubtype() string { return "Plain" }

// Apply converts a textual address to a hex literal of its packed form.
// Text that is not an address is returned unchanged.
func (IPToBinary) Apply(buffer string, _ []string, _ *types.ColumnMeta) string {
	packed, ok := packAddr(buffer)
	if !ok {
		return buffer
	}
	return "0x" + hex.EncodeToString(packed)
}

// InputHTML renders a text input holding the textual form of the stored
// address.
func (IPToBinary) InputHTML(f InputField) string {
	out, val := "", ""
	if !emptyValue(f.Value) {
		val, _ = unpackAddr([]byte(f.Value))
		out = `<input type="hidden" name="fields_prev` + f.NameAppendix + `" value="` + html.EscapeString(val) + `">`
	}
	return out + `<input type="text" name="fields` + f.NameAppendix + `"` +
		` value="` + html.EscapeString(val) + `"` +
		` size="40"` +
		` dir="` + f.TextDir + `"` +
		` class="transform_IPToBin"` +
		` id="field_` + strconv.Itoa(f.IDIndex) + `_3"` +
		` tabindex="` + strconv.Itoa(f.TabIndex+f.TabIndexForValue) + `">`
}

// BinaryToIP displays a packed 4 or 16 byte address in its textual form.
type BinaryToIP struct{}

// Name returns the display name.
func (BinaryToIP) Name() string { return "Binary To IPv4/IPv6" }

func (BinaryToIP) Info() string {
	return "Converts an Internet network address stored as a binary string into a string in Internet standard (IPv4/IPv6) format."
}

func (BinaryToIP) MIMEType() string    { return "Text" }
func (BinaryToIP) MIMESubtype() string { return "Plain" }

// Apply returns the textual address, or "" when buffer is not 4 or 16
// bytes long.
func (BinaryToIP) Apply(buffer string, _ []string, _ *types.ColumnMeta) string {
	s, _ := unpackAddr([]byte(buffer))
	return s
}

// packAddr parses an IPv4 or IPv6 address without zone into its network
// byte form.
func packAddr(s string) ([]byte, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil || addr.Zone() != "" {
		return nil, false
	}
	return addr.AsSlice(), true
}

// unpackAddr formats a 4 or 16 byte address.
func unpackAddr(b []byte) (string, bool) {
	addr, ok := netip.AddrFromSlice(b)
	if !ok {
		return "", false
	}
	return addr.String(), true
}
