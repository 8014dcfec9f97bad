package transform

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryToIP(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ipv4", []byte{192, 168, 0, 10}, "192.168.0.10"},
		{"ipv4 zeros", []byte{0, 0, 0, 0}, "0.0.0.0"},
		{"ipv6", []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, "2001:db8::1"},
		{"ipv4 mapped", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 10, 0, 0, 1}, "::ffff:10.0.0.1"},
		{"empty", nil, ""},
		{"three bytes", []byte{1, 2, 3}, ""},
		{"five bytes", []byte{1, 2, 3, 4, 5}, ""},
		{"text address", []byte("10.0.0.1"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BinaryToIP{}.Apply(string(tt.in), nil, nil))
		})
	}
}

func TestBinaryToIPProducesValidAddresses(t *testing.T) {
	for _, n := range []int{4, 16} {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i*37 + 1)
		}
		s := BinaryToIP{}.Apply(string(b), nil, nil)
		addr, err := netip.ParseAddr(s)
		require.NoError(t, err, s)
		assert.Equal(t, n == 4, addr.Is4())
		assert.Equal(t, b, addr.AsSlice())
	}
}

func TestIPToBinaryApply(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.0.10", "0xc0a8000a"},
		{"::1", "0x00000000000000000000000000000001"},
		{"2001:db8::1", "0x20010db8000000000000000000000001"},
		{"::ffff:10.0.0.1", "0x00000000000000000000ffff0a000001"},
		{"fe80::1%eth0", "fe80::1%eth0"},
		{"not an address", "not an address"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IPToBinary{}.Apply(tt.in, nil, nil))
		})
	}
}

func TestIPToBinaryInputHTML(t *testing.T) {
	f := InputField{
		NameAppendix:     "[multi_edit][0][ip]",
		Value:            string([]byte{10, 0, 0, 1}),
		TextDir:          "ltr",
		TabIndex:         100,
		TabIndexForValue: 3,
		IDIndex:          7,
	}
	want := `<input type="hidden" name="fields_prev[multi_edit][0][ip]" value="10.0.0.1">` +
		`<input type="text" name="fields[multi_edit][0][ip]" value="10.0.0.1" size="40" dir="ltr"` +
		` class="transform_IPToBin" id="field_7_3" tabindex="103">`
	assert.Equal(t, want, IPToBinary{}.InputHTML(f))
}

func TestIPToBinaryInputHTMLUndecodable(t *testing.T) {
	f := InputField{NameAppendix: "[ip]", Value: "abc", TextDir: "rtl", IDIndex: 1}
	want := `<input type="hidden" name="fields_prev[ip]" value="">` +
		`<input type="text" name="fields[ip]" value="" size="40" dir="rtl"` +
		` class="transform_IPToBin" id="field_1_3" tabindex="0">`
	assert.Equal(t, want, IPToBinary{}.InputHTML(f))

	f.Value = ""
	assert.NotContains(t, IPToBinary{}.InputHTML(f), "fields_prev")
}
