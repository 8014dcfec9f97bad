package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"int64", int64(42), true},
		{"float64", 1.5, true},
		{"integer string", "42", true},
		{"signed", "-7", true},
		{"decimal", "3.14", true},
		{"leading dot", ".5", true},
		{"trailing dot", "5.", true},
		{"exponent", "1e10", true},
		{"signed exponent", "2.5E-3", true},
		{"surrounding whitespace", " 12 ", true},
		{"bytes", []byte("12"), true},
		{"empty", "", false},
		{"only whitespace", "   ", false},
		{"hex", "0x1A", false},
		{"letters", "12abc", false},
		{"lone dot", ".", false},
		{"nil", nil, false},
		{"bool", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumeric(tt.in))
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   string
		notNil bool
	}{
		{"nil", nil, "", false},
		{"string", "abc", "abc", true},
		{"bytes", []byte{'h', 'i'}, "hi", true},
		{"int64", int64(-3), "-3", true},
		{"float64", 2.25, "2.25", true},
		{"large float64", 1e300, "1e+300", true},
		{"tiny float64", -2.5e-9, "-2.5e-09", true},
		{"float64 below exponent range", 123456789.0, "123456789", true},
		{"zero float64", 0.0, "0", true},
		{"true", true, "1", true},
		{"false", false, "0", true},
		{"time", time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), "2024-05-06 07:08:09", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CellString(tt.in)
			assert.Equal(t, tt.notNil, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowHas(t *testing.T) {
	r := Row{int64(1), nil}
	assert.True(t, r.Has(0))
	assert.True(t, r.Has(1), "a NULL cell is present")
	assert.False(t, r.Has(2), "sparse rows lack trailing cells")
	assert.False(t, r.Has(-1))
}
