package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyType(t *testing.T) {
	tests := []struct {
		declType string
		want     TypeClass
	}{
		{"INT", ClassNumeric},
		{"integer", ClassNumeric},
		{"BIGINT UNSIGNED", ClassNumeric},
		{"VARCHAR(255)", ClassString},
		{"text", ClassString},
		{"CLOB", ClassString},
		{"enum('a','b')", ClassString},
		{"BLOB", ClassBlob},
		{"varbinary(16)", ClassBlob},
		{"REAL", ClassNumeric},
		{"DOUBLE PRECISION", ClassNumeric},
		{"DECIMAL(10,2)", ClassNumeric},
		{"DATETIME", ClassDateTime},
		{"timestamp", ClassDateTime},
		{"", ClassUnknown},
		{"  ", ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.declType, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyType(tt.declType))
		})
	}
}

func TestKeyKindRoundTrip(t *testing.T) {
	for _, k := range []KeyKind{KeyNone, KeyPrimary, KeyUnique, KeyMultiple} {
		assert.Equal(t, k, ParseKeyKind(k.Code()))
	}
	assert.Equal(t, KeyNone, ParseKeyKind("bogus"))
	assert.Equal(t, KeyPrimary, ParseKeyKind(" pri "))
}

func TestTableColumnMeta(t *testing.T) {
	c := TableColumn{Name: "id", Type: "INTEGER", Null: "NO", Key: "PRI"}
	m := c.Meta()
	assert.Equal(t, "id", m.Name)
	assert.False(t, m.Nullable)
	assert.Equal(t, KeyPrimary, m.Key)
	assert.Equal(t, ClassNumeric, m.Class)
	assert.False(t, m.IsString())

	name := TableColumn{Name: "name", Type: "VARCHAR(40)", Null: "YES"}.Meta()
	assert.True(t, name.Nullable)
	assert.True(t, name.IsString())
}
