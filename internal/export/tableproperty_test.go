package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

func TestDotNetTypes(t *testing.T) {
	tests := []struct {
		sqlType   string
		primitive string
		object    string
	}{
		{"int(11)", "int", "Int32"},
		{"integer", "int", "Int32"},
		{"longtext", "string", "String"},
		{"longblob", "long", "Long"},
		{"char(2)", "string", "String"},
		{"varchar(255)", "string", "String"},
		{"text", "string", "String"},
		{"tinyint(1)", "bool", "Boolean"},
		{"datetime", "DateTime", "DateTime"},
		{"decimal(10,2)", "unknown", "Unknown"},
		{"", "unknown", "Unknown"},
		{"INT", "unknown", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.sqlType, func(t *testing.T) {
			tp := TableProperty{Type: tt.sqlType}
			assert.Equal(t, tt.primitive, tp.DotNetPrimitiveType())
			assert.Equal(t, tt.object, tp.DotNetObjectType())
		})
	}
}

func TestTablePropertyFlags(t *testing.T) {
	tp := NewTableProperty(types.TableColumn{Name: " id ", Type: "int(11) ", Null: "NO", Key: "PRI"})
	assert.Equal(t, "id", tp.Name)
	assert.Equal(t, "int", tp.PureType())
	assert.Equal(t, "true", tp.IsNotNull())
	assert.Equal(t, "true", tp.IsUnique())
	assert.True(t, tp.IsPK())
	assert.Equal(t, `index="id"`, tp.IndexName())

	plain := NewTableProperty(types.TableColumn{Name: "bio", Type: "text", Null: "YES"})
	assert.Equal(t, "text", plain.PureType())
	assert.Equal(t, "false", plain.IsNotNull())
	assert.Equal(t, "false", plain.IsUnique())
	assert.False(t, plain.IsPK())
	assert.Empty(t, plain.IndexName())

	uni := TableProperty{Name: `a"b`, Key: "UNI"}
	assert.Equal(t, "true", uni.IsUnique())
	assert.Equal(t, `index="a&#34;b"`, uni.IndexName())
}

func TestMakeIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		ucfirst bool
		want    string
	}{
		{"users", true, "Users"},
		{"users", false, "users"},
		{"user-name", true, "Username"},
		{"2fa_codes", true, "Fa_codes"},
		{"99", true, "_"},
		{"_private", true, "__private"},
		{"", true, "_"},
		{"ñandú", true, "Ñandú"},
		{"a b.c", false, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeIdentifier(tt.in, tt.ucfirst))
		})
	}
}

func TestFormatPlaceholders(t *testing.T) {
	tp := TableProperty{Name: "user name", Type: "varchar(40)", Nullable: "NO", Key: "MUL"}
	assert.Equal(t, "username:Username:string:String:varchar:true:false",
		tp.FormatCS("#name#:#ucfirstName#:#dotNetPrimitiveType#:#dotNetObjectType#:#type#:#notNull#:#unique#"))
	assert.Equal(t, `user name index="user name"`, tp.FormatXML("#name# #indexName#"))
}
