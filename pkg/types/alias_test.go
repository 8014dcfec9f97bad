package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasesLookup(t *testing.T) {
	a := Aliases{}
	a.SetDatabase("mydb", "prod")
	a.SetTable("mydb", "users", "people")
	a.SetColumn("mydb", "users", "name", "full_name")

	assert.Equal(t, "prod", a.Database("mydb"))
	assert.Equal(t, "people", a.Table("mydb", "users"))
	assert.Equal(t, "full_name", a.Column("mydb", "users", "name"))

	t.Run("falls back to the real name", func(t *testing.T) {
		assert.Equal(t, "other", a.Database("other"))
		assert.Equal(t, "posts", a.Table("mydb", "posts"))
		assert.Equal(t, "id", a.Column("mydb", "users", "id"))
		assert.Equal(t, "name", a.Column("other", "users", "name"))
	})

	t.Run("nil map is usable", func(t *testing.T) {
		var none Aliases
		assert.Equal(t, "db", none.Database("db"))
		assert.Equal(t, "t", none.Table("db", "t"))
		assert.Equal(t, "c", none.Column("db", "t", "c"))
	})

	t.Run("column alias without table alias", func(t *testing.T) {
		b := Aliases{}
		b.SetColumn("d", "t", "c", "x")
		assert.Equal(t, "t", b.Table("d", "t"))
		assert.Equal(t, "d", b.Database("d"))
		assert.Equal(t, "x", b.Column("d", "t", "c"))
	})
}
