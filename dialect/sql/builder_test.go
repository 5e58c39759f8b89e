package sql

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlderive/dialect"
	"github.com/syssam/sqlderive/schema"
	"github.com/syssam/sqlderive/schema/field"
)

var userSchema = schema.MustNew("User", "", field.Int32("id"), field.Text("name"))

func TestCreateTable(t *testing.T) {
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS User ( id INTEGER, name TEXT )", CreateTable(userSchema))

	all := schema.MustNew("Measurement", "measurements",
		field.Int32("a"),
		field.Int64("b"),
		field.Float32("c"),
		field.Float64("d"),
		field.Text("e"),
	)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS measurements ( a INTEGER, b BIGINT, c REAL, d DOUBLE PRECISION, e TEXT )",
		CreateTable(all),
	)

	single := schema.MustNew("Counter", "", field.Int64("n"))
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS Counter ( n BIGINT )", CreateTable(single))
}

func TestInsert(t *testing.T) {
	query, order := Insert(userSchema)
	assert.Equal(t, "INSERT INTO User (id, name) VALUES ($1, $2)", query)
	assert.Equal(t, []string{"id", "name"}, order)

	query, order = Insert(userSchema, WithDialect(dialect.MySQL))
	assert.Equal(t, "INSERT INTO User (id, name) VALUES (?, ?)", query)
	assert.Equal(t, []string{"id", "name"}, order)

	query, _ = Insert(userSchema, WithDialect(dialect.SQLite))
	assert.Equal(t, "INSERT INTO User (id, name) VALUES ($1, $2)", query)
}

// Placeholders are numbered 1..n without gaps, and order lists the fields in
// declaration order.
func TestInsert_PlaceholderSequence(t *testing.T) {
	for n := 1; n <= 12; n++ {
		fields := make([]*field.Descriptor, n)
		names := make([]string, n)
		marks := make([]string, n)
		for i := range fields {
			names[i] = fmt.Sprintf("f%d", i)
			marks[i] = fmt.Sprintf("$%d", i+1)
			fields[i] = field.Of(names[i], field.Types[i%len(field.Types)])
		}
		s, err := schema.New("Wide", "", fields...)
		require.NoError(t, err)

		query, order := Insert(s)
		assert.Equal(t, names, order)
		assert.Equal(t, "INSERT INTO Wide ("+strings.Join(names, ", ")+") VALUES ("+strings.Join(marks, ", ")+")", query)
	}
}

func TestSelectAll(t *testing.T) {
	assert.Equal(t, "SELECT * FROM User", SelectAll(userSchema))
}

func TestDeleteAll(t *testing.T) {
	assert.Equal(t, "DELETE FROM User", DeleteAll(userSchema))
	assert.Equal(t, "DELETE FROM User RETURNING *", DeleteAll(userSchema, Returning()))
}

func TestStatementsAreDeterministic(t *testing.T) {
	q1, o1 := Insert(userSchema)
	q2, o2 := Insert(userSchema)
	assert.Equal(t, q1, q2)
	assert.Equal(t, o1, o2)
	assert.Equal(t, CreateTable(userSchema), CreateTable(userSchema))
}
