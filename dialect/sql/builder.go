package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlderive/dialect"
	"github.com/syssam/sqlderive/schema"
)

// Option configures statement rendering.
type Option func(*config)

type config struct {
	dialect   string
	returning bool
}

func newConfig(opts []Option) config {
	c := config{dialect: dialect.Postgres}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDialect sets the dialect used for placeholders. Postgres and SQLite
// use $1, $2, ...; MySQL uses ?. The default is Postgres.
func WithDialect(name string) Option {
	return func(c *config) {
		if name != "" {
			c.dialect = name
		}
	}
}

// Returning makes delete statements report the deleted rows by appending
// RETURNING * (Postgres and SQLite 3.35+).
func Returning() Option {
	return func(c *config) {
		c.returning = true
	}
}

// placeholder returns the marker of the i-th (1-based) parameter.
func (c config) placeholder(i int) string {
	if c.dialect == dialect.MySQL {
		return "?"
	}
	return "$" + strconv.Itoa(i)
}

func (c config) deleteSuffix() string {
	if c.returning {
		return " RETURNING *"
	}
	return ""
}

// CreateTable returns the DDL statement creating the table of s:
//
//	CREATE TABLE IF NOT EXISTS User ( id INTEGER, name TEXT )
//
// Columns follow the field order of the schema. DDL is never parameterized.
func CreateTable(s *schema.Schema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(s.Table())
	b.WriteString(" ( ")
	for i, f := range s.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(f.SQLType())
	}
	b.WriteString(" )")
	return b.String()
}

// Insert returns the parameterized insert statement of s and the field names
// in placeholder order: the i-th placeholder is bound to order[i-1].
//
//	INSERT INTO User (id, name) VALUES ($1, $2)
func Insert(s *schema.Schema, opts ...Option) (query string, order []string) {
	c := newConfig(opts)
	order = s.FieldNames()
	marks := make([]string, len(order))
	for i := range order {
		marks[i] = c.placeholder(i + 1)
	}
	query = "INSERT INTO " + s.Table() + " (" + strings.Join(order, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return query, order
}

// SelectAll returns the unconditional select statement of s.
//
//	SELECT * FROM User
func SelectAll(s *schema.Schema) string {
	return "SELECT * FROM " + s.Table()
}

// DeleteAll returns the unconditional delete statement of s.
//
//	DELETE FROM User
func DeleteAll(s *schema.Schema, opts ...Option) string {
	c := newConfig(opts)
	return "DELETE FROM " + s.Table() + c.deleteSuffix()
}
