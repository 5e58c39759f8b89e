// Package sql renders and executes the SQL statements of registered record
// schemas.
//
// All statements are produced by string assembly from a schema.Schema; the
// table and field names were validated when the schema was built, and every
// value reaches the database through a placeholder, never inline.
//
// # Statements
//
//	s := schema.MustNew("User", "", field.Int32("id"), field.Text("name"))
//
//	sql.CreateTable(s) // CREATE TABLE IF NOT EXISTS User ( id INTEGER, name TEXT )
//	sql.Insert(s)      // INSERT INTO User (id, name) VALUES ($1, $2), [id name]
//	sql.SelectAll(s)   // SELECT * FROM User
//	sql.DeleteAll(s)   // DELETE FROM User
//
// # Filters
//
// A Filter collects equality conditions joined with AND, together with their
// bound values:
//
//	f := sql.NewFilter(s).EQ("id", int32(5)).EQ("name", "bob")
//	query, params, err := f.SelectQuery()
//	// SELECT * FROM User WHERE id = $1 AND name = $2
//	// [Int32(5) Text("bob")]
//
// Typed field handles give the same conditions with compile-time checked
// values:
//
//	var (
//	    ID   = sql.Int32Field("id")
//	    Name = sql.TextField("name")
//	)
//	sql.NewFilter(s).Where(ID.EQ(5), Name.EQ("bob")).DeleteQuery()
//
// Rendering a filter without conditions is an error. SelectAll and DeleteAll
// are the explicit unconditional forms.
//
// # Binding
//
// Bind turns bound values into driver arguments. Every field type is bound,
// and an unrecognized tag fails the whole statement with a
// sqlderive.BindingError instead of being skipped.
//
// # Drivers
//
// Driver adapts a database/sql.DB to dialect.Driver. StatsDriver and
// DebugDriver wrap any dialect.Driver with statement statistics and
// structured logging.
package sql
