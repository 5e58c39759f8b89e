// Package schema describes record types for SQL generation.
//
// A Schema is the immutable pair of a table name and an ordered list of typed
// fields. Field order is significant: it fixes the column order of the
// CREATE TABLE statement and the placeholder order of the INSERT statement.
//
// # Registration
//
// Schemas are registered once, at program or package initialization, and
// looked up afterwards:
//
//	reg := schema.NewRegistry()
//	_, err := reg.Register("User", "User",
//	    field.Int32("id"),
//	    field.Text("name"),
//	)
//
//	s, err := reg.Lookup("User")
//
// Go record types can be used as the registry key directly:
//
//	type User struct {
//	    ID   int32
//	    Name string
//	}
//
//	schema.RegisterType[User](reg, "", field.Int32("id"), field.Text("name"))
//	s, err := schema.LookupType[User](reg)
//
// Registration fails with a sqlderive.SchemaError on the first field whose type
// cannot be mapped, and nothing is stored.
package schema
