// Package sqlderive generates SQL statements from record schemas and runs
// them through a small executor adapter.
//
// A record schema is an ordered list of named fields, each of one of five
// types (Int32, Int64, Float32, Float64, Text). From a schema, the packages
// of this module derive:
//
//	CREATE TABLE IF NOT EXISTS User ( id INTEGER, name TEXT )
//	INSERT INTO User (id, name) VALUES ($1, $2)
//	SELECT * FROM User WHERE id = $1 AND name = $2
//	DELETE FROM User WHERE id = $1
//
// Package schema/field maps field types to SQL types, package schema holds
// schemas and the registry, package dialect/sql builds and binds statements
// and package client executes them for Go record types.
//
// This package holds the error taxonomy shared by all of them.
package sqlderive
