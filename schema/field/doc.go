// Package field defines the semantic field types of a record schema and
// their mapping to SQL column types.
//
// The set of types is closed:
//
//	field.Int32("id")        // INTEGER
//	field.Int64("views")     // BIGINT
//	field.Float32("ratio")   // REAL
//	field.Float64("price")   // DOUBLE PRECISION
//	field.Text("name")       // TEXT
//
// Schema front-ends that only know a type tag use New, which resolves the tag
// through ParseType:
//
//	field.New("age", "i32")
//	field.New("name", "string")
//
// Any other type is rejected with a sqlderive.SchemaError, either by ParseType,
// by TypeOf (for Go struct fields) or by SQLType.
package field
