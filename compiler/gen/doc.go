// Package gen generates typed Go code from record schemas.
//
// For every record it writes one file holding:
//
//   - the record struct, tagged for the client mapper
//   - the schema variable, e.g. UserSchema
//   - typed field handles, e.g. UserName = sql.TextField("name")
//   - a client embedding client.Table, with a typed filter chain
//
// plus a schemas.go file listing every schema. For example:
//
//	users, err := models.NewUserClient(drv)
//	...
//	recs, err := users.Query().Name("bob").Select(ctx)
//
// Files are built with jennifer and formatted with goimports. A file that
// fails to format is written next to its target with an .error suffix.
package gen
