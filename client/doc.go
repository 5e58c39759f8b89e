// Package client executes the generated statements of a record schema
// through a dialect.Driver and maps rows to Go structs.
//
//	drv, err := sql.Open("pgx", dsn)
//	if err != nil {
//	    return err
//	}
//	users, err := client.New[User](drv, userSchema)
//	if err != nil {
//	    return err
//	}
//	if err := users.CreateTable(ctx); err != nil {
//	    return err
//	}
//	err = users.Insert(ctx, &User{ID: 5, Name: "bob"})
//	bobs, err := users.Filter().EQ("id", int32(5)).EQ("name", "bob").Select(ctx)
//
// Database errors are returned as a *sqlderive.StatementError naming the
// statement; the driver error stays reachable with errors.Is and errors.As.
package client
