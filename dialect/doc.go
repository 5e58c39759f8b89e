// Package dialect defines the executor contract used to run generated
// statements, and the names of the supported SQL dialects.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite3"
//	dialect.MySQL    = "mysql"
//
// Postgres and SQLite render positional placeholders as $1, $2, ...;
// MySQL renders them as ?.
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// The dialect/sql package provides the database/sql based implementation:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
package dialect
