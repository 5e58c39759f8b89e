package client

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/dialect"
	"github.com/syssam/sqlderive/dialect/sql"
	"github.com/syssam/sqlderive/schema"
)

// Option function to configure a table client.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	debug     bool
	returning bool
}

// WithLogger sets the logger used in debug mode. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Debug enables debug logging of every executed statement.
func Debug() Option {
	return func(c *config) {
		c.debug = true
	}
}

// WithReturning makes deletes report the deleted rows by rendering them with
// RETURNING *. Supported by Postgres and SQLite 3.35+; without it, deletes
// return the rows the database reports for the plain statement, usually none.
func WithReturning() Option {
	return func(c *config) {
		c.returning = true
	}
}

// Table executes the statements of one record schema and decodes its rows
// into values of T. A Table is safe for concurrent use.
type Table[T any] struct {
	driver dialect.Driver
	schema *schema.Schema
	mapper *mapper
	opts   []sql.Option
}

// New returns a table client for the record type T described by s. Every
// field of s must map to an exported field of T with a matching Go type;
// otherwise a SchemaError is returned.
//
//	type User struct {
//	    ID   int32  `sql:"id"`
//	    Name string `sql:"name"`
//	}
//
//	users, err := client.New[User](drv, userSchema)
func New[T any](drv dialect.Driver, s *schema.Schema, opts ...Option) (*Table[T], error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	m, err := newMapper(reflect.TypeFor[T](), s)
	if err != nil {
		return nil, err
	}
	if cfg.debug {
		drv = sql.NewDebugDriver(drv, sql.DebugWithLogger(cfg.logger))
	}
	t := &Table[T]{
		driver: drv,
		schema: s,
		mapper: m,
		opts:   []sql.Option{sql.WithDialect(drv.Dialect())},
	}
	if cfg.returning {
		t.opts = append(t.opts, sql.Returning())
	}
	return t, nil
}

// Schema returns the record schema of the table.
func (t *Table[T]) Schema() *schema.Schema { return t.schema }

// Driver returns the driver statements are executed with.
func (t *Table[T]) Driver() dialect.Driver { return t.driver }

// CreateTable creates the table if it does not exist.
func (t *Table[T]) CreateTable(ctx context.Context) error {
	return t.exec(ctx, sql.CreateTable(t.schema), nil)
}

// Insert inserts the records one statement at a time, in order. It stops at
// the first failure; records before it stay inserted.
func (t *Table[T]) Insert(ctx context.Context, recs ...*T) error {
	query, _ := sql.Insert(t.schema, t.opts...)
	for _, rec := range recs {
		if rec == nil {
			return sqlderive.NewBuilderContractError(t.schema.Table(), "", "nil record")
		}
		vs, err := t.mapper.values(t.schema, reflect.ValueOf(rec).Elem())
		if err != nil {
			return err
		}
		if err := t.exec(ctx, query, vs); err != nil {
			return err
		}
	}
	return nil
}

// SelectAll returns all records of the table.
func (t *Table[T]) SelectAll(ctx context.Context) ([]*T, error) {
	return t.query(ctx, sql.SelectAll(t.schema), nil)
}

// DeleteAll deletes all records of the table and returns the deleted rows
// reported by the database.
func (t *Table[T]) DeleteAll(ctx context.Context) ([]*T, error) {
	return t.query(ctx, sql.DeleteAll(t.schema, t.opts...), nil)
}

// Filter returns a new query on the table. Each call starts a new chain.
func (t *Table[T]) Filter() *Query[T] {
	return &Query[T]{table: t, filter: sql.NewFilter(t.schema, t.opts...)}
}

func (t *Table[T]) exec(ctx context.Context, query string, vs []sql.Value) error {
	args, err := sql.Bind(vs)
	if err != nil {
		return err
	}
	return sqlderive.NewStatementError(query, t.driver.Exec(ctx, query, args, nil))
}

func (t *Table[T]) query(ctx context.Context, query string, vs []sql.Value) ([]*T, error) {
	args, err := sql.Bind(vs)
	if err != nil {
		return nil, err
	}
	rows := &sql.Rows{}
	if err := t.driver.Query(ctx, query, args, rows); err != nil {
		return nil, sqlderive.NewStatementError(query, err)
	}
	defer rows.Close()
	recs, err := t.mapper.scan(t.schema, rows)
	if err != nil {
		return nil, sqlderive.NewStatementError(query, err)
	}
	out := make([]*T, len(recs))
	for i, rec := range recs {
		out[i] = rec.Interface().(*T)
	}
	return out, nil
}
