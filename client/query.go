package client

import (
	"context"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/dialect/sql"
)

// Query is one filter chain on a table. It is owned by a single caller and
// consumed by its first terminal call (Select or Delete).
type Query[T any] struct {
	table  *Table[T]
	filter *sql.Filter
	done   bool
}

// EQ adds the condition "name = v". See sql.Filter.EQ.
func (q *Query[T]) EQ(name string, v any) *Query[T] {
	q.filter.EQ(name, v)
	return q
}

// Where adds the given predicates.
func (q *Query[T]) Where(ps ...sql.Predicate) *Query[T] {
	q.filter.Where(ps...)
	return q
}

// Select executes the filtered select and returns the matching records.
func (q *Query[T]) Select(ctx context.Context) ([]*T, error) {
	if err := q.consume(); err != nil {
		return nil, err
	}
	query, params, err := q.filter.SelectQuery()
	if err != nil {
		return nil, err
	}
	return q.table.query(ctx, query, params)
}

// Delete executes the filtered delete and returns the deleted rows reported
// by the database.
func (q *Query[T]) Delete(ctx context.Context) ([]*T, error) {
	if err := q.consume(); err != nil {
		return nil, err
	}
	query, params, err := q.filter.DeleteQuery()
	if err != nil {
		return nil, err
	}
	return q.table.query(ctx, query, params)
}

func (q *Query[T]) consume() error {
	if q.done {
		return sqlderive.NewBuilderContractError(q.table.schema.Table(), "", "query already executed")
	}
	q.done = true
	return nil
}
