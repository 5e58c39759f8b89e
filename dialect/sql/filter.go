package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema"
)

// Filter accumulates equality conditions on the fields of one record type and
// renders them as a conditional SELECT or DELETE statement.
//
// Conditions are kept in insertion order. The n-th condition uses placeholder
// $n and its value is Params()[n-1], so the two lists always have the same
// length. Conditions are joined with AND.
//
//	f := sql.NewFilter(userSchema).EQ("id", int32(5)).EQ("name", "bob")
//	query, params, err := f.SelectQuery()
//	// SELECT * FROM User WHERE id = $1 AND name = $2
//	// [Int32(5) Text("bob")]
//
// The first invalid condition (unknown field or mismatched value type) is
// recorded and every later call is a no-op; the error is reported by Err and
// by the terminal methods. A Filter is not safe for concurrent use.
type Filter struct {
	schema     *schema.Schema
	cfg        config
	conditions []string
	params     []Value
	err        error
}

// NewFilter returns an empty filter on the table of s.
func NewFilter(s *schema.Schema, opts ...Option) *Filter {
	return &Filter{schema: s, cfg: newConfig(opts)}
}

// Schema returns the schema the filter was created for.
func (f *Filter) Schema() *schema.Schema { return f.schema }

// EQ appends the condition "name = $n". v must have the Go type of the field
// (or be a Value with the field's type tag).
func (f *Filter) EQ(name string, v any) *Filter {
	if f.err != nil {
		return f
	}
	fd, ok := f.schema.Field(name)
	if !ok {
		f.err = sqlderive.NewBuilderContractError(f.schema.Table(), name, "unknown field")
		return f
	}
	bv, err := ValueOf(fd.Type, v)
	if err != nil {
		f.err = f.contract(name, err)
		return f
	}
	f.add(name, bv)
	return f
}

// Where appends the given predicates in order.
func (f *Filter) Where(ps ...Predicate) *Filter {
	for _, p := range ps {
		f.EQ(p.Field, p.Value)
	}
	return f
}

func (f *Filter) add(name string, v Value) {
	f.params = append(f.params, v)
	f.conditions = append(f.conditions, fmt.Sprintf("%s = %s", name, f.cfg.placeholder(len(f.params))))
}

// contract attaches the table and field to a BuilderContractError raised
// without them.
func (f *Filter) contract(name string, err error) error {
	var be *sqlderive.BuilderContractError
	if errors.As(err, &be) {
		be.Table, be.Field = f.schema.Table(), name
		return be
	}
	return sqlderive.NewBuilderContractError(f.schema.Table(), name, err.Error())
}

// Conditions returns a copy of the rendered conditions.
func (f *Filter) Conditions() []string {
	return append([]string(nil), f.conditions...)
}

// Params returns a copy of the bound values, in placeholder order.
func (f *Filter) Params() []Value {
	return append([]Value(nil), f.params...)
}

// Len returns the number of conditions.
func (f *Filter) Len() int { return len(f.conditions) }

// Err returns the first error recorded while building the filter.
func (f *Filter) Err() error { return f.err }

// SelectQuery renders "SELECT * FROM <table> WHERE c1 AND c2 ..." and returns
// it with the bound values. A filter without conditions is rejected with an
// error wrapping sqlderive.ErrNoConditions; use SelectAll for the
// unconditional statement.
func (f *Filter) SelectQuery() (string, []Value, error) {
	where, err := f.where()
	if err != nil {
		return "", nil, err
	}
	return "SELECT * FROM " + f.schema.Table() + where, f.Params(), nil
}

// DeleteQuery renders "DELETE FROM <table> WHERE c1 AND c2 ...". It follows
// the rules of SelectQuery.
func (f *Filter) DeleteQuery() (string, []Value, error) {
	where, err := f.where()
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM " + f.schema.Table() + where + f.cfg.deleteSuffix(), f.Params(), nil
}

func (f *Filter) where() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if len(f.conditions) == 0 {
		return "", &sqlderive.BuilderContractError{
			Table:   f.schema.Table(),
			Message: "filter has no conditions",
			Err:     sqlderive.ErrNoConditions,
		}
	}
	return " WHERE " + strings.Join(f.conditions, " AND "), nil
}
