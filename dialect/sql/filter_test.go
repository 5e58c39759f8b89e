package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/dialect"
	"github.com/syssam/sqlderive/schema"
	"github.com/syssam/sqlderive/schema/field"
)

func TestFilter_Select(t *testing.T) {
	f := NewFilter(userSchema).EQ("id", int32(5)).EQ("name", "bob")
	require.NoError(t, f.Err())

	query, params, err := f.SelectQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM User WHERE id = $1 AND name = $2", query)
	assert.Equal(t, []Value{Int32(5), Text("bob")}, params)
	assert.Equal(t, []string{"id = $1", "name = $2"}, f.Conditions())
	assert.Equal(t, 2, f.Len())
}

func TestFilter_Delete(t *testing.T) {
	query, params, err := NewFilter(userSchema).EQ("name", "bob").DeleteQuery()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM User WHERE name = $1", query)
	assert.Equal(t, []Value{Text("bob")}, params)

	query, _, err = NewFilter(userSchema, Returning()).EQ("name", "bob").DeleteQuery()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM User WHERE name = $1 RETURNING *", query)
}

func TestFilter_SameFieldTwice(t *testing.T) {
	query, params, err := NewFilter(userSchema).EQ("id", int32(1)).EQ("id", int32(2)).SelectQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM User WHERE id = $1 AND id = $2", query)
	assert.Equal(t, []Value{Int32(1), Int32(2)}, params)
}

func TestFilter_MySQL(t *testing.T) {
	query, _, err := NewFilter(userSchema, WithDialect(dialect.MySQL)).EQ("id", int32(5)).EQ("name", "bob").SelectQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM User WHERE id = ? AND name = ?", query)
}

func TestFilter_NoConditions(t *testing.T) {
	f := NewFilter(userSchema)
	for name, render := range map[string]func() (string, []Value, error){
		"select": f.SelectQuery,
		"delete": f.DeleteQuery,
	} {
		t.Run(name, func(t *testing.T) {
			query, params, err := render()
			require.Error(t, err)
			assert.Empty(t, query)
			assert.Nil(t, params)
			assert.True(t, errors.Is(err, sqlderive.ErrNoConditions))
			assert.True(t, errors.Is(err, sqlderive.ErrBuilderContract))
			assert.True(t, sqlderive.IsBuilderContractError(err))
		})
	}
}

func TestFilter_Typed(t *testing.T) {
	var (
		id   = Int32Field("id")
		name = TextField("name")
	)
	assert.Equal(t, "id", id.Name())
	query, params, err := NewFilter(userSchema).Where(id.EQ(5), name.EQ("bob")).SelectQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM User WHERE id = $1 AND name = $2", query)
	assert.Equal(t, []Value{Int32(5), Text("bob")}, params)
}

func TestFilter_AllTypes(t *testing.T) {
	s := schema.MustNew("Measurement", "",
		field.Int32("a"),
		field.Int64("b"),
		field.Float32("c"),
		field.Float64("d"),
		field.Text("e"),
	)
	f := NewFilter(s).Where(
		Int32Field("a").EQ(1),
		Int64Field("b").EQ(2),
		Float32Field("c").EQ(1.5),
		Float64Field("d").EQ(2.5),
		TextField("e").EQ("x"),
	)
	query, params, err := f.SelectQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Measurement WHERE a = $1 AND b = $2 AND c = $3 AND d = $4 AND e = $5", query)
	assert.Equal(t, []Value{Int32(1), Int64(2), Float32(1.5), Float64(2.5), Text("x")}, params)

	args, err := Bind(params)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int64(2), float32(1.5), float64(2.5), "x"}, args)
}

func TestFilter_ContractErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Filter) *Filter
		field string
		msg   string
	}{
		{
			name:  "unknown-field",
			build: func(f *Filter) *Filter { return f.EQ("email", "x") },
			field: "email",
			msg:   "unknown field",
		},
		{
			name:  "untyped-int",
			build: func(f *Filter) *Filter { return f.EQ("id", 5) },
			field: "id",
			msg:   "expected int32 value, got int",
		},
		{
			name:  "string-for-int",
			build: func(f *Filter) *Filter { return f.EQ("id", "5") },
			field: "id",
			msg:   "expected int32 value, got string",
		},
		{
			name:  "nil",
			build: func(f *Filter) *Filter { return f.EQ("name", nil) },
			field: "name",
			msg:   "got nil",
		},
		{
			name:  "typed-handle-mismatch",
			build: func(f *Filter) *Filter { return f.Where(Int64Field("id").EQ(5)) },
			field: "id",
			msg:   "expected Int32 value, got Int64",
		},
		{
			name: "first-error-wins",
			build: func(f *Filter) *Filter {
				return f.EQ("missing", int32(1)).EQ("id", "nope").EQ("name", "bob")
			},
			field: "missing",
			msg:   "unknown field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.build(NewFilter(userSchema))
			require.Error(t, f.Err())
			var be *sqlderive.BuilderContractError
			require.True(t, errors.As(f.Err(), &be))
			assert.Equal(t, "User", be.Table)
			assert.Equal(t, tt.field, be.Field)
			assert.Contains(t, be.Message, tt.msg)
			assert.Zero(t, f.Len(), "invalid conditions are not appended")

			_, _, err := f.SelectQuery()
			assert.Same(t, f.Err(), err)
			_, _, err = f.DeleteQuery()
			assert.Same(t, f.Err(), err)
		})
	}
}

func TestFilter_ConditionsMatchParams(t *testing.T) {
	s := schema.MustNew("Wide", "", field.Int64("n"), field.Text("s"))
	for n := 1; n <= 20; n++ {
		f := NewFilter(s)
		for i := range n {
			if i%2 == 0 {
				f.EQ("n", int64(i))
			} else {
				f.EQ("s", fmt.Sprint(i))
			}
		}
		conds, params := f.Conditions(), f.Params()
		require.Len(t, conds, n)
		require.Len(t, params, n)
		for i, c := range conds {
			assert.Contains(t, c, fmt.Sprintf("$%d", i+1))
		}
	}
}

func TestFilter_AccessorsReturnCopies(t *testing.T) {
	f := NewFilter(userSchema).EQ("id", int32(1))
	f.Conditions()[0] = "changed"
	f.Params()[0] = Text("changed")
	assert.Equal(t, []string{"id = $1"}, f.Conditions())
	assert.Equal(t, []Value{Int32(1)}, f.Params())
	assert.Same(t, userSchema, f.Schema())
}
