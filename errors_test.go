package sqlderive_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlderive"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlderive.NewSchemaError("User", "age", "unsupported field type", nil)
		assert.Equal(t, `sqlderive: schema error on record User field "age": unsupported field type`, err.Error())
	})

	t.Run("ErrorWithCause", func(t *testing.T) {
		cause := errors.New("boom")
		err := sqlderive.NewSchemaError("", "", "load", cause)
		assert.Equal(t, "sqlderive: schema error: load: boom", err.Error())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is", func(t *testing.T) {
		err := sqlderive.NewSchemaError("User", "", "not registered", nil)
		assert.True(t, errors.Is(err, sqlderive.ErrSchema))
		assert.False(t, errors.Is(err, sqlderive.ErrBuilderContract))
	})

	t.Run("IsSchemaError", func(t *testing.T) {
		err := sqlderive.NewSchemaError("User", "", "x", nil)
		assert.True(t, sqlderive.IsSchemaError(err))
		assert.True(t, sqlderive.IsSchemaError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, sqlderive.IsSchemaError(errors.New("other error")))
		assert.False(t, sqlderive.IsSchemaError(nil))
	})
}

func TestBuilderContractError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlderive.NewBuilderContractError("User", "id", "expected int32, got string")
		assert.Equal(t, `sqlderive: builder on User field "id": expected int32, got string`, err.Error())
	})

	t.Run("NoConditions", func(t *testing.T) {
		err := &sqlderive.BuilderContractError{Table: "User", Message: "no conditions", Err: sqlderive.ErrNoConditions}
		assert.True(t, errors.Is(err, sqlderive.ErrNoConditions))
		assert.True(t, errors.Is(err, sqlderive.ErrBuilderContract))
	})

	t.Run("IsBuilderContractError", func(t *testing.T) {
		err := sqlderive.NewBuilderContractError("User", "", "x")
		assert.True(t, sqlderive.IsBuilderContractError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, sqlderive.IsBuilderContractError(errors.New("other error")))
		assert.False(t, sqlderive.IsBuilderContractError(nil))
	})
}

func TestBindingError(t *testing.T) {
	err := sqlderive.NewBindingError(2, "invalid")
	assert.Equal(t, `sqlderive: cannot bind parameter $3: unrecognized value tag "invalid"`, err.Error())
	assert.True(t, errors.Is(err, sqlderive.ErrBindingInternal))
	assert.True(t, sqlderive.IsBindingError(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, sqlderive.IsBindingError(nil))
}

func TestStatementError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, sqlderive.NewStatementError("SELECT 1", nil))
	})

	t.Run("Unwrap", func(t *testing.T) {
		dbErr := errors.New("relation does not exist")
		err := sqlderive.NewStatementError("SELECT * FROM User", dbErr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbErr))
		assert.True(t, sqlderive.IsStatementError(err))
		assert.Equal(t, `sqlderive: executing "SELECT * FROM User": relation does not exist`, err.Error())
	})
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		assert.NoError(t, sqlderive.NewAggregateError(nil, nil))
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single")
		assert.Equal(t, single, sqlderive.NewAggregateError(nil, single))
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		first, second := errors.New("first"), errors.New("second")
		err := sqlderive.NewAggregateError(first, second)
		var agg *sqlderive.AggregateError
		require.True(t, errors.As(err, &agg))
		assert.Len(t, agg.Errors, 2)
		assert.Contains(t, err.Error(), "[1] first")
		assert.Contains(t, err.Error(), "[2] second")
		assert.True(t, errors.Is(err, second))
	})
}
