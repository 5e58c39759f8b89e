package sqlderive

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors. Every typed error below matches one of them
// through errors.Is.
var (
	// ErrSchema is matched by SchemaError: an unsupported field type, an
	// invalid schema shape, or the lookup of a schema that was never registered.
	ErrSchema = errors.New("sqlderive: schema error")

	// ErrBuilderContract is matched by BuilderContractError: a value whose type
	// does not match the field's declared type, an unknown field, or a terminal
	// call on a filter without conditions.
	ErrBuilderContract = errors.New("sqlderive: builder contract violated")

	// ErrNoConditions is returned (wrapped in a BuilderContractError) when a
	// filtered select or delete is rendered without any condition.
	ErrNoConditions = errors.New("sqlderive: filter has no conditions")

	// ErrBindingInternal is matched by BindingError. It signals a defect: a bound
	// value whose tag the binder does not recognize.
	ErrBindingInternal = errors.New("sqlderive: internal binding error")
)

// SchemaError is returned when a record schema cannot be built, resolved or found.
// Generation never starts when a SchemaError is returned.
type SchemaError struct {
	Record  string // Record type name (if known)
	Field   string // Offending field (if applicable)
	Message string
	Cause   error
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("sqlderive: schema error")
	if e.Record != "" {
		b.WriteString(" on record ")
		b.WriteString(e.Record)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError returns a new SchemaError.
func NewSchemaError(record, field, message string, cause error) *SchemaError {
	return &SchemaError{Record: record, Field: field, Message: message, Cause: cause}
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e)
}

// BuilderContractError is returned when a filter chain is used against its
// contract. It is detected before any SQL reaches the executor.
type BuilderContractError struct {
	Table   string // Table of the builder
	Field   string // Offending field (if applicable)
	Message string
	Err     error // Optional cause, e.g. ErrNoConditions
}

// Error returns the error string.
func (e *BuilderContractError) Error() string {
	var b strings.Builder
	b.WriteString("sqlderive: builder")
	if e.Table != "" {
		b.WriteString(" on ")
		b.WriteString(e.Table)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *BuilderContractError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrBuilderContract.
func (e *BuilderContractError) Is(target error) bool {
	return target == ErrBuilderContract
}

// NewBuilderContractError returns a new BuilderContractError.
func NewBuilderContractError(table, field, message string) *BuilderContractError {
	return &BuilderContractError{Table: table, Field: field, Message: message}
}

// IsBuilderContractError returns true if the error is a BuilderContractError.
func IsBuilderContractError(err error) bool {
	if err == nil {
		return false
	}
	var e *BuilderContractError
	return errors.As(err, &e)
}

// BindingError reports a bound value that the binder could not convert into a
// statement argument. It is a defect, never a recoverable condition.
type BindingError struct {
	Index int    // 0-based position in the parameter list
	Tag   string // The unrecognized tag
}

// Error returns the error string.
func (e *BindingError) Error() string {
	return fmt.Sprintf("sqlderive: cannot bind parameter $%d: unrecognized value tag %q", e.Index+1, e.Tag)
}

// Is reports whether the target matches ErrBindingInternal.
func (e *BindingError) Is(target error) bool {
	return target == ErrBindingInternal
}

// NewBindingError returns a new BindingError.
func NewBindingError(index int, tag string) *BindingError {
	return &BindingError{Index: index, Tag: tag}
}

// IsBindingError returns true if the error is a BindingError.
func IsBindingError(err error) bool {
	if err == nil {
		return false
	}
	var e *BindingError
	return errors.As(err, &e)
}

// StatementError carries a database error together with the statement that
// produced it. The database error itself is left untouched and reachable with
// errors.Is and errors.As.
type StatementError struct {
	Statement string
	Err       error
}

// Error returns the error string.
func (e *StatementError) Error() string {
	return fmt.Sprintf("sqlderive: executing %q: %v", e.Statement, e.Err)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError returns a new StatementError, or nil if err is nil.
func NewStatementError(statement string, err error) error {
	if err == nil {
		return nil
	}
	return &StatementError{Statement: statement, Err: err}
}

// IsStatementError returns true if the error is a StatementError.
func IsStatementError(err error) bool {
	if err == nil {
		return false
	}
	var e *StatementError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "sqlderive: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("sqlderive: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
