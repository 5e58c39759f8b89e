package sql

// Predicate is a single equality condition on a field. Predicates are
// created by the typed field handles below, or by EQ for dynamic values,
// and applied with Filter.Where.
type Predicate struct {
	Field string
	Value Value
}

// EQ returns a predicate that checks if the named field equals v.
func EQ(name string, v Value) Predicate {
	return Predicate{Field: name, Value: v}
}

// Int32Field is an Int32 field handle that provides type-safe predicates.
//
// Usage:
//
//	var ID = sql.Int32Field("id")
//	filter.Where(ID.EQ(5))
type Int32Field string

// Name returns the field name.
func (f Int32Field) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Int32Field) EQ(v int32) Predicate { return EQ(string(f), Int32(v)) }

// Int64Field is an Int64 field handle that provides type-safe predicates.
type Int64Field string

// Name returns the field name.
func (f Int64Field) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Int64Field) EQ(v int64) Predicate { return EQ(string(f), Int64(v)) }

// Float32Field is a Float32 field handle that provides type-safe predicates.
type Float32Field string

// Name returns the field name.
func (f Float32Field) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Float32Field) EQ(v float32) Predicate { return EQ(string(f), Float32(v)) }

// Float64Field is a Float64 field handle that provides type-safe predicates.
type Float64Field string

// Name returns the field name.
func (f Float64Field) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Float64Field) EQ(v float64) Predicate { return EQ(string(f), Float64(v)) }

// TextField is a Text field handle that provides type-safe predicates.
//
// Usage:
//
//	var Name = sql.TextField("name")
//	filter.Where(Name.EQ("bob"))
type TextField string

// Name returns the field name.
func (f TextField) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f TextField) EQ(v string) Predicate { return EQ(string(f), Text(v)) }
