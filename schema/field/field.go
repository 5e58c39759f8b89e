package field

// A Descriptor holds the declaration of a single record field: its name, the
// declared type tag and the resolved type. Err holds the first resolution
// failure; schema construction reports it with the field name attached.
type Descriptor struct {
	Name string
	Tag  string
	Type Type
	Err  error
}

// New returns a descriptor for a field declared with a type tag,
// as produced by a schema front-end.
//
//	field.New("age", "i32")
//	field.New("name", "String")
func New(name, tag string) *Descriptor {
	t, err := ParseType(tag)
	return &Descriptor{Name: name, Tag: tag, Type: t, Err: err}
}

// Of returns a descriptor for a field of an already-resolved type.
func Of(name string, t Type) *Descriptor {
	d := &Descriptor{Name: name, Tag: t.String(), Type: t}
	if _, err := t.SQLType(); err != nil {
		d.Err = err
	}
	return d
}

// Int32 returns a new Int32 field descriptor.
func Int32(name string) *Descriptor { return Of(name, TypeInt32) }

// Int64 returns a new Int64 field descriptor.
func Int64(name string) *Descriptor { return Of(name, TypeInt64) }

// Float32 returns a new Float32 field descriptor.
func Float32(name string) *Descriptor { return Of(name, TypeFloat32) }

// Float64 returns a new Float64 field descriptor.
func Float64(name string) *Descriptor { return Of(name, TypeFloat64) }

// Text returns a new Text field descriptor.
func Text(name string) *Descriptor { return Of(name, TypeText) }

// String is an alias of Text.
func String(name string) *Descriptor { return Text(name) }
