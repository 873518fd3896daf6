package collection

import "github.com/conterra/cellgraph/pkg/cell"

// Field describes one entry of a record schema. Exactly one shape applies:
//
//   - a plain property (neither Compute nor Method set), backed 1:1 by a
//     cell, writable and tracked unless configured otherwise
//   - a computed property (Compute set), backed by a derived cell bound to
//     the instance
//   - a method (Method set), a plain callable bound at construction with no
//     graph participation
//
// Default supplies an initial value for a property when construction omits
// it; Optional lets the property start as nil instead. A property with
// neither must be given an initial value.
type Field struct {
	Compute func(r *Record) any
	Method  func(r *Record, args ...any) any

	// ReadOnly rejects writes after construction.
	ReadOnly bool

	// Untracked makes reads of this property register no dependency.
	Untracked bool

	Default  any
	Optional bool
}

type fieldKind uint8

const (
	fieldProp fieldKind = iota
	fieldComputed
	fieldMethod
)

// fieldSpec is a schema Field resolved into a closed tagged variant, so
// per-access dispatch is a switch on kind instead of option inspection.
type fieldSpec struct {
	name      string
	kind      fieldKind
	readOnly  bool
	untracked bool
	def       any
	optional  bool
	compute   func(*Record) any
	method    func(*Record, ...any) any
}

// RecordType is a validated schema from which record instances are built.
type RecordType struct {
	fields map[string]*fieldSpec
}

// NewRecordType validates a schema and resolves it into a RecordType.
// Malformed entries yield a *SchemaError.
func NewRecordType(schema map[string]Field) (*RecordType, error) {
	fields := make(map[string]*fieldSpec, len(schema))

	for name, f := range schema {
		if name == "" {
			return nil, &SchemaError{Reason: "empty field name"}
		}
		if f.Compute != nil && f.Method != nil {
			return nil, &SchemaError{Field: name, Reason: "both compute and method set"}
		}

		spec := &fieldSpec{name: name}
		switch {
		case f.Compute != nil:
			if f.ReadOnly || f.Untracked || f.Optional || f.Default != nil {
				return nil, &SchemaError{Field: name, Reason: "property options set on a computed field"}
			}
			spec.kind = fieldComputed
			spec.compute = f.Compute
		case f.Method != nil:
			if f.ReadOnly || f.Untracked || f.Optional || f.Default != nil {
				return nil, &SchemaError{Field: name, Reason: "property options set on a method field"}
			}
			spec.kind = fieldMethod
			spec.method = f.Method
		default:
			spec.kind = fieldProp
			spec.readOnly = f.ReadOnly
			spec.untracked = f.Untracked
			spec.def = f.Default
			spec.optional = f.Optional
		}
		fields[name] = spec
	}

	return &RecordType{fields: fields}, nil
}

// Record is one instance of a RecordType. Field state lives in a private
// per-instance store reachable only through the accessors, never through
// struct fields.
type Record struct {
	typ      *RecordType
	props    map[string]*cell.Cell[any]
	computed map[string]*cell.Derived[any]
	methods  map[string]func(args ...any) any
}

// New builds a record instance. initial supplies property values; it is
// required exactly for properties that have neither a Default nor Optional
// set. Keys that do not name a plain property yield a *SchemaError.
func (t *RecordType) New(initial map[string]any) (*Record, error) {
	for name := range initial {
		spec, ok := t.fields[name]
		if !ok {
			return nil, &SchemaError{Field: name, Reason: "initial value for unknown field"}
		}
		if spec.kind != fieldProp {
			return nil, &SchemaError{Field: name, Reason: "initial value for non-property field"}
		}
	}

	r := &Record{
		typ:      t,
		props:    make(map[string]*cell.Cell[any]),
		computed: make(map[string]*cell.Derived[any]),
		methods:  make(map[string]func(args ...any) any),
	}

	for name, spec := range t.fields {
		switch spec.kind {
		case fieldProp:
			v, ok := initial[name]
			if !ok {
				switch {
				case spec.def != nil:
					v = spec.def
				case spec.optional:
					v = nil
				default:
					return nil, &SchemaError{Field: name, Reason: "missing required initial value"}
				}
			}
			r.props[name] = cell.New(v)
		case fieldComputed:
			compute := spec.compute
			r.computed[name] = cell.Derive(func() any { return compute(r) })
		case fieldMethod:
			method := spec.method
			r.methods[name] = func(args ...any) any { return method(r, args...) }
		}
	}

	return r, nil
}

// Get returns the value of a plain or computed property, registering the
// usual dependency unless the property is untracked. For a method field it
// returns the bound callable. An unknown field panics with
// *AccessViolationError.
func (r *Record) Get(name string) any {
	spec, ok := r.typ.fields[name]
	if !ok {
		panic(&AccessViolationError{Field: name, Reason: "no such field"})
	}

	switch spec.kind {
	case fieldComputed:
		return r.computed[name].Get()
	case fieldMethod:
		return r.methods[name]
	default:
		if spec.untracked {
			return r.props[name].Peek()
		}
		return r.props[name].Get()
	}
}

// Set writes a plain writable property. Writing a read-only property, a
// computed property, a method, or an unknown field panics with
// *AccessViolationError and leaves the stored value unchanged.
func (r *Record) Set(name string, value any) {
	spec, ok := r.typ.fields[name]
	if !ok {
		panic(&AccessViolationError{Field: name, Reason: "no such field"})
	}

	switch spec.kind {
	case fieldComputed:
		panic(&AccessViolationError{Field: name, Reason: "write to computed property"})
	case fieldMethod:
		panic(&AccessViolationError{Field: name, Reason: "write to method field"})
	default:
		if spec.readOnly {
			panic(&AccessViolationError{Field: name, Reason: "write to read-only property"})
		}
		r.props[name].Set(value)
	}
}

// Call invokes a method field with the given arguments. A non-method field
// panics with *AccessViolationError.
func (r *Record) Call(name string, args ...any) any {
	fn, ok := r.methods[name]
	if !ok {
		panic(&AccessViolationError{Field: name, Reason: "not a method"})
	}
	return fn(args...)
}

// Type returns the schema this record was built from.
func (r *Record) Type() *RecordType {
	return r.typ
}
