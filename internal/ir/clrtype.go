package ir

import "strings"

// Kind enumerates the stack-verification types the engine tracks.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindNativeInt
	KindFloat32
	KindFloat64
	KindTypedRef
	KindObjectRef
)

var kindNames = [...]string{
	KindVoid:      "void",
	KindBool:      "bool",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindNativeInt: "nativeint",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindTypedRef:  "typedref",
	KindObjectRef: "objectref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind?"
}

// IsFloat reports whether k is either floating-point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// ClrType is one stack-verification type. Types are compared by identity:
// a TypeRegistry hands out exactly one *ClrType per Kind, and operands carry
// those pointers.
type ClrType struct {
	kind Kind
	name string
}

// Kind returns the verification kind of t.
func (t *ClrType) Kind() Kind { return t.kind }

// Name returns the registry name of t.
func (t *ClrType) Name() string { return t.name }

func (t *ClrType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// TypeRegistry holds the canonical ClrType singletons of one runtime.
//
// INVARIANT: the fields never change after construction, so a registry may
// be shared read-only between compilations.
type TypeRegistry struct {
	Void      *ClrType
	Bool      *ClrType
	Int32     *ClrType
	Int64     *ClrType
	NativeInt *ClrType
	Float32   *ClrType
	Float64   *ClrType
	TypedRef  *ClrType
	ObjectRef *ClrType

	byKind  [KindObjectRef + 1]*ClrType
	aliases map[string]*ClrType
}

// NewTypeRegistry creates a registry with one singleton per Kind.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{aliases: make(map[string]*ClrType)}
	for k := KindVoid; k <= KindObjectRef; k++ {
		r.byKind[k] = &ClrType{kind: k, name: k.String()}
		r.aliases[k.String()] = r.byKind[k]
	}
	r.Void = r.byKind[KindVoid]
	r.Bool = r.byKind[KindBool]
	r.Int32 = r.byKind[KindInt32]
	r.Int64 = r.byKind[KindInt64]
	r.NativeInt = r.byKind[KindNativeInt]
	r.Float32 = r.byKind[KindFloat32]
	r.Float64 = r.byKind[KindFloat64]
	r.TypedRef = r.byKind[KindTypedRef]
	r.ObjectRef = r.byKind[KindObjectRef]

	for alias, k := range map[string]Kind{
		"i4": KindInt32, "int": KindInt32, "system.int32": KindInt32,
		"i8": KindInt64, "long": KindInt64, "system.int64": KindInt64,
		"i": KindNativeInt, "native int": KindNativeInt, "system.intptr": KindNativeInt,
		"r4": KindFloat32, "float": KindFloat32, "system.single": KindFloat32,
		"r8": KindFloat64, "double": KindFloat64, "system.double": KindFloat64,
		"boolean": KindBool, "system.boolean": KindBool,
		"byref": KindTypedRef, "&": KindTypedRef, "system.typedreference": KindTypedRef,
		"object": KindObjectRef, "o": KindObjectRef, "system.object": KindObjectRef,
		"system.void": KindVoid,
	} {
		r.aliases[alias] = r.byKind[k]
	}
	return r
}

// ByKind returns the singleton for k.
func (r *TypeRegistry) ByKind(k Kind) *ClrType {
	if int(k) < len(r.byKind) {
		return r.byKind[k]
	}
	return nil
}

// Lookup resolves a type name or alias ("int32", "i4", "System.Double", ...)
// case-insensitively.
func (r *TypeRegistry) Lookup(name string) (*ClrType, bool) {
	t, ok := r.aliases[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// StackType returns the unified evaluation-stack form of t: both float
// widths collapse to Float64, everything else is returned unchanged.
func (r *TypeRegistry) StackType(t *ClrType) *ClrType {
	if t != nil && t.kind == KindFloat32 {
		return r.Float64
	}
	return t
}
