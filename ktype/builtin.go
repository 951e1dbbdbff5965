package ktype

func primitive(p Primitive) *Type {
	return &Type{kind: KindPrimitive, prim: p}
}

// Built-in scalar types.
var (
	Object  = &Type{kind: KindObject}
	Bool    = primitive(PrimBool)
	String  = primitive(PrimString)
	Char    = primitive(PrimChar)
	Int8    = primitive(PrimInt8)
	UInt8   = primitive(PrimUInt8)
	Int16   = primitive(PrimInt16)
	UInt16  = primitive(PrimUInt16)
	Int32   = primitive(PrimInt32)
	UInt32  = primitive(PrimUInt32)
	Int64   = primitive(PrimInt64)
	UInt64  = primitive(PrimUInt64)
	Float32 = primitive(PrimFloat32)
	Float64 = primitive(PrimFloat64)
	Decimal = primitive(PrimDecimal)
)

// Stock generic definitions shared by the stock units and the CLI.
var (
	IEnumerableDef = &Definition{Name: "IEnumerable", Kind: Interface, Params: []string{"T"}}
	IListDef       = &Definition{
		Name:       "IList",
		Kind:       Interface,
		Params:     []string{"T"},
		Interfaces: []*Type{IEnumerableDef.Of(Param("T"))},
	}
	ListDef = &Definition{
		Name:       "List",
		Kind:       Class,
		Params:     []string{"T"},
		Interfaces: []*Type{IListDef.Of(Param("T"))},
	}
	TimestampedDef = &Definition{Name: "Timestamped", Kind: Struct, Params: []string{"T"}}
	TupleDef       = &Definition{Name: "Tuple", Kind: Class, Params: []string{"T1", "T2"}}
	EventArgsDef   = &Definition{Name: "EventArgs", Kind: Class}
)

// EventArgs is the non-generic EventArgs class.
var EventArgs = EventArgsDef.Of()

func Timestamped(t *Type) *Type { return TimestampedDef.Of(t) }
func Tuple(a, b *Type) *Type { return TupleDef.Of(a, b) }
func IList(t *Type) *Type { return IListDef.Of(t) }
func IEnumerable(t *Type) *Type { return IEnumerableDef.Of(t) }
func List(t *Type) *Type { return ListDef.Of(t) }
