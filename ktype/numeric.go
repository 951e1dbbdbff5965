package ktype

// Primitive tags the built-in scalar types.
type Primitive uint8

const (
	PrimInvalid Primitive = iota
	PrimBool
	PrimString
	PrimChar
	PrimInt8
	PrimUInt8
	PrimInt16
	PrimUInt16
	PrimInt32
	PrimUInt32
	PrimInt64
	PrimUInt64
	PrimFloat32
	PrimFloat64
	PrimDecimal
)

var primitiveNames = map[Primitive]string{
	PrimBool:    "bool",
	PrimString:  "string",
	PrimChar:    "char",
	PrimInt8:    "int8",
	PrimUInt8:   "uint8",
	PrimInt16:   "int16",
	PrimUInt16:  "uint16",
	PrimInt32:   "int32",
	PrimUInt32:  "uint32",
	PrimInt64:   "int64",
	PrimUInt64:  "uint64",
	PrimFloat32: "float32",
	PrimFloat64: "float64",
	PrimDecimal: "decimal",
}

func (p Primitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return "invalid"
}

// Numeric reports whether p takes part in numeric widening.
func (p Primitive) Numeric() bool {
	return p >= PrimChar && p <= PrimDecimal
}

// widening lists, for every numeric source, the targets reachable by an
// implicit (lossless-by-convention) conversion. Narrowing is never implicit.
var widening = map[Primitive][]Primitive{
	PrimChar:    {PrimUInt16, PrimInt32, PrimUInt32, PrimInt64, PrimUInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimInt8:    {PrimInt16, PrimInt32, PrimInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimUInt8:   {PrimInt16, PrimUInt16, PrimInt32, PrimUInt32, PrimInt64, PrimUInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimInt16:   {PrimInt32, PrimInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimUInt16:  {PrimInt32, PrimUInt32, PrimInt64, PrimUInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimInt32:   {PrimInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimUInt32:  {PrimInt64, PrimUInt64, PrimFloat32, PrimFloat64, PrimDecimal},
	PrimInt64:   {PrimFloat32, PrimFloat64, PrimDecimal},
	PrimUInt64:  {PrimFloat32, PrimFloat64, PrimDecimal},
	PrimFloat32: {PrimFloat64},
}

// WideningRank returns the cost of widening from -> to: the distance between
// the two types along the fixed order char < int8 < uint8 < ... < float64 <
// decimal. ok is false when no implicit widening exists.
func WideningRank(from, to Primitive) (rank int, ok bool) {
	for _, target := range widening[from] {
		if target == to {
			return int(to) - int(from), true
		}
	}
	return 0, false
}
