package ktype

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		elem     *Type
		declared *Type
		kind     ConversionKind
		rank     int
		distance int
	}{
		{name: "identity", elem: Int32, declared: Int32, kind: Identity},
		{name: "identity nominal", elem: Timestamped(Int32), declared: Timestamped(Int32), kind: Identity},
		{name: "int32 to float32", elem: Int32, declared: Float32, kind: NumericWidening, rank: 4},
		{name: "int32 to float64", elem: Int32, declared: Float64, kind: NumericWidening, rank: 5},
		{name: "int64 to float64", elem: Int64, declared: Float64, kind: NumericWidening, rank: 3},
		{name: "float32 to float64", elem: Float32, declared: Float64, kind: NumericWidening, rank: 1},
		{name: "int32 to decimal", elem: Int32, declared: Decimal, kind: NumericWidening, rank: 6},
		{name: "narrowing is never implicit", elem: Float64, declared: Int32, kind: Incompatible},
		{name: "float64 to decimal is not implicit", elem: Float64, declared: Decimal, kind: Incompatible},
		{name: "signed to unsigned", elem: Int32, declared: UInt64, kind: Incompatible},
		{name: "primitive to object", elem: Int32, declared: Object, kind: ReferenceConversion, distance: 1},
		{name: "array to IList", elem: ArrayOf(Int32), declared: IList(Int32), kind: ReferenceConversion, distance: 1},
		{name: "list to IEnumerable", elem: List(Int32), declared: IEnumerable(Int32), kind: ReferenceConversion, distance: 2},
		{name: "nominal args are invariant", elem: Timestamped(Int32), declared: Timestamped(Int64), kind: Incompatible},
		{name: "tuple is not a list", elem: Tuple(Int32, Int32), declared: IList(Int32), kind: Incompatible},
		{name: "string to float", elem: String, declared: Float32, kind: Incompatible},
		{name: "unbound slot in element type", elem: Param("T"), declared: Object, kind: Incompatible},
		{name: "nil element type", elem: nil, declared: Object, kind: Incompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := Check(tt.elem, tt.declared)
			assert.Equal(t, tt.kind, conv.Kind)
			assert.Equal(t, tt.rank, conv.Rank)
			assert.Equal(t, tt.distance, conv.Distance)
		})
	}
}

func TestCheckGeneric(t *testing.T) {
	t.Run("bare slot binds whole type", func(t *testing.T) {
		conv := Check(Int32, Param("T"))
		assert.Equal(t, GenericBind, conv.Kind)
		assert.Equal(t, "{T=int32}", conv.Bindings.String())
		assert.Equal(t, "int32", conv.To.String())
	})

	t.Run("specialized shape", func(t *testing.T) {
		conv := Check(Timestamped(Int32), Timestamped(Param("T")))
		assert.Equal(t, GenericBind, conv.Kind)
		assert.Equal(t, 0, conv.Distance)
		assert.Equal(t, "{T=int32}", conv.Bindings.String())
		assert.Equal(t, "Timestamped<int32>", conv.To.String())
	})

	t.Run("specialized shape rejects other definition", func(t *testing.T) {
		conv := Check(Int32, Timestamped(Param("T")))
		assert.Equal(t, Incompatible, conv.Kind)
	})

	t.Run("pattern against supertype instantiation", func(t *testing.T) {
		conv := Check(List(String), IEnumerable(Param("T")))
		assert.Equal(t, GenericBind, conv.Kind)
		assert.Equal(t, 2, conv.Distance)
		assert.Equal(t, "{T=string}", conv.Bindings.String())
	})

	t.Run("array element", func(t *testing.T) {
		conv := Check(ArrayOf(Float32), ArrayOf(Param("T")))
		assert.Equal(t, GenericBind, conv.Kind)
		assert.Equal(t, "{T=float32}", conv.Bindings.String())
	})

	t.Run("repeated slot must agree", func(t *testing.T) {
		pattern := Tuple(Param("T"), Param("T"))
		assert.Equal(t, GenericBind, Check(Tuple(Int32, Int32), pattern).Kind)
		assert.Equal(t, Incompatible, Check(Tuple(Int32, String), pattern).Kind)
	})

	t.Run("nested generic arguments", func(t *testing.T) {
		conv := Check(Tuple(Timestamped(Int64), String), Tuple(Timestamped(Param("A")), Param("B")))
		assert.Equal(t, GenericBind, conv.Kind)
		assert.Equal(t, "{A=int64, B=string}", conv.Bindings.String())
	})

	t.Run("two instantiations at the same distance", func(t *testing.T) {
		multi := &Definition{
			Name:       "Multi",
			Interfaces: []*Type{IEnumerable(Int32), IEnumerable(String)},
		}
		conv := Check(multi.Of(), IEnumerable(Param("T")))
		assert.Equal(t, Incompatible, conv.Kind)

		// a concrete target is still reachable
		conv = Check(multi.Of(), IEnumerable(String))
		assert.Equal(t, ReferenceConversion, conv.Kind)
	})
}

func TestBindings(t *testing.T) {
	b := Bindings{"T": Int32}
	assert.True(t, b.Bind("T", Int32))
	assert.False(t, b.Bind("T", Int64))
	assert.True(t, b.Bind("U", String))

	clone := b.Clone()
	assert.True(t, clone.Merge(Bindings{"V": Float64}))
	assert.Equal(t, 2, len(b))
	assert.Equal(t, 3, len(clone))
	assert.False(t, clone.Merge(Bindings{"T": Float32}))
	assert.Equal(t, []string{"T", "U", "V"}, clone.Slots())
}

func TestAncestors(t *testing.T) {
	names := func(ancestors []Ancestor) []string {
		out := make([]string, len(ancestors))
		for i, a := range ancestors {
			out[i] = a.Type.String()
		}
		return out
	}

	assert.Equal(t, []string{"List<int32>", "object", "IList<int32>", "IEnumerable<int32>"}, names(List(Int32).Ancestors()))
	assert.Equal(t, []string{"float32[]", "IList<float32>", "object", "IEnumerable<float32>"}, names(ArrayOf(Float32).Ancestors()))
	assert.Equal(t, []string{"object"}, names(Object.Ancestors()))

	derivedDef := &Definition{Name: "Derived", Base: EventArgs}
	assert.Equal(t, []string{"Derived", "EventArgs", "object"}, names(derivedDef.Of().Ancestors()))
}
