package collect

import (
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

func nop(any, []any, ktype.Bindings) (any, error) { return nil, nil }

func process(mod kunit.Modifier, param, returns *ktype.Type) *kunit.Method {
	m := &kunit.Method{
		Name:     "Process",
		Params:   []kunit.Param{{Type: param}},
		Returns:  returns,
		Modifier: mod,
	}
	if mod != kunit.Abstract {
		m.Impl = nop
	}
	return m
}

func TestCollect(t *testing.T) {
	t.Run("no declarations", func(t *testing.T) {
		unit := kunit.MustDeclare(kunit.TypeSpec{Name: "Empty"})
		set := Collect(unit, "Process")
		assert.Equal(t, 0, set.Len())
		assert.Equal(t, 0, Collect(nil, "Process").Len())
	})

	t.Run("filters by name and keeps declaration order", func(t *testing.T) {
		other := process(kunit.Plain, ktype.Int32, ktype.Int32)
		other.Name = "Reset"
		unit := kunit.MustDeclare(kunit.TypeSpec{Name: "Unit", Methods: []*kunit.Method{
			process(kunit.Plain, ktype.Float32, ktype.Float32),
			other,
			process(kunit.Plain, ktype.Float64, ktype.Float64),
		}})

		set := Collect(unit, "Process")
		assert.Equal(t, []string{"Unit.Process(float32) float32", "Unit.Process(float64) float64"}, set.Signatures())
		for _, c := range set.Candidates {
			assert.Equal(t, 0, c.Depth)
			assert.True(t, c.DeclaredInMostDerived)
		}
	})

	t.Run("hiding removes base declaration", func(t *testing.T) {
		base := kunit.MustDeclare(kunit.TypeSpec{Name: "Base", Methods: []*kunit.Method{
			process(kunit.Plain, ktype.Float64, ktype.Float64),
			process(kunit.Plain, ktype.String, ktype.String),
		}})
		derived := kunit.MustDeclare(kunit.TypeSpec{Name: "Derived", Base: base, Methods: []*kunit.Method{
			process(kunit.Hide, ktype.Float64, ktype.Float64),
		}})

		set := Collect(derived, "Process")
		assert.Equal(t, []string{"Derived.Process(float64) float64", "Base.Process(string) string"}, set.Signatures())
		assert.Equal(t, 0, set.Candidates[0].Depth)
		assert.Equal(t, 1, set.Candidates[1].Depth)
		assert.False(t, set.Candidates[1].DeclaredInMostDerived)
	})

	t.Run("hiding a generic specialization", func(t *testing.T) {
		generic := &kunit.Method{
			Name:       "Process",
			TypeParams: []string{"T"},
			Params:     []kunit.Param{{Type: ktype.Timestamped(ktype.Param("T"))}},
			Returns:    ktype.Param("T"),
			Impl:       nop,
		}
		base := kunit.MustDeclare(kunit.TypeSpec{Name: "Base", Methods: []*kunit.Method{generic}})
		hiding := *generic
		hiding.TypeParams = []string{"TSource"}
		hiding.Params = []kunit.Param{{Type: ktype.Timestamped(ktype.Param("TSource"))}}
		hiding.Returns = ktype.Param("TSource")
		hiding.Modifier = kunit.Hide
		derived := kunit.MustDeclare(kunit.TypeSpec{Name: "Derived", Base: base, Methods: []*kunit.Method{&hiding}})

		set := Collect(derived, "Process")
		assert.Equal(t, []string{"Derived.Process<TSource>(Timestamped<TSource>) TSource"}, set.Signatures())
	})

	t.Run("override merges into base slot", func(t *testing.T) {
		base := kunit.MustDeclare(kunit.TypeSpec{Name: "Base", Methods: []*kunit.Method{
			process(kunit.Virtual, ktype.String, ktype.String),
		}})
		derived := kunit.MustDeclare(kunit.TypeSpec{Name: "Derived", Base: base, Methods: []*kunit.Method{
			process(kunit.Override, ktype.String, ktype.String),
			process(kunit.Plain, ktype.Object, ktype.Object),
		}})

		set := Collect(derived, "Process")
		assert.Equal(t, 2, set.Len())

		override := set.Candidates[0]
		assert.Equal(t, derived, override.Implementor)
		assert.Equal(t, base, override.Owner)
		assert.Equal(t, 1, override.Depth)
		assert.False(t, override.DeclaredInMostDerived)

		sibling := set.Candidates[1]
		assert.Equal(t, derived, sibling.Owner)
		assert.Equal(t, 0, sibling.Depth)
	})

	t.Run("override chain reaches introducing slot", func(t *testing.T) {
		root := kunit.MustDeclare(kunit.TypeSpec{Name: "Root", Abstract: true, Methods: []*kunit.Method{
			process(kunit.Abstract, ktype.Int32, ktype.Int32),
		}})
		mid := kunit.MustDeclare(kunit.TypeSpec{Name: "Mid", Base: root, Methods: []*kunit.Method{
			process(kunit.Override, ktype.Int32, ktype.Int32),
		}})
		leaf := kunit.MustDeclare(kunit.TypeSpec{Name: "Leaf", Base: mid, Methods: []*kunit.Method{
			process(kunit.Override, ktype.Int32, ktype.Int32),
		}})

		set := Collect(leaf, "Process")
		assert.Equal(t, 1, set.Len())
		assert.Equal(t, leaf, set.Candidates[0].Implementor)
		assert.Equal(t, root, set.Candidates[0].Owner)
		assert.Equal(t, 2, set.Candidates[0].Depth)
	})

	t.Run("virtual hides what lies beneath", func(t *testing.T) {
		root := kunit.MustDeclare(kunit.TypeSpec{Name: "Root", Methods: []*kunit.Method{
			process(kunit.Virtual, ktype.Int32, ktype.Int32),
		}})
		mid := kunit.MustDeclare(kunit.TypeSpec{Name: "Mid", Base: root, Methods: []*kunit.Method{
			process(kunit.Virtual, ktype.Int32, ktype.Int32),
		}})
		leaf := kunit.MustDeclare(kunit.TypeSpec{Name: "Leaf", Base: mid, Methods: []*kunit.Method{
			process(kunit.Override, ktype.Int32, ktype.Int32),
		}})

		set := Collect(leaf, "Process")
		assert.Equal(t, 1, set.Len())
		assert.Equal(t, mid, set.Candidates[0].Owner)
		assert.Equal(t, 1, set.Candidates[0].Depth)
	})
}

func TestCache(t *testing.T) {
	unit := kunit.MustDeclare(kunit.TypeSpec{Name: "Unit", Methods: []*kunit.Method{
		process(kunit.Plain, ktype.Float32, ktype.Float32),
		process(kunit.Plain, ktype.Float64, ktype.Float64),
	}})
	cache := &Cache{}

	const workers = 32
	sets := make([]*kunit.CandidateSet, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sets[i] = cache.Get(unit, "Process")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), cache.Builds())
	for _, s := range sets {
		assert.True(t, s == sets[0])
		assert.Equal(t, sets[0].Fingerprint(), s.Fingerprint())
	}

	// a fresh collection is structurally identical
	assert.Equal(t, sets[0].Fingerprint(), Collect(unit, "Process").Fingerprint())

	cache.Get(unit, "Other")
	assert.Equal(t, int64(2), cache.Builds())
}
