package bind

import (
	"fmt"

	"github.com/birdayz/kcombinator/ktype"
)

// Cost orders bindings. Components are compared in declaration order, so a
// single generic binding outweighs any amount of reference distance, which in
// turn outweighs any widening rank. Expanded penalizes the expanded form of a
// variadic candidate.
type Cost struct {
	Generic   int
	Reference int
	Widening  int
	Expanded  int
}

// ConversionCost is the cost contributed by one input.
func ConversionCost(conv ktype.Conversion) Cost {
	switch conv.Kind {
	case ktype.NumericWidening:
		return Cost{Widening: conv.Rank}
	case ktype.ReferenceConversion:
		return Cost{Reference: conv.Distance}
	case ktype.GenericBind:
		return Cost{Generic: 1, Reference: conv.Distance}
	default:
		return Cost{}
	}
}

func (c Cost) Add(o Cost) Cost {
	return Cost{
		Generic:   c.Generic + o.Generic,
		Reference: c.Reference + o.Reference,
		Widening:  c.Widening + o.Widening,
		Expanded:  c.Expanded + o.Expanded,
	}
}

// Compare returns -1 if c is cheaper than o, 1 if it is dearer and 0 if equal.
func (c Cost) Compare(o Cost) int {
	for _, d := range [...]int{
		c.Generic - o.Generic,
		c.Reference - o.Reference,
		c.Widening - o.Widening,
		c.Expanded - o.Expanded,
	} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

func (c Cost) String() string {
	return fmt.Sprintf("generic=%d reference=%d widening=%d expanded=%d", c.Generic, c.Reference, c.Widening, c.Expanded)
}
