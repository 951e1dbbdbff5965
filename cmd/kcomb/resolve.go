package main

import (
	"fmt"
	"strings"

	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/combinators"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
	"github.com/spf13/cobra"
)

func newResolveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <unit> <type>...",
		Short: "Resolve a stock unit against input element types",
		Example: `  kcomb resolve Average long
  kcomb resolve Merge int int int
  kcomb resolve Value "Timestamped<double>"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := lookupUnit(args[0])
			if err != nil {
				return err
			}
			types := make([]*ktype.Type, len(args)-1)
			for i, s := range args[1:] {
				if types[i], err = ktype.Parse(s); err != nil {
					return err
				}
			}

			out := c.engine.Resolve(kunit.MustNewInstance(unit, nil), kcombinator.Inputs(types...)...)
			if err := out.Err(); err != nil {
				c.out.failure("%s", out.Kind)
				return err
			}

			c.out.success("%s", out.Kind)
			c.out.field("call", out.Call)
			if len(out.Binding.TypeArgs) > 0 {
				c.out.field("type args", out.Binding.TypeArgs)
			}
			if out.Binding.Expanded {
				c.out.field("expanded", true)
			}
			c.out.field("cost", out.Binding.Cost)
			c.out.field("output", out.Output())
			if c.verbose {
				for i, conv := range out.Binding.Conversions {
					c.out.field(fmt.Sprintf("input %d", i), conv)
				}
			}
			return nil
		},
	}
}

func lookupUnit(name string) (*kunit.UnitType, error) {
	unit, ok := combinators.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown unit %q (known: %s)", name, strings.Join(combinators.Names(), ", "))
	}
	return unit, nil
}
