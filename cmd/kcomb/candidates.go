package main

import (
	"fmt"

	"github.com/birdayz/kcombinator/kunit"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type candidatesDump struct {
	Fingerprint string         `yaml:"fingerprint"`
	Snapshot    kunit.Snapshot `yaml:",inline"`
}

func newCandidatesCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "candidates <unit>",
		Short: "Show the candidate set of a stock unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := lookupUnit(args[0])
			if err != nil {
				return err
			}
			set := c.engine.Candidates(unit)

			switch output {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(candidatesDump{Fingerprint: set.Fingerprint(), Snapshot: set.Snapshot()}); err != nil {
					return err
				}
				return enc.Close()
			case "text":
				c.out.field("unit", unit.Name())
				c.out.field("entry", set.EntryPoint)
				c.out.field("hash", set.Fingerprint())
				if set.Len() == 0 {
					c.out.failure("no candidates")
				}
				for _, sig := range set.Signatures() {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+sig)
				}
				return nil
			}
			return fmt.Errorf("invalid --output %q (want yaml|text)", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (yaml|text)")
	return cmd
}
