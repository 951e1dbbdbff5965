package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/birdayz/kcombinator/kdag"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// graphFile describes a graph. Nodes may only read sources and nodes listed
// before them.
type graphFile struct {
	Sources []sourceSpec `toml:"source"`
	Nodes   []nodeSpec   `toml:"node"`
	Sinks   []sinkSpec   `toml:"sink"`
}

type sourceSpec struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type nodeSpec struct {
	Name   string   `toml:"name"`
	Unit   string   `toml:"unit"`
	Inputs []string `toml:"inputs"`
}

type sinkSpec struct {
	Name  string `toml:"name"`
	Input string `toml:"input"`
	Type  string `toml:"type"`
}

func loadGraphFile(path string) (graphFile, error) {
	var gf graphFile
	meta, err := toml.DecodeFile(path, &gf)
	if err != nil {
		return graphFile{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return graphFile{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return gf, nil
}

// register adds every declared node to b.
func (gf graphFile) register(b *kdag.Builder) error {
	for _, s := range gf.Sources {
		t, err := ktype.Parse(s.Type)
		if err != nil {
			return fmt.Errorf("source %s: %w", s.Name, err)
		}
		if err := b.AddSource(s.Name, t); err != nil {
			return err
		}
	}
	for _, n := range gf.Nodes {
		unit, err := lookupUnit(n.Unit)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.Name, err)
		}
		inst, err := kunit.NewInstance(unit, nil)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.Name, err)
		}
		if err := b.AddUnit(n.Name, inst, n.Inputs...); err != nil {
			return err
		}
	}
	for _, s := range gf.Sinks {
		t, err := ktype.Parse(s.Type)
		if err != nil {
			return fmt.Errorf("sink %s: %w", s.Name, err)
		}
		if err := b.AddSink(s.Name, s.Input, t); err != nil {
			return err
		}
	}
	return nil
}

func newGraphCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <file.toml>",
		Short: "Build a graph of stock units and show each node's output type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gf, err := loadGraphFile(args[0])
			if err != nil {
				return err
			}

			b := kdag.NewBuilder(kdag.WithEngine(c.engine), kdag.WithLogr(c.log.WithName("graph")))
			if err := gf.register(b); err != nil {
				return err
			}

			dag, err := b.Build(cmd.Context())
			if err != nil {
				errs := multierr.Errors(err)
				for _, e := range errs {
					c.out.failure("%s", e)
				}
				return fmt.Errorf("graph build failed with %d error(s)", len(errs))
			}

			for _, id := range dag.Order() {
				node, _ := dag.Node(string(id))
				switch node.Type {
				case kdag.NodeTypeSource:
					c.out.field(string(id), node.Output())
				case kdag.NodeTypeUnit:
					c.out.field(string(id), fmt.Sprintf("%s = %s", node.Output(), node.Call))
				case kdag.NodeTypeSink:
					c.out.field(string(id), fmt.Sprintf("<- %s as %s", node.Parents[0], node.ElementType))
				}
			}
			c.out.success("built %d nodes", len(dag.Order()))
			return nil
		},
	}
}
