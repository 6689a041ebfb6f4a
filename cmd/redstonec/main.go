// Command redstonec is a CLI harness around the compiler and simulator
// core, grounded on the teacher's cmd/z80opt (a cobra root command with one
// subcommand per pipeline stage, flags mapped onto a plain Options/Config
// struct).
package main

import (
	"fmt"
	"os"

	"github.com/redstone-core/redstone/pkg/compile"
	"github.com/redstone-core/redstone/pkg/dot"
	"github.com/redstone-core/redstone/pkg/worldio"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "redstonec",
		Short: "redstone-core compiler and simulator harness",
	}

	var ioOnly, optimize, exportDot bool

	compileCmd := &cobra.Command{
		Use:   "compile [fixture.json]",
		Short: "Load a graph fixture, run the optimizer pipeline, and print stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			before := len(g.Nodes())

			opts := compile.Options{IOOnly: ioOnly, Optimize: optimize, ExportDotGraph: exportDot}
			backend, err := compile.Compile(g, nil, opts, func(stage string, b, a int) {
				fmt.Printf("  %-16s %4d -> %4d\n", stage, b, a)
			})
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}

			fmt.Printf("compiled %d -> %d nodes, %d forward links, %d analog-input records\n",
				before, len(backend.Nodes), len(backend.ForwardLinks), len(backend.AnalogInputs))

			if exportDot {
				if err := dot.Write(os.Stdout, backend); err != nil {
					return fmt.Errorf("dot export: %w", err)
				}
			}
			return nil
		},
	}
	compileCmd.Flags().BoolVar(&ioOnly, "io-only", false, "restrict flush to I/O-marked nodes; precondition for normalization")
	compileCmd.Flags().BoolVar(&optimize, "optimize", true, "run the optimization passes before lowering")
	compileCmd.Flags().BoolVar(&exportDot, "dot", false, "print a Graphviz digraph of the compiled runtime")

	var ticks int
	tickCmd := &cobra.Command{
		Use:   "tick [fixture.json]",
		Short: "Compile a fixture and drive N ticks, printing changed nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			opts := compile.Options{IOOnly: ioOnly, Optimize: optimize}
			backend, err := compile.Compile(g, nil, opts, nil)
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}

			world := worldio.NewFakeWorld()
			for i := 0; i < ticks; i++ {
				backend.Tick()
				backend.Flush(world, ioOnly)
			}
			fmt.Printf("ran %d ticks: %d blocks written, %d notes played\n",
				ticks, len(world.Blocks), len(world.NotesPlayed))
			for pos, b := range world.Blocks {
				fmt.Printf("  %v: powered=%v output=%d\n", pos, b.Powered, b.OutputPower)
			}
			return nil
		},
	}
	tickCmd.Flags().IntVar(&ticks, "ticks", 1, "number of ticks to run")
	tickCmd.Flags().BoolVar(&ioOnly, "io-only", false, "restrict flush to I/O-marked nodes")
	tickCmd.Flags().BoolVar(&optimize, "optimize", true, "run the optimization passes before lowering")

	dotCmd := &cobra.Command{
		Use:   "dot [fixture.json]",
		Short: "Compile a fixture and print its Graphviz digraph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			opts := compile.Options{IOOnly: ioOnly, Optimize: optimize, ExportDotGraph: true}
			backend, err := compile.Compile(g, nil, opts, nil)
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}
			return dot.Write(os.Stdout, backend)
		},
	}
	dotCmd.Flags().BoolVar(&ioOnly, "io-only", false, "restrict flush to I/O-marked nodes")
	dotCmd.Flags().BoolVar(&optimize, "optimize", true, "run the optimization passes before lowering")

	rootCmd.AddCommand(compileCmd, tickCmd, dotCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
