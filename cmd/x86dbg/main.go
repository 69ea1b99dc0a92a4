// Command x86dbg is an interactive front end for the core: it loads a
// flat real-mode image into memory at a chosen CS:IP and steps it one
// instruction at a time under operator control.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var origin uint16
	var model string

	root := &cobra.Command{
		Use:   "x86dbg [image]",
		Short: "Interactive real-mode x86 core debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModel(model)
			if err != nil {
				return err
			}
			img, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			sess := newSession(m, img, origin)
			return runREPL(sess)
		},
	}

	root.Flags().Uint16Var(&origin, "origin", 0x0100, "offset within CS to load the image at")
	root.Flags().StringVar(&model, "model", "8086", "cpu model: 8086, 286, or 386")

	root.AddCommand(newScriptCmd())
	return root
}

func parseModel(name string) (modelKind, error) {
	switch name {
	case "8086":
		return model8086, nil
	case "286":
		return model286, nil
	case "386":
		return model386, nil
	}
	return 0, fmt.Errorf("unknown model %q (want 8086, 286, or 386)", name)
}
