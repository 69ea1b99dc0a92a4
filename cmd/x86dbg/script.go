package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/x86core"
	"github.com/intuitionamiga/x86core/internal/x86script"
)

func newScriptCmd() *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "script [file.lua]",
		Short: "Run a scenario script against the core and report failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModel(model)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}
			h := x86script.NewHarness(coreModelFor(m))
			defer h.Close()
			if err := h.Run(string(src)); err != nil {
				return fmt.Errorf("script error: %w", err)
			}
			if len(h.Failures) == 0 {
				fmt.Println("all assertions passed")
				return nil
			}
			for _, f := range h.Failures {
				fmt.Println("FAIL:", f)
			}
			return fmt.Errorf("%d assertion(s) failed", len(h.Failures))
		},
	}
	cmd.Flags().StringVar(&model, "model", "8086", "cpu model: 8086, 286, or 386")
	return cmd
}

func coreModelFor(m modelKind) x86core.Model { return m.coreModel() }
