package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/witffi"
	"github.com/wippyai/witffi/loader"
	"github.com/wippyai/witffi/rustgen"
)

var (
	inspectWit         string
	inspectWorld       string
	inspectInteractive bool
	inspectCfg         witffi.Config
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how a world's exports lower to C",
	Long: `Show how a world's exports lower to C.

Runs the same analysis as generate and prints every exported function
with its C symbol, lowered signature, and the caller's release
obligation, plus every generated type.

Examples:
  witffi inspect --wit api.wit
  witffi inspect --wit api.wit --world payments
  witffi inspect --wit api.wit -i`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectWit, "wit", "w", "", "Path to the WIT file or resolve JSON (required)")
	inspectCmd.Flags().StringVar(&inspectWorld, "world", "", "World to inspect (required when the file defines several)")
	inspectCmd.Flags().BoolVarP(&inspectInteractive, "interactive", "i", false, "Interactive browser")
	inspectCmd.Flags().StringVar(&inspectCfg.CPrefix, "c-prefix", "", "Symbol prefix for exported functions")
	inspectCmd.Flags().StringVar(&inspectCfg.CTypePrefix, "c-type-prefix", "", "Name prefix for generated C types")
	_ = inspectCmd.MarkFlagRequired("wit")
}

func runInspect(cmd *cobra.Command, args []string) error {
	gen, err := analyze()
	if err != nil {
		return err
	}

	if inspectInteractive {
		return runBrowser(inspectWit, gen)
	}

	fmt.Printf("World: %s\n", gen.WorldName())
	fmt.Printf("Trait: %s\n\n", gen.TraitName())

	fmt.Println("Exported functions:")
	for _, f := range gen.Functions() {
		origin := f.Name
		if f.Interface != "" {
			origin = f.Interface + "." + f.Name
		}
		fmt.Printf("  %s\n", origin)
		fmt.Printf("    C:     %s\n", f.CSignature)
		fmt.Printf("    Rust:  %s::%s\n", gen.TraitName(), f.Method)
		fmt.Printf("    Owns:  %s\n", f.Ownership)
		fmt.Printf("    Fails: %s\n\n", f.ErrorMode)
	}

	types := gen.Types()
	if len(types) == 0 {
		return nil
	}
	fmt.Println("Generated types:")
	for _, t := range types {
		line := fmt.Sprintf("  %-10s %s  (%s, %s", t.Kind, t.CName, t.Source, t.Ownership)
		if t.FreeFunc != "" {
			line += ", free: " + t.FreeFunc
		}
		fmt.Println(line + ")")
	}
	return nil
}

func analyze() (*rustgen.Generator, error) {
	res, err := loader.Load(inspectWit)
	if err != nil {
		return nil, err
	}
	world, err := loader.SelectWorld(res, inspectWorld)
	if err != nil {
		return nil, err
	}
	return rustgen.New(world, rustConfig(inspectCfg))
}

func formatOrigin(f rustgen.FunctionInfo) string {
	if f.Interface == "" {
		return f.Name
	}
	return f.Interface + "." + f.Name
}

func matchesFilter(f rustgen.FunctionInfo, filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	return strings.Contains(strings.ToLower(formatOrigin(f)), filter) ||
		strings.Contains(strings.ToLower(f.Symbol), filter)
}
