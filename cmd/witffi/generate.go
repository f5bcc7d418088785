package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/witffi"
	"github.com/wippyai/witffi/loader"
	"github.com/wippyai/witffi/rustgen"
	"github.com/wippyai/witffi/swiftgen"
)

var (
	generateWit    string
	generateWorld  string
	generateLang   string
	generateOutput string
	generateCfg    witffi.Config
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate FFI scaffolding for a WIT world",
	Long: `Generate FFI scaffolding for a WIT world.

Reads a WIT file (or a wasm-tools resolve JSON), selects a world, and
writes the paired artifacts into the output directory: ffi.rs for the
library crate and ffi.h for C callers.

Examples:
  witffi generate --wit api.wit --output src/
  witffi generate --wit api.wit --world payments --lang rust
  witffi generate --wit api.wit --c-prefix zcash_eip681 --c-type-prefix Ffi`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateWit, "wit", "w", "", "Path to the WIT file or resolve JSON (required)")
	generateCmd.Flags().StringVar(&generateWorld, "world", "", "World to generate (required when the file defines several)")
	generateCmd.Flags().StringVarP(&generateLang, "lang", "l", "rust", "Target language (rust or swift)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", ".", "Output directory")
	generateCmd.Flags().StringVar(&generateCfg.CPrefix, "c-prefix", "", "Symbol prefix for exported functions")
	generateCmd.Flags().StringVar(&generateCfg.CTypePrefix, "c-type-prefix", "", "Name prefix for generated C types")
	_ = generateCmd.MarkFlagRequired("wit")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	lang, err := witffi.ParseLanguage(generateLang)
	if err != nil {
		return err
	}

	res, err := loader.Load(generateWit)
	if err != nil {
		return err
	}
	world, err := loader.SelectWorld(res, generateWorld)
	if err != nil {
		return err
	}

	switch lang {
	case witffi.LanguageRust:
		gen, err := rustgen.New(world, rustConfig(generateCfg))
		if err != nil {
			return err
		}
		if err := gen.WriteArtifacts(generateOutput); err != nil {
			return err
		}
		fmt.Printf("Generated %s and %s for world %q in %s\n",
			rustgen.RustFileName, rustgen.HeaderFileName, world.Name, generateOutput)
		return nil
	case witffi.LanguageSwift:
		gen, err := swiftgen.New(world, swiftConfig(generateCfg))
		if err != nil {
			return err
		}
		return gen.WriteArtifacts(generateOutput)
	default:
		return fmt.Errorf("unsupported language: %s", lang)
	}
}
