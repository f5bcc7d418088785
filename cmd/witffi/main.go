package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/witffi"
	"github.com/wippyai/witffi/rustgen"
	"github.com/wippyai/witffi/swiftgen"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "witffi",
	Short: "Generate C FFI scaffolding from WIT worlds",
	Long: `witffi reads a WIT world and generates matched FFI scaffolding:
a Rust source file with a capability trait and exported C wrappers,
and the C header that declares the same surface.

Available commands:
  generate - Generate scaffolding artifacts for a world
  inspect  - Show how a world's exports lower to C

Examples:
  witffi generate --wit api.wit --output src/
  witffi generate --wit api.wit --c-prefix zcash_eip681
  witffi inspect --wit api.wit
  witffi inspect --wit api.wit -i   (interactive browser)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeat for more)")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
}

// setupLogging builds a console logger when stderr is a terminal and
// a JSON logger otherwise, then hands it to the library packages.
func setupLogging() error {
	var cfg zap.Config
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	switch verbosity {
	case 0:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case 1:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	rustgen.SetLogger(log.Named("rustgen"))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rustConfig(c witffi.Config) rustgen.Config {
	return rustgen.Config{CPrefix: c.CPrefix, CTypePrefix: c.CTypePrefix}
}

func swiftConfig(c witffi.Config) swiftgen.Config {
	return swiftgen.Config{CPrefix: c.CPrefix, CTypePrefix: c.CTypePrefix}
}
