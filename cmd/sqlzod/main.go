// Package main provides the sqlzod CLI. It derives runtime validators from
// YAML schema documents or a live database and guards them with a lock file.
//
// Usage:
//
//	sqlzod derive [entity...]         # Print or write derived validators
//	sqlzod derive --watch             # Re-derive when schema files change
//	sqlzod validate <entity> [file]   # Check JSON input against a validator
//	sqlzod inspect -d <url>           # Write a schema document from a database
//	sqlzod lock                       # Record validator fingerprints
//	sqlzod check                      # Fail when validators drifted from the lock
//	sqlzod kinds [dialect]            # List column kinds and their validators
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/cli"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	configFile  string
	databaseURL string
	schemaPath  string
	outputMode  string
)

// errSilent marks a failure whose details were already printed.
var errSilent = errors.New("silent failure")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sqlzod",
		Short:         "Derive runtime validators from relational schemas",
		Long:          `sqlzod derives select, insert and update validators from table, view and enum definitions, so API input is checked against the same rules the database enforces.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputMode {
			case "", "auto":
			case "plain":
				cli.SetDefault(cli.Default().WithMode(cli.ModePlain))
			case "json":
				cli.SetDefault(cli.Default().WithMode(cli.ModeJSON))
			default:
				return alerr.Newf(alerr.ErrInvalidConfig, "unknown output mode %q", outputMode).
					WithHelp("use auto, plain or json")
			}
			return nil
		},
	}

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "sqlzod.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Schema document or directory")
	rootCmd.PersistentFlags().StringVarP(&outputMode, "output", "o", "auto", "Output mode: auto, plain or json")

	rootCmd.AddCommand(
		deriveCmd(),
		validateCmd(),
		inspectCmd(),
		lockCmd(),
		checkCmd(),
		kindsCmd(),
	)
	return rootCmd
}

// normalizeFlagName accepts config-file spellings such as --out_dir.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprint(os.Stderr, cli.FormatError(err))
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps lock drift to 2 so CI can tell drift from broken input.
func exitCode(err error) int {
	if alerr.Is(err, alerr.ErrLockMismatch) {
		return 2
	}
	return 1
}
