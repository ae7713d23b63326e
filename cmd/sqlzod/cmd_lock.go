package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqlzod/internal/cli"
	"github.com/hlop3z/sqlzod/internal/fingerprint"
	"github.com/hlop3z/sqlzod/internal/lockfile"
)

// currentFingerprint derives every validator in the configured schema and
// hashes the result.
func currentFingerprint(cfg *Config) (*fingerprint.CatalogHash, error) {
	cat, err := cfg.loadCatalog()
	if err != nil {
		return nil, err
	}
	return fingerprint.Compute(cfg.factory(), cat)
}

// lockCmd records validator fingerprints.
func lockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Record validator fingerprints in the lock file",
		Long: `Derive every validator and write its fingerprint to sqlzod.lock (or the
configured lock_file). Commit the lock file; 'sqlzod check' fails when a
schema change alters a validator without the lock being refreshed.`,
		Example: `  sqlzod lock`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			h, err := currentFingerprint(cfg)
			if err != nil {
				return err
			}
			if err := lockfile.Write(cfg.LockFile, h); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cli.Default().IsJSON() {
				return writeJSON(out, map[string]any{"lock_file": cfg.LockFile, "root": h.Root, "entities": len(h.Entities)})
			}
			fmt.Fprint(out, cli.FormatSuccess(fmt.Sprintf("locked %s in %s",
				cli.FormatCount(len(h.Entities), "entity", "entities"), cfg.LockFile)))
			fmt.Fprintln(out, cli.KeyValue("  root", h.Root))
			return nil
		},
	}
	return cmd
}

// checkCmd verifies validators against the lock file.
func checkCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail when validators drifted from the lock file",
		Long: `Derive every validator and compare its fingerprint with the lock file.
Changed fields are listed as mode.field under their entity.

Exit status is 0 when everything matches, 2 on drift and 1 on any other
error, so CI can tell drift from a broken schema.`,
		Example: `  # In CI
  sqlzod check

  # One-line status
  sqlzod check --quiet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			h, err := currentFingerprint(cfg)
			if err != nil {
				return err
			}
			result, err := lockfile.VerifyDetailed(cfg.LockFile, h)
			if err != nil {
				return err
			}
			if !result.LockFileExists {
				return lockfile.Verify(cfg.LockFile, h)
			}

			out := cmd.OutOrStdout()
			c := result.Comparison
			switch {
			case cli.Default().IsJSON():
				if err := writeJSON(out, c); err != nil {
					return err
				}
			case quiet:
				fmt.Fprintln(out, fingerprint.FormatQuickStatus(c.Match, c.ExpectedRoot, c.ActualRoot))
			default:
				fmt.Fprint(out, fingerprint.FormatComparison(c))
			}
			if c.Match {
				return nil
			}
			// Details are printed above; the error carries the exit status.
			if err := lockfile.Verify(cfg.LockFile, h); err != nil {
				return fmt.Errorf("%w: %w", errSilent, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print a one-line status")
	return cmd
}
