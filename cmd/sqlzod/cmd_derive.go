package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/cli"
	"github.com/hlop3z/sqlzod/internal/loader"
	"github.com/hlop3z/sqlzod/pkg/sqlzod"
)

type deriveOptions struct {
	modes  string
	format string
	outDir string
	coerce string
	watch  bool
}

// deriveCmd prints or writes derived validators.
func deriveCmd() *cobra.Command {
	var opts deriveOptions

	cmd := &cobra.Command{
		Use:   "derive [entity...]",
		Short: "Print or write derived validators",
		Long: `Derive select, insert and update validators for every table, view and enum
in the schema, or only for the named entities.

Text output lists each field's validator. JSON output, and --out-dir, use
JSON Schema (draft 2020-12), one document per entity and mode.`,
		Example: `  # Show every validator
  sqlzod derive

  # Insert validator for one table, as JSON Schema
  sqlzod derive users --mode insert --format jsonschema

  # Regenerate JSON Schema files whenever schema documents change
  sqlzod derive --out-dir gen/schemas --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("coerce") {
				c, err := sqlzod.ParseCoerce(opts.coerce)
				if err != nil {
					return err
				}
				cfg.Coerce = c
			}
			if opts.outDir == "" {
				opts.outDir = cfg.OutDir
			}

			out := cmd.OutOrStdout()
			if !opts.watch {
				return runDerive(out, cfg, args, opts)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchDerive(ctx, out, cmd.ErrOrStderr(), cfg, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.modes, "mode", "m", "all", "Modes to derive: select, insert, update (comma-separated) or all")
	cmd.Flags().StringVarP(&opts.format, "format", "F", "text", "Output format: text or jsonschema")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Write one JSON Schema file per validator into this directory")
	cmd.Flags().StringVar(&opts.coerce, "coerce", "", "Coerced kinds: all, none, or a list such as date,number")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-derive when schema files change")
	return cmd
}

func runDerive(out io.Writer, cfg *Config, names []string, opts deriveOptions) error {
	modes, err := parseModes(opts.modes)
	if err != nil {
		return err
	}
	cat, err := cfg.loadCatalog()
	if err != nil {
		return err
	}
	entities, err := selectEntities(cat, names)
	if err != nil {
		return err
	}
	results, err := deriveAll(cfg.factory(), entities, modes, len(names) > 0)
	if err != nil {
		return err
	}

	if opts.outDir != "" {
		written, err := writeSchemaFiles(opts.outDir, results)
		if err != nil {
			return err
		}
		if cli.Default().IsJSON() {
			return writeJSON(out, map[string]any{"written": written})
		}
		fmt.Fprint(out, cli.FormatSuccess(fmt.Sprintf("wrote %s to %s",
			cli.FormatCount(len(written), "schema file", "schema files"), opts.outDir)))
		return nil
	}

	switch {
	case opts.format == "jsonschema" || cli.Default().IsJSON():
		return writeJSON(out, jsonDocument(results))
	case opts.format == "text":
		writeText(out, results)
		return nil
	default:
		return unknownFormatError(opts.format)
	}
}

// watchDerive re-runs derivation whenever a schema file changes, until ctx
// is canceled. Derivation errors are printed and watching continues.
func watchDerive(ctx context.Context, out, errOut io.Writer, cfg *Config, names []string, opts deriveOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchPaths(watcher, cfg.Schema); err != nil {
		return err
	}
	fmt.Fprintf(errOut, "  Watching: %s (Ctrl+C to stop)\n", cfg.Schema)

	rerun := func() {
		if err := runDerive(out, cfg, names, opts); err != nil {
			fmt.Fprint(errOut, cli.FormatError(err))
		}
	}
	rerun()

	// A burst of events within settle triggers a single re-derive.
	const settle = 150 * time.Millisecond
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchPaths(watcher, event.Name)
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && loader.IsSchemaFile(event.Name) {
				pending = time.After(settle)
			}
		case <-pending:
			pending = nil
			fmt.Fprintln(errOut, cli.Dim("  schema changed, re-deriving"))
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprint(errOut, cli.FormatWarning("file watcher: "+err.Error()))
		}
	}
}

// addWatchPaths watches path, or every directory under it.
func addWatchPaths(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Watch the parent directory; saving may replace the file.
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

// unknownFormatError reports a --format value derive does not produce.
func unknownFormatError(format string) error {
	formats := []string{"text", "jsonschema"}
	err := alerr.Newf(alerr.ErrInvalidConfig, "unknown format %q", format).
		With("format", format).
		WithHelp("use --format text or --format jsonschema")
	if hint := alerr.SuggestSimilar(format, formats); hint != "" {
		err.WithHelp(hint)
	}
	return err
}
