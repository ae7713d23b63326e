package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/cli"
	"github.com/hlop3z/sqlzod/pkg/sqlzod"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// validateCmd checks JSON input against a derived validator.
func validateCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "validate <entity> [file]",
		Short: "Check JSON input against a derived validator",
		Long: `Parse a JSON value, or a JSON array of values, with the validator derived
for an entity. Input is read from the file argument or, without one, stdin.

Every issue is reported with its field path. The command fails when any
value is invalid.`,
		Example: `  # Check an insert payload
  sqlzod validate users payload.json --mode insert

  # Check rows read from an API
  curl -s localhost:8080/users | sqlzod validate users`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sqlzod.ParseMode(mode)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := cfg.loadCatalog()
			if err != nil {
				return err
			}
			entities, err := selectEntities(cat, args[:1])
			if err != nil {
				return err
			}
			schema, err := cfg.factory().Create(entities[0], m, nil)
			if err != nil {
				return err
			}

			src := "stdin"
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 {
				data, err := os.ReadFile(args[1])
				if err != nil {
					return alerr.Wrap(alerr.ErrInputInvalid, err, "cannot read input file").WithFile(args[1], 0)
				}
				src = args[1]
				in = bytes.NewReader(data)
			}
			values, err := decodeValues(in, src)
			if err != nil {
				return err
			}
			return reportValidation(cmd.OutOrStdout(), schema, values)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "select", "Validator mode: select, insert or update")
	return cmd
}

// decodeValues reads one JSON value; a top-level array is split into its
// elements. Numbers stay json.Number so bigint validators see every digit.
func decodeValues(r io.Reader, src string) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, alerr.Wrap(alerr.ErrInputInvalid, err, "input is not valid JSON").WithFile(src, 0)
	}
	if arr, ok := v.([]any); ok {
		return arr, nil
	}
	return []any{v}, nil
}

// validationResult is the JSON form of one parsed value.
type validationResult struct {
	Index  int       `json:"index"`
	Valid  bool      `json:"valid"`
	Issues []z.Issue `json:"issues,omitempty"`
}

func reportValidation(out io.Writer, schema *z.Schema, values []any) error {
	results := make([]validationResult, 0, len(values))
	failed := 0
	for i, v := range values {
		_, err := schema.Parse(v)
		issues := z.IssuesOf(err)
		if err != nil && issues == nil {
			return err
		}
		if err != nil {
			failed++
		}
		results = append(results, validationResult{Index: i, Valid: err == nil, Issues: issues})
	}

	if cli.Default().IsJSON() {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				continue
			}
			if len(values) > 1 {
				fmt.Fprintf(out, "%s\n", cli.Header(fmt.Sprintf("value %d:", r.Index)))
			}
			fmt.Fprint(out, cli.FormatIssues(r.Issues))
		}
		if failed == 0 {
			fmt.Fprint(out, cli.FormatSuccess(fmt.Sprintf("%s valid", cli.FormatCount(len(values), "value", "values"))))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d values failed validation: %w", failed, len(values), errSilent)
	}
	return nil
}
