package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/classify"
	"github.com/hlop3z/sqlzod/internal/cli"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// kindRow is one kind and its base validator in a dialect.
type kindRow struct {
	Dialect   string `json:"dialect"`
	Kind      string `json:"kind"`
	Mode      string `json:"mode,omitempty"`
	Validator string `json:"validator"`
}

// kindsCmd lists the column kinds each dialect classifies.
func kindsCmd() *cobra.Command {
	var typeDecl string

	cmd := &cobra.Command{
		Use:   "kinds [dialect]",
		Short: "List column kinds and their base validators",
		Long: `List every canonical column kind of a dialect with the validator it maps
to before nullability and refinements are applied. Without a dialect,
every supported dialect is listed.

--type classifies one declared column type instead.`,
		Example: `  # Every dialect
  sqlzod kinds

  # One dialect
  sqlzod kinds mysql

  # A declared type
  sqlzod kinds postgres --type "varchar(20)[]"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialects := dialect.All()
			if len(args) == 1 {
				d := dialect.Get(args[0])
				if d == nil {
					return alerr.NewUnknownDialectError(args[0], dialect.Names())
				}
				dialects = []dialect.Dialect{d}
			}

			var rows []kindRow
			if typeDecl != "" {
				for _, d := range dialects {
					row, err := classifyDecl(d, typeDecl)
					if err != nil {
						return err
					}
					rows = append(rows, row)
				}
			} else {
				for _, d := range dialects {
					rows = append(rows, dialectKinds(d)...)
				}
			}

			out := cmd.OutOrStdout()
			if cli.Default().IsJSON() {
				return writeJSON(out, rows)
			}
			writeKinds(out, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeDecl, "type", "t", "", "Classify a declared column type")
	return cmd
}

// dialectKinds classifies every canonical kind of d.
func dialectKinds(d dialect.Dialect) []kindRow {
	kinds := d.Kinds()
	rows := make([]kindRow, 0, len(kinds))
	for _, k := range kinds {
		col := &meta.Column{Kind: k}
		_, col.Mode = d.Canonical(k)
		rows = append(rows, kindRow{
			Dialect:   string(d.Name()),
			Kind:      k,
			Mode:      col.Mode,
			Validator: classify.Classify(col, d.Name()).String(),
		})
	}
	return rows
}

// classifyDecl parses a declared type in d and classifies it.
func classifyDecl(d dialect.Dialect, decl string) (kindRow, error) {
	col, err := dialect.ParseType(d, decl)
	if err != nil {
		return kindRow{}, alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column type").
			With("type", decl).
			With("dialect", string(d.Name()))
	}
	return kindRow{
		Dialect:   string(d.Name()),
		Kind:      col.Kind,
		Mode:      col.Mode,
		Validator: classify.Classify(col, d.Name()).String(),
	}, nil
}

// writeKinds prints one table per dialect.
func writeKinds(w io.Writer, rows []kindRow) {
	var table *cli.Table
	var current string
	flush := func() {
		if table != nil {
			fmt.Fprint(w, cli.Indent(table.String(), 2))
		}
	}
	for _, r := range rows {
		if r.Dialect != current {
			flush()
			if current != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, cli.Header(r.Dialect))
			table = cli.NewTable("KIND", "MODE", "VALIDATOR")
			current = r.Dialect
		}
		table.AddRow(r.Kind, r.Mode, r.Validator)
	}
	flush()
}
