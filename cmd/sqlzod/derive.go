package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/cli"
	"github.com/hlop3z/sqlzod/internal/fingerprint"
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/sqlzod"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// derived is one validator produced for an entity in a mode.
type derived struct {
	Entity meta.Entity
	Mode   sqlzod.Mode
	Schema *z.Schema
}

// selectEntities resolves names against cat. No names selects everything.
func selectEntities(cat *meta.Catalog, names []string) ([]meta.Entity, error) {
	if len(names) == 0 {
		return cat.Entities(), nil
	}
	out := make([]meta.Entity, 0, len(names))
	for _, name := range names {
		e, ok := cat.Lookup(name)
		if !ok {
			err := alerr.Newf(alerr.ErrSchemaNotFound, "no table, view or enum named %q", name).WithEntity(name)
			if hint := alerr.SuggestSimilar(name, cat.Names()); hint != "" {
				err.WithHelp(hint)
			}
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// parseModes resolves the --mode flag; "all" yields nil.
func parseModes(flag string) ([]sqlzod.Mode, error) {
	if flag == "" || flag == "all" {
		return nil, nil
	}
	var modes []sqlzod.Mode
	for _, name := range strings.Split(flag, ",") {
		m, err := sqlzod.ParseMode(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// deriveAll derives validators for entities. Without explicit modes each
// entity gets every mode it supports. Explicitly named entities report
// unsupported modes as errors; otherwise those pairs are skipped.
func deriveAll(f *sqlzod.Factory, entities []meta.Entity, modes []sqlzod.Mode, named bool) ([]derived, error) {
	var out []derived
	for _, e := range entities {
		supported := fingerprint.Modes(e)
		want := modes
		if want == nil {
			want = supported
		}
		for _, m := range want {
			if !named && !slices.Contains(supported, m) {
				continue
			}
			s, err := f.Create(e, m, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, derived{Entity: e, Mode: m, Schema: s})
		}
	}
	return out, nil
}

// writeText prints validators grouped by entity, one field per line.
func writeText(w io.Writer, results []derived) {
	var last string
	for _, r := range results {
		name := r.Entity.QualifiedName()
		if name != last {
			if last != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s %s\n", cli.Entity(name), cli.Dim("["+r.Entity.EntityKind().String()+"]"))
			last = name
		}

		if r.Schema.Kind() != z.KindObject {
			fmt.Fprintf(w, "  %s %s\n", cli.Header(r.Mode.String()+":"), r.Schema)
			continue
		}
		fmt.Fprintf(w, "  %s\n", cli.Header(r.Mode.String()+":"))
		table := cli.NewTable("FIELD", "VALIDATOR")
		for key, field := range r.Schema.Shape().All() {
			table.AddRow(key, field.String())
		}
		fmt.Fprint(w, cli.Indent(table.String(), 4))
	}
}

// jsonDocument groups JSON Schemas by entity then mode.
func jsonDocument(results []derived) map[string]map[string]any {
	doc := make(map[string]map[string]any)
	for _, r := range results {
		name := r.Entity.QualifiedName()
		if doc[name] == nil {
			doc[name] = make(map[string]any)
		}
		doc[name][r.Mode.String()] = r.Schema.JSONSchema()
	}
	return doc
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// schemaFileName returns "<entity>.<mode>.schema.json".
func schemaFileName(r derived) string {
	return r.Entity.QualifiedName() + "." + r.Mode.String() + ".schema.json"
}

// writeSchemaFiles writes one JSON Schema file per validator into dir.
func writeSchemaFiles(dir string, results []derived) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "failed to create output directory").WithFile(dir, 0)
	}
	var written []string
	for _, r := range results {
		data, err := json.MarshalIndent(r.Schema.JSONSchema(), "", "  ")
		if err != nil {
			return nil, alerr.Wrap(alerr.EInternalError, err, "failed to encode JSON Schema").WithEntity(r.Entity.QualifiedName())
		}
		path := filepath.Join(dir, schemaFileName(r))
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return nil, alerr.Wrap(alerr.EInternalError, err, "failed to write JSON Schema").WithFile(path, 0)
		}
		written = append(written, path)
	}
	return written, nil
}
