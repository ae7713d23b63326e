package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/internal/loader"
	"github.com/hlop3z/sqlzod/internal/lockfile"
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/sqlzod"
)

// Config represents the sqlzod.yaml configuration file.
type Config struct {
	Schema      string        `yaml:"schema"`
	DatabaseURL string        `yaml:"database_url"`
	Dialect     string        `yaml:"dialect"`
	OutDir      string        `yaml:"out_dir"`
	LockFile    string        `yaml:"lock_file"`
	Coerce      sqlzod.Coerce `yaml:"coerce"`
}

const defaultSchemaPath = "./schema"

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		Schema:   defaultSchemaPath,
		LockFile: lockfile.DefaultPath(),
	}

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, alerr.Wrap(alerr.ErrInvalidConfig, err, "failed to parse config file").WithFile(configFile, 0)
		}
		cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	case !os.IsNotExist(err):
		return nil, alerr.Wrap(alerr.ErrInvalidConfig, err, "failed to read config file").WithFile(configFile, 0)
	}

	if envURL := os.Getenv("DATABASE_URL"); envURL != "" {
		cfg.DatabaseURL = envURL
	}
	if envSchema := os.Getenv("SQLZOD_SCHEMA"); envSchema != "" {
		cfg.Schema = envSchema
	}

	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if schemaPath != "" {
		cfg.Schema = schemaPath
	}

	if cfg.Dialect != "" {
		if _, err := meta.ParseDialect(cfg.Dialect); err != nil {
			return nil, alerr.NewUnknownDialectError(cfg.Dialect, dialect.Names()).WithFile(configFile, 0)
		}
	}
	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// dialect returns the configured dialect, or "" to detect it.
func (c *Config) dialect() meta.Dialect {
	d, _ := meta.ParseDialect(c.Dialect)
	return d
}

// factory returns the schema factory for the configured coercion.
func (c *Config) factory() *sqlzod.Factory {
	return sqlzod.CreateSchemaFactory(sqlzod.Config{Coerce: c.Coerce})
}

// loadCatalog reads the configured schema documents.
func (c *Config) loadCatalog() (*meta.Catalog, error) {
	if _, err := os.Stat(c.Schema); os.IsNotExist(err) {
		return nil, alerr.New(alerr.ErrSchemaNotFound, "schema path not found").
			WithFile(c.Schema, 0).
			WithHelp("pass --schema, set SQLZOD_SCHEMA, or set 'schema' in sqlzod.yaml").
			WithHelp("or create one from a database: sqlzod inspect -d <url> -f schema/schema.yaml")
	}
	return loader.Load(c.Schema)
}
