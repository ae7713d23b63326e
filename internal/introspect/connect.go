package introspect

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// DetectDialect determines the dialect family from a database URL.
//
// Detection rules:
//   - postgres:// or postgresql:// -> postgres
//   - cockroach:// or cockroachdb:// -> cockroach
//   - mysql:// or a go-sql-driver DSN containing "@tcp(" -> mysql
//   - singlestore:// -> singlestore
//   - sqlite:// or file: or path ending with .db/.sqlite/.sqlite3 -> sqlite
func DetectDialect(rawURL string) (meta.Dialect, bool) {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return meta.Postgres, true
	case strings.HasPrefix(u, "cockroach://"), strings.HasPrefix(u, "cockroachdb://"):
		return meta.Cockroach, true
	case strings.HasPrefix(u, "mysql://"), strings.Contains(u, "@tcp("), strings.Contains(u, "@unix("):
		return meta.MySQL, true
	case strings.HasPrefix(u, "singlestore://"), strings.HasPrefix(u, "memsql://"):
		return meta.SingleStore, true
	case strings.HasPrefix(u, "sqlite://"), strings.HasPrefix(u, "sqlite3://"),
		strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"):
		return meta.SQLite, true
	case strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"), strings.HasSuffix(u, ".sqlite3"):
		return meta.SQLite, true
	}
	return "", false
}

// Open connects to the database at rawURL and verifies the connection.
// d overrides dialect detection when non-empty. Callers own the returned
// handle.
func Open(ctx context.Context, rawURL string, d meta.Dialect) (*sql.DB, meta.Dialect, error) {
	if d == "" {
		detected, ok := DetectDialect(rawURL)
		if !ok {
			return nil, "", alerr.New(alerr.EUnsupportedDialect, "cannot detect dialect from database URL").
				With("url", RedactURL(rawURL)).
				WithHelp("use a postgres://, mysql:// or sqlite: URL, or set the dialect explicitly")
		}
		d = detected
	}

	driverName, dsn, err := driverDSN(rawURL, d)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, "", alerr.Wrap(alerr.ErrSQLConnection, err, "cannot open database").With("url", RedactURL(rawURL))
	}
	if d == meta.SQLite {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", alerr.Wrap(alerr.ErrSQLConnection, err, "cannot connect to database").
			With("url", RedactURL(rawURL)).
			With("dialect", string(d))
	}
	return db, d, nil
}

// driverDSN maps a URL to a registered driver name and its DSN.
func driverDSN(rawURL string, d meta.Dialect) (string, string, error) {
	switch d {
	case meta.Postgres, meta.Cockroach:
		return "postgres", postgresDSN(rawURL), nil
	case meta.MySQL, meta.SingleStore:
		dsn, err := MySQLDSN(rawURL)
		if err != nil {
			return "", "", err
		}
		return "mysql", dsn, nil
	case meta.SQLite:
		return "sqlite", SQLitePath(rawURL), nil
	}
	return "", "", alerr.Newf(alerr.EUnsupportedDialect, "live introspection does not support %s", d).
		WithHelp("introspect postgres, cockroach, mysql, singlestore or sqlite")
}

// postgresDSN rewrites CockroachDB schemes so lib/pq accepts them.
func postgresDSN(rawURL string) string {
	for _, scheme := range []string{"cockroachdb://", "cockroach://"} {
		if strings.HasPrefix(strings.ToLower(rawURL), scheme) {
			return "postgres://" + rawURL[len(scheme):]
		}
	}
	return rawURL
}

// MySQLDSN converts a mysql:// URL into a go-sql-driver DSN. A value that
// is already a DSN is validated and normalized.
func MySQLDSN(rawURL string) (string, error) {
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "mysql://") && !strings.HasPrefix(lower, "singlestore://") && !strings.HasPrefix(lower, "memsql://") {
		cfg, err := mysql.ParseDSN(rawURL)
		if err != nil {
			return "", alerr.Wrap(alerr.ErrSQLConnection, err, "invalid mysql dsn").With("url", RedactURL(rawURL))
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", alerr.Wrap(alerr.ErrSQLConnection, err, "invalid mysql url").With("url", RedactURL(rawURL))
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" && u.Hostname() != "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), "3306")
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

// SQLitePath converts a sqlite URL to a file path, or returns the path
// as-is. Query parameters such as ?mode=ro pass through to the driver.
func SQLitePath(rawURL string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(strings.ToLower(rawURL), prefix) {
			return rawURL[len(prefix):]
		}
	}
	return rawURL
}

// RedactURL removes the password from a database URL for display.
func RedactURL(rawURL string) string {
	// Pattern: ://user:password@ or, for DSNs, user:password@tcp(
	start := strings.Index(rawURL, "://")
	if start == -1 {
		start = 0
	} else {
		start += 3
	}

	end := strings.LastIndex(rawURL, "@")
	if end == -1 || end < start {
		return rawURL
	}

	credentials := rawURL[start:end]
	if colon := strings.Index(credentials, ":"); colon != -1 {
		return rawURL[:start] + credentials[:colon] + ":***@" + rawURL[end+1:]
	}
	return rawURL
}
