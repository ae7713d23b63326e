package alerr

import (
	"errors"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Constructor Tests
// -----------------------------------------------------------------------------

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    Code
		message string
	}{
		{
			name:    "schema error",
			code:    ErrSchemaInvalid,
			message: "schema is invalid",
		},
		{
			name:    "refinement error",
			code:    ErrUnknownRefinementKey,
			message: "unknown refinement key",
		},
		{
			name:    "introspection error",
			code:    ErrIntrospection,
			message: "introspection failed",
		},
		{
			name:    "SQL error",
			code:    ErrSQLExecution,
			message: "SQL statement failed",
		},
		{
			name:    "lock error",
			code:    ErrLockMismatch,
			message: "lock file is stale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)
			if err == nil {
				t.Fatal("expected non-nil error")
			}
			if err.GetCode() != tt.code {
				t.Errorf("code = %v, want %v", err.GetCode(), tt.code)
			}
			if err.GetMessage() != tt.message {
				t.Errorf("message = %v, want %v", err.GetMessage(), tt.message)
			}
			if err.GetCause() != nil {
				t.Error("expected nil cause for New()")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wrap existing error", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := Wrap(ErrSQLExecution, cause, "failed to execute query")

		if err.GetCode() != ErrSQLExecution {
			t.Errorf("code = %v, want %v", err.GetCode(), ErrSQLExecution)
		}
		if err.GetCause() != cause {
			t.Error("cause should be the wrapped error")
		}
		if err.GetMessage() != "failed to execute query" {
			t.Errorf("message = %v, want %v", err.GetMessage(), "failed to execute query")
		}
	})

	t.Run("wrap nil error behaves like New", func(t *testing.T) {
		err := Wrap(ErrSchemaInvalid, nil, "schema error")

		if err.GetCode() != ErrSchemaInvalid {
			t.Errorf("code = %v, want %v", err.GetCode(), ErrSchemaInvalid)
		}
		if err.GetCause() != nil {
			t.Error("cause should be nil when wrapping nil")
		}
	})
}

// -----------------------------------------------------------------------------
// Context Builder Tests
// -----------------------------------------------------------------------------

func TestWith(t *testing.T) {
	err := New(ErrSchemaInvalid, "invalid schema").
		With("key1", "value1").
		With("key2", 42).
		With("key3", true)

	ctx := err.GetContext()
	if ctx["key1"] != "value1" {
		t.Errorf("key1 = %v, want %v", ctx["key1"], "value1")
	}
	if ctx["key2"] != 42 {
		t.Errorf("key2 = %v, want %v", ctx["key2"], 42)
	}
	if ctx["key3"] != true {
		t.Errorf("key3 = %v, want %v", ctx["key3"], true)
	}
}

func TestWithTable(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		table     string
		want      string
	}{
		{
			name:      "with namespace",
			namespace: "auth",
			table:     "users",
			want:      "auth.users",
		},
		{
			name:      "without namespace",
			namespace: "",
			table:     "users",
			want:      "users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(ErrSchemaInvalid, "invalid table").
				WithTable(tt.namespace, tt.table)

			ctx := err.GetContext()
			if ctx["table"] != tt.want {
				t.Errorf("table = %v, want %v", ctx["table"], tt.want)
			}
		})
	}
}

func TestWithColumn(t *testing.T) {
	err := New(ErrSchemaInvalid, "invalid column").
		WithColumn("user_name")

	ctx := err.GetContext()
	if ctx["column"] != "user_name" {
		t.Errorf("column = %v, want %v", ctx["column"], "user_name")
	}
}

func TestWithSQL(t *testing.T) {
	sql := "SELECT * FROM users WHERE id = $1"
	err := New(ErrSQLExecution, "query failed").
		WithSQL(sql)

	ctx := err.GetContext()
	if ctx["sql"] != sql {
		t.Errorf("sql = %v, want %v", ctx["sql"], sql)
	}
}

func TestWithFile(t *testing.T) {
	t.Run("with line number", func(t *testing.T) {
		err := New(ErrSchemaInvalid, "syntax error").
			WithFile("schema/auth/users.yaml", 42)

		ctx := err.GetContext()
		if ctx["file"] != "schema/auth/users.yaml" {
			t.Errorf("file = %v, want %v", ctx["file"], "schema/auth/users.yaml")
		}
		if ctx["line"] != 42 {
			t.Errorf("line = %v, want %v", ctx["line"], 42)
		}
	})

	t.Run("without line number", func(t *testing.T) {
		err := New(ErrSchemaInvalid, "file error").
			WithFile("schema/auth/users.yaml", 0)

		ctx := err.GetContext()
		if ctx["file"] != "schema/auth/users.yaml" {
			t.Errorf("file = %v, want %v", ctx["file"], "schema/auth/users.yaml")
		}
		if _, exists := ctx["line"]; exists {
			t.Error("line should not be set when 0")
		}
	})
}

// -----------------------------------------------------------------------------
// Error Output Format Tests
// -----------------------------------------------------------------------------

func TestErrorFormat(t *testing.T) {
	t.Run("basic error format", func(t *testing.T) {
		err := New(ErrUnsupportedEntityKind, "cannot derive insert validator from view")
		errStr := err.Error()

		if !strings.HasPrefix(errStr, "[E2002]") {
			t.Errorf("error should start with code, got: %s", errStr)
		}
		if !strings.Contains(errStr, "cannot derive insert validator from view") {
			t.Errorf("error should contain message, got: %s", errStr)
		}
	})

	t.Run("error with context", func(t *testing.T) {
		err := New(ErrUnknownRefinementKey, "unknown refinement key").
			WithTable("auth", "users").
			With("got", "emial").
			With("want", "email")

		errStr := err.Error()

		// Check code and message
		if !strings.Contains(errStr, "[E2001]") {
			t.Errorf("error should contain code, got: %s", errStr)
		}
		// Check context values are present
		if !strings.Contains(errStr, "table: auth.users") {
			t.Errorf("error should contain table context, got: %s", errStr)
		}
		if !strings.Contains(errStr, "got: emial") {
			t.Errorf("error should contain 'got' context, got: %s", errStr)
		}
		if !strings.Contains(errStr, "want: email") {
			t.Errorf("error should contain 'want' context, got: %s", errStr)
		}
	})

	t.Run("error with cause", func(t *testing.T) {
		cause := errors.New("connection timeout")
		err := Wrap(ErrSQLConnection, cause, "failed to connect")

		errStr := err.Error()
		if !strings.Contains(errStr, "cause: connection timeout") {
			t.Errorf("error should contain cause, got: %s", errStr)
		}
	})

	t.Run("context keys are sorted", func(t *testing.T) {
		err := New(ErrSchemaInvalid, "test").
			With("zebra", 1).
			With("alpha", 2).
			With("middle", 3)

		errStr := err.Error()
		alphaIdx := strings.Index(errStr, "alpha:")
		middleIdx := strings.Index(errStr, "middle:")
		zebraIdx := strings.Index(errStr, "zebra:")

		if alphaIdx == -1 || middleIdx == -1 || zebraIdx == -1 {
			t.Fatalf("expected all keys to be present, got: %s", errStr)
		}
		if !(alphaIdx < middleIdx && middleIdx < zebraIdx) {
			t.Errorf("context keys should be sorted alphabetically, got: %s", errStr)
		}
	})
}

// -----------------------------------------------------------------------------
// Is() and errors.Is() Tests
// -----------------------------------------------------------------------------

func TestIs(t *testing.T) {
	t.Run("same code matches", func(t *testing.T) {
		err1 := New(ErrSchemaInvalid, "first error")
		err2 := New(ErrSchemaInvalid, "second error with same code")

		if !err1.Is(err2) {
			t.Error("errors with same code should match")
		}
	})

	t.Run("different codes do not match", func(t *testing.T) {
		err1 := New(ErrSchemaInvalid, "schema error")
		err2 := New(ErrLockMismatch, "lock error")

		if err1.Is(err2) {
			t.Error("errors with different codes should not match")
		}
	})

	t.Run("nil target does not match", func(t *testing.T) {
		err := New(ErrSchemaInvalid, "error")
		if err.Is(nil) {
			t.Error("error should not match nil")
		}
	})

	t.Run("non-alerr error does not match", func(t *testing.T) {
		err := New(ErrSchemaInvalid, "sqlzod error")
		stdErr := errors.New("standard error")

		if err.Is(stdErr) {
			t.Error("sqlzod error should not match standard error")
		}
	})
}

func TestErrorsIsCompatibility(t *testing.T) {
	t.Run("errors.Is finds wrapped error", func(t *testing.T) {
		cause := errors.New("original error")
		wrapped := Wrap(ErrSQLExecution, cause, "wrapped")

		if !errors.Is(wrapped, cause) {
			t.Error("errors.Is should find the wrapped cause")
		}
	})

	t.Run("errors.Is works with code matching", func(t *testing.T) {
		err1 := New(ErrSchemaInvalid, "error 1")
		err2 := New(ErrSchemaInvalid, "error 2")

		if !errors.Is(err1, err2) {
			t.Error("errors.Is should match errors with same code")
		}
	})
}

// -----------------------------------------------------------------------------
// GetErrorCode Tests
// -----------------------------------------------------------------------------

func TestGetErrorCode(t *testing.T) {
	t.Run("extract code from alerr.Error", func(t *testing.T) {
		err := New(ErrInvalidRefinement, "conflict")
		code := GetErrorCode(err)

		if code != ErrInvalidRefinement {
			t.Errorf("code = %v, want %v", code, ErrInvalidRefinement)
		}
	})

	t.Run("extract code from wrapped error chain", func(t *testing.T) {
		inner := New(ErrSQLExecution, "inner")
		outer := Wrap(ErrIntrospection, inner, "outer")

		// GetErrorCode should find the outermost alerr code
		code := GetErrorCode(outer)
		if code != ErrIntrospection {
			t.Errorf("code = %v, want %v", code, ErrIntrospection)
		}
	})

	t.Run("return empty for nil error", func(t *testing.T) {
		code := GetErrorCode(nil)
		if code != "" {
			t.Errorf("code = %v, want empty string", code)
		}
	})

	t.Run("return empty for non-alerr error", func(t *testing.T) {
		stdErr := errors.New("standard error")
		code := GetErrorCode(stdErr)

		if code != "" {
			t.Errorf("code = %v, want empty string", code)
		}
	})
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "matching code",
			err:  New(ErrSchemaInvalid, "test"),
			code: ErrSchemaInvalid,
			want: true,
		},
		{
			name: "non-matching code",
			err:  New(ErrSchemaInvalid, "test"),
			code: ErrLockRead,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrSchemaInvalid,
			want: false,
		},
		{
			name: "standard error",
			err:  errors.New("standard"),
			code: ErrSchemaInvalid,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Is(tt.err, tt.code)
			if got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Error Code Categories Tests
// -----------------------------------------------------------------------------

func TestErrorCodeCategories(t *testing.T) {
	// Verify error codes follow the expected format E{category}xxx
	categories := []struct {
		name   string
		prefix string
		codes  []Code
	}{
		{"schema", "E1", []Code{ErrSchemaInvalid, ErrSchemaNotFound}},
		{"derivation", "E2", []Code{ErrUnknownRefinementKey, ErrUnsupportedEntityKind, ErrInvalidRefinement, ErrInvalidConfig}},
		{"SQL", "E4", []Code{ErrSQLExecution, ErrSQLConnection}},
		{"introspection", "E6", []Code{ErrIntrospection, EUnsupportedDialect}},
		{"lock", "E8", []Code{ErrLockRead, ErrLockWrite, ErrLockMismatch}},
		{"internal", "E9", []Code{EInternalError}},
	}

	seen := make(map[Code]bool)
	for _, c := range categories {
		for _, code := range c.codes {
			if !strings.HasPrefix(string(code), c.prefix) {
				t.Errorf("%s error %v should start with %s", c.name, code, c.prefix)
			}
			if seen[code] {
				t.Errorf("code %v is used twice", code)
			}
			seen[code] = true
		}
	}
}

// -----------------------------------------------------------------------------
// Method Chaining Tests
// -----------------------------------------------------------------------------

func TestMethodChaining(t *testing.T) {
	// Verify that all context methods return the error for chaining
	err := New(ErrSchemaInvalid, "test").
		With("key", "value").
		WithTable("ns", "table").
		WithColumn("col").
		WithSQL("SELECT 1").
		WithFile("schema.yaml", 10)

	ctx := err.GetContext()
	if len(ctx) != 6 { // key, table, column, sql, file, line
		t.Errorf("expected 6 context entries, got %d", len(ctx))
	}
}

// -----------------------------------------------------------------------------
// Unwrap Tests
// -----------------------------------------------------------------------------

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrSQLExecution, cause, "wrapper")

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

// -----------------------------------------------------------------------------
// Constructor Helper Tests
// -----------------------------------------------------------------------------

func TestWithPath(t *testing.T) {
	err := New(ErrInvalidRefinement, "bad").WithPath([]string{"author", "name"})
	if got := err.GetContext()["path"]; got != "author.name" {
		t.Errorf("path = %v, want author.name", got)
	}

	root := New(ErrInvalidRefinement, "bad").WithPath(nil)
	if _, ok := root.GetContext()["path"]; ok {
		t.Error("empty path should not be recorded")
	}
}

func TestNewUnknownRefinementKeyError(t *testing.T) {
	known := []string{"id", "email", "name"}

	t.Run("close match gets a hint", func(t *testing.T) {
		err := NewUnknownRefinementKeyError("public.users", nil, "emial", known)
		if err.GetCode() != ErrUnknownRefinementKey {
			t.Errorf("code = %v, want %v", err.GetCode(), ErrUnknownRefinementKey)
		}
		ctx := err.GetContext()
		if ctx["entity"] != "public.users" || ctx["key"] != "emial" {
			t.Errorf("context = %v", ctx)
		}
		helps := err.Helps()
		if len(helps) != 1 || helps[0] != "did you mean 'email'?" {
			t.Errorf("helps = %v", helps)
		}
	})

	t.Run("no match lists known fields", func(t *testing.T) {
		err := NewUnknownRefinementKeyError("public.users", []string{"profile"}, "zzzzzzzz", known)
		if len(err.Helps()) != 0 {
			t.Errorf("unexpected helps %v", err.Helps())
		}
		notes := err.Notes()
		if len(notes) != 1 || notes[0] != "known fields: email, id, name" {
			t.Errorf("notes = %v", notes)
		}
		if err.GetContext()["path"] != "profile" {
			t.Errorf("path = %v, want profile", err.GetContext()["path"])
		}
	})
}

func TestNewUnsupportedEntityError(t *testing.T) {
	err := NewUnsupportedEntityError("public.active_users", "view", "insert")
	if !Is(err, ErrUnsupportedEntityKind) {
		t.Fatalf("code = %v", err.GetCode())
	}
	if !strings.Contains(err.Error(), "cannot derive insert validator from view") {
		t.Errorf("message = %s", err.Error())
	}
}

func TestNewUnknownDialectError(t *testing.T) {
	err := NewUnknownDialectError("postgress", []string{"postgresql", "mysql", "sqlite"})
	if !Is(err, EUnsupportedDialect) {
		t.Fatalf("code = %v", err.GetCode())
	}
	if helps := err.Helps(); len(helps) != 1 || helps[0] != "did you mean 'postgresql'?" {
		t.Errorf("helps = %v", helps)
	}
}
