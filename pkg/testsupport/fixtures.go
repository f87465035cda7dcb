// Package testsupport holds fixture and golden-file helpers shared by the
// contract tests. Helpers panic through *testing.T on failure to keep the
// tests themselves concise.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/formdata"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// MustReadFixture reads a fixture file and returns its raw bytes.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MustLoadSchema loads a JSON golden file into a schema descriptor.
func MustLoadSchema(t *testing.T, path string) schema.Schema {
	t.Helper()

	descriptor, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return descriptor
}

// LoadSchema reads a JSON fixture into a Schema, returning an error for
// callers managing setup outside of *testing.T.
func LoadSchema(path string) (schema.Schema, error) {
	if path == "" {
		return schema.Schema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	var out schema.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: unmarshal schema: %w", err)
	}
	return out, nil
}

// MustParseQuery builds submitted form data from a query string fixture.
func MustParseQuery(t *testing.T, query string) *formdata.Values {
	t.Helper()

	values, err := formdata.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	return values
}

// WriteGolden writes a value as indented JSON to a golden file when
// UPDATE_GOLDENS is set. Returns true if the golden was written (test should
// exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
