// Package validation defines the collaborator a binder hands decoded trees
// to, plus a default schema-driven implementation performing type coercion,
// required-field enforcement, and constraint checking.
package validation

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Issue is one validation failure with the dotted path of the offending
// value ("address.city", "tags.1") and a human-readable message.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Validator accepts a decoded value tree and a schema descriptor. It returns
// the coerced values when the tree is valid, or the ordered list of issues
// when it is not. The error return is reserved for faults in the validator
// itself (a broken pattern, a nil schema), never for invalid user data.
type Validator interface {
	Validate(ctx context.Context, tree map[string]any, s schema.Schema) (map[string]any, []Issue, error)
}
