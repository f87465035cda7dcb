package form

import (
	"strings"

	"github.com/goliatone/go-formbind/pkg/validation"
)

// attributeErrors re-associates validator issues with the declared top-level
// attributes. Forms render one error slot per top-level field, so an issue
// reported for a nested path ("address.city", "tags.1") is attributed to its
// top-level ancestor; the first matching message wins. Messages whose path
// matches no declared attribute become form-level errors so they are not
// lost.
func attributeErrors(issues []validation.Issue, names []string) (map[string]string, []string) {
	if len(issues) == 0 {
		return nil, nil
	}

	fieldErrors := make(map[string]string, len(names))
	var formErrors []string

	for _, issue := range issues {
		message := strings.TrimSpace(issue.Message)
		if message == "" {
			continue
		}
		attribute, ok := attributeForPath(issue.Path, names)
		if !ok {
			formErrors = append(formErrors, message)
			continue
		}
		if _, taken := fieldErrors[attribute]; !taken {
			fieldErrors[attribute] = message
		}
	}
	return fieldErrors, dedupe(formErrors)
}

func attributeForPath(path string, names []string) (string, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", false
	}
	for _, name := range names {
		if trimmed == name || strings.HasPrefix(trimmed, name+".") || strings.HasPrefix(trimmed, name+"[") {
			return name, true
		}
	}
	return "", false
}

func dedupe(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		if _, exists := seen[message]; exists {
			continue
		}
		seen[message] = struct{}{}
		out = append(out, message)
	}
	return out
}
