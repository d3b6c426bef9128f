// Package template materializes shell commands from rule templates.
// A template is an opaque string containing {field} placeholders that are
// replaced with the corresponding request field values.
package template

import (
	"regexp"

	"github.com/arthur-debert/testpilot/pkg/errors"
)

var placeholderRe = regexp.MustCompile(`\{\s*([a-zA-Z][a-zA-Z0-9_]*)\s*\}`)

// Resolve substitutes every {field} placeholder in the template with the
// matching request field value. A placeholder referencing a field absent
// from the request is an error, reported with the field name.
func Resolve(template string, fields map[string]string) (string, error) {
	var missing string
	resolved := placeholderRe.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := placeholderRe.FindStringSubmatch(placeholder)[1]
		value, ok := fields[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return placeholder
		}
		return value
	})
	if missing != "" {
		return "", errors.Newf(errors.ErrTemplateResolve,
			"template %q references field %q which is missing from the request", template, missing)
	}
	return resolved, nil
}
