package template_test

import (
	"testing"

	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/arthur-debert/testpilot/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		fields   map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "mocha {filename}",
			fields:   map[string]string{"filename": "a.spec.js"},
			want:     "mocha a.spec.js",
		},
		{
			name:     "multiple placeholders",
			template: "pytest {filename}::{line}",
			fields:   map[string]string{"filename": "test_a.py", "line": "42"},
			want:     "pytest test_a.py::42",
		},
		{
			name:     "repeated placeholder",
			template: "diff {filename} {filename}.bak",
			fields:   map[string]string{"filename": "a.go"},
			want:     "diff a.go a.go.bak",
		},
		{
			name:     "loose placeholder with spaces",
			template: "mocha { filename }",
			fields:   map[string]string{"filename": "a.spec.js"},
			want:     "mocha a.spec.js",
		},
		{
			name:     "no placeholders",
			template: "make test",
			fields:   map[string]string{"filename": "unused"},
			want:     "make test",
		},
		{
			name:     "extra fields are ignored",
			template: "mocha {filename}",
			fields:   map[string]string{"filename": "a.spec.js", "line": "3"},
			want:     "mocha a.spec.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Resolve(tt.template, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMissingField(t *testing.T) {
	_, err := template.Resolve("mocha {filename}:{line}", map[string]string{"filename": "a.spec.js"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateResolve))
	assert.Contains(t, err.Error(), "line")
}
