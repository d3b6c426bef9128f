package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/testpilot/pkg/errors"
)

const starterConfig = `# testpilot configuration
#
# Each [[actionSets]] entry is a named, ordered group of rules. The
# first set is active at startup; editors switch sets by sending
# {"actionSet": <1-based index or name>}.
#
# A rule applies when every field of its match table is present in the
# request and its pattern (a regular expression) matches the value.
# Among applicable rules the one constraining the most fields wins;
# later rules override earlier ones of equal specificity. A rule with
# no match table only applies to requests without fields.

[[actionSets]]
name = "default"

[[actionSets.rules]]
command = "echo testing everything"

[[actionSets.rules]]
command = "echo testing file {filename}"

[actionSets.rules.match]
filename = '.*'

[[actionSets.rules]]
command = "echo testing file {filename} at line {line}"

[actionSets.rules.match]
filename = '.*'
line = '\d+'
`

// Scaffold writes a starter configuration file into the given directory.
// It refuses to overwrite an existing configuration in any format.
func Scaffold(dir string) (string, error) {
	for _, name := range fileNames {
		existing := filepath.Join(dir, name)
		if _, err := os.Stat(existing); err == nil {
			return "", errors.Newf(errors.ErrConfigExists,
				"configuration file %s already exists", existing)
		}
	}

	path := filepath.Join(dir, FileNameTOML)
	if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot create configuration file %s", path)
	}
	return path, nil
}
