// Package config loads the rule configuration from the working
// directory. Three formats are understood: TOML (the native format),
// YAML, and the legacy JSON shape editor plugins were written against,
// an array of single-key objects mapping a set name to its rules. Rule
// order inside a set and set order inside the file are significant, so
// every decoder preserves document order.
package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/arthur-debert/testpilot/pkg/rules"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Config file names, probed in this order
const (
	FileNameTOML = ".testpilot.toml"
	FileNameYAML = ".testpilot.yaml"
	FileNameJSON = ".testpilot.json"
)

var fileNames = []string{FileNameTOML, FileNameYAML, FileNameJSON}

type fileRule struct {
	Match   map[string]string `toml:"match" yaml:"match"`
	Command string            `toml:"command" yaml:"command"`
}

type fileActionSet struct {
	Name  string     `toml:"name" yaml:"name"`
	Rules []fileRule `toml:"rules" yaml:"rules"`
}

type fileConfig struct {
	ActionSets []fileActionSet `toml:"actionSets" yaml:"actionSets"`
}

// Load probes the working directory for a configuration file and loads
// it. It returns the configuration and the path it was loaded from.
func Load(dir string) (rules.Configuration, string, error) {
	logger := logging.GetLogger("config")

	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		config, err := LoadFile(path)
		if err != nil {
			return rules.Configuration{}, path, err
		}
		logger.Debug().Str("path", path).Int("actionSets", len(config.ActionSets)).Msg("configuration loaded")
		return config, path, nil
	}

	return rules.Configuration{}, "", errors.Newf(errors.ErrConfigLoad,
		"no configuration file found in %s; run \"testpilot setup\" to create one", dir)
}

// LoadFile loads and validates the configuration at the given path,
// picking the decoder from the file extension
func LoadFile(path string) (rules.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Configuration{}, errors.Wrapf(err, errors.ErrConfigLoad,
			"cannot read configuration file %s", path)
	}

	var decoded fileConfig
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &decoded); err != nil {
			return rules.Configuration{}, errors.Wrapf(err, errors.ErrConfigParse,
				"cannot parse configuration file %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return rules.Configuration{}, errors.Wrapf(err, errors.ErrConfigParse,
				"cannot parse configuration file %s", path)
		}
	case ".json":
		decoded, err = decodeJSON(data)
		if err != nil {
			return rules.Configuration{}, errors.Wrapf(err, errors.ErrConfigParse,
				"cannot parse configuration file %s", path)
		}
	default:
		return rules.Configuration{}, errors.Newf(errors.ErrConfigLoad,
			"unsupported configuration format: %s", path)
	}

	return compile(decoded)
}

// decodeJSON handles the legacy array-of-single-key-objects shape:
// [{"default": [{"match": {...}, "command": "..."}]}, ...]
func decodeJSON(data []byte) (fileConfig, error) {
	if !gjson.ValidBytes(data) {
		return fileConfig{}, errors.New(errors.ErrConfigParse, "invalid JSON")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return fileConfig{}, errors.New(errors.ErrConfigParse,
			"top level must be an array of action sets")
	}

	var decoded fileConfig
	var decodeErr error
	parsed.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			decodeErr = errors.New(errors.ErrConfigParse, "action set entry must be an object")
			return false
		}
		entry.ForEach(func(name, ruleList gjson.Result) bool {
			set := fileActionSet{Name: name.String()}
			if !ruleList.IsArray() {
				decodeErr = errors.Newf(errors.ErrConfigParse,
					"rules of action set %q must be an array", set.Name)
				return false
			}
			ruleList.ForEach(func(_, ruleEntry gjson.Result) bool {
				rule := fileRule{
					Match:   map[string]string{},
					Command: ruleEntry.Get("command").String(),
				}
				ruleEntry.Get("match").ForEach(func(field, pattern gjson.Result) bool {
					rule.Match[field.String()] = pattern.String()
					return true
				})
				set.Rules = append(set.Rules, rule)
				return true
			})
			decoded.ActionSets = append(decoded.ActionSets, set)
			return true
		})
		return decodeErr == nil
	})
	if decodeErr != nil {
		return fileConfig{}, decodeErr
	}
	return decoded, nil
}

// compile turns the decoded file shape into a validated, pattern-compiled
// configuration
func compile(decoded fileConfig) (rules.Configuration, error) {
	config := rules.Configuration{}
	for _, fileSet := range decoded.ActionSets {
		set := rules.ActionSet{Name: fileSet.Name}
		for _, entry := range fileSet.Rules {
			compiled, err := rules.Rule{Match: entry.Match, Template: entry.Command}.Compile()
			if err != nil {
				return rules.Configuration{}, errors.Wrapf(err, errors.ErrConfigInvalid,
					"invalid rule in action set %q", fileSet.Name)
			}
			set.Rules = append(set.Rules, compiled)
		}
		config.ActionSets = append(config.ActionSets, set)
	}

	if err := config.Validate(); err != nil {
		return rules.Configuration{}, err
	}
	return config, nil
}
