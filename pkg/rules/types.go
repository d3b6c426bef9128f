package rules

import (
	"regexp"

	"github.com/arthur-debert/testpilot/pkg/errors"
)

// Rule pairs a match specification with a command template.
// The match specification maps request field names (e.g. "filename",
// "line") to regular expressions. An empty match specification makes the
// rule a catch-all: it applies only to requests that carry no fields.
type Rule struct {
	Match    map[string]string `json:"match" toml:"match" yaml:"match"`
	Template string            `json:"command" toml:"command" yaml:"command"`
}

// CompiledRule is a Rule whose patterns have been compiled once at load
// time so that matching never pays regexp compilation per request.
type CompiledRule struct {
	Rule
	patterns map[string]*regexp.Regexp
}

// Compile validates and compiles the rule's match patterns
func (r Rule) Compile() (CompiledRule, error) {
	if r.Template == "" {
		return CompiledRule{}, errors.New(errors.ErrConfigInvalid, "rule has empty command template")
	}
	compiled := CompiledRule{
		Rule:     r,
		patterns: make(map[string]*regexp.Regexp, len(r.Match)),
	}
	for field, pattern := range r.Match {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return CompiledRule{}, errors.Wrapf(err, errors.ErrConfigInvalid,
				"invalid pattern %q for field %q", pattern, field)
		}
		compiled.patterns[field] = re
	}
	return compiled, nil
}

// Specificity is the number of fields the rule's match specification
// constrains. Higher specificity wins during matching.
func (r CompiledRule) Specificity() int {
	return len(r.patterns)
}

// IsCatchAll reports whether this rule has an empty match specification
func (r CompiledRule) IsCatchAll() bool {
	return len(r.patterns) == 0
}

// ActionSet is a named, ordered group of rules representing one mode of
// operation (e.g. unit vs. integration tests). Identity is by name or by
// 1-based position within the Configuration.
type ActionSet struct {
	Name  string
	Rules []CompiledRule
}

// Configuration is the ordered sequence of action sets loaded at startup.
// It must be non-empty; the first entry is the initial active set.
type Configuration struct {
	ActionSets []ActionSet
}

// Validate checks the configuration invariants
func (c Configuration) Validate() error {
	if len(c.ActionSets) == 0 {
		return errors.New(errors.ErrConfigInvalid, "configuration contains no action sets")
	}
	seen := make(map[string]bool, len(c.ActionSets))
	for _, set := range c.ActionSets {
		if set.Name == "" {
			return errors.New(errors.ErrConfigInvalid, "action set has empty name")
		}
		if seen[set.Name] {
			return errors.Newf(errors.ErrConfigInvalid, "duplicate action set name %q", set.Name)
		}
		seen[set.Name] = true
	}
	return nil
}

// ByName returns the action set with the given name, if any
func (c Configuration) ByName(name string) (ActionSet, bool) {
	for _, set := range c.ActionSets {
		if set.Name == name {
			return set, true
		}
	}
	return ActionSet{}, false
}
