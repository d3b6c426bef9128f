package rules

import (
	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/rs/zerolog"
)

// Matcher selects the best rule of an action set for a request.
// Selection is pure: no side effects, no state.
type Matcher struct {
	logger zerolog.Logger
}

// NewMatcher creates a new rule matcher
func NewMatcher() *Matcher {
	return &Matcher{
		logger: logging.GetLogger("rules.matcher"),
	}
}

// BestMatch returns the winning rule for the given request fields within
// the action set, or false if no rule applies.
//
// A rule is a candidate iff every field of its match specification is
// present in the request and its pattern matches the field value. A
// catch-all rule (empty match spec) is a candidate only when the request
// itself carries no fields, so it can never shadow a specific request.
//
// Among candidates the one constraining the most fields wins; on a tie
// the one declared last in the set wins, so later rules override earlier
// rules of equal specificity.
func (m *Matcher) BestMatch(fields map[string]string, set ActionSet) (CompiledRule, bool) {
	var best CompiledRule
	found := false

	for _, rule := range set.Rules {
		if !m.applies(fields, rule) {
			continue
		}
		// >= implements last-wins on equal specificity
		if !found || rule.Specificity() >= best.Specificity() {
			best = rule
			found = true
		}
	}

	if found {
		m.logger.Debug().
			Str("actionSet", set.Name).
			Str("template", best.Template).
			Int("specificity", best.Specificity()).
			Msg("selected rule")
	} else {
		m.logger.Debug().
			Str("actionSet", set.Name).
			Int("fieldCount", len(fields)).
			Msg("no rule applies")
	}

	return best, found
}

// applies reports whether a single rule is a candidate for the request
func (m *Matcher) applies(fields map[string]string, rule CompiledRule) bool {
	if rule.IsCatchAll() {
		return len(fields) == 0
	}
	for field, pattern := range rule.patterns {
		value, ok := fields[field]
		if !ok {
			return false
		}
		if !pattern.MatchString(value) {
			return false
		}
	}
	return true
}
