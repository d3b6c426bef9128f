package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/testpilot/pkg/rules"
	"github.com/pterm/pterm"
)

// RenderRuleTable writes a table of every action set with its rules'
// match specifications and command templates
func RenderRuleTable(w io.Writer, config rules.Configuration) error {
	data := pterm.TableData{
		{"SET", "MATCH", "COMMAND"},
	}

	for i, set := range config.ActionSets {
		label := fmt.Sprintf("%d. %s", i+1, set.Name)
		for _, rule := range set.Rules {
			data = append(data, []string{label, formatMatch(rule.Match), rule.Template})
			// only label the first rule of each set
			label = ""
		}
		if len(set.Rules) == 0 {
			data = append(data, []string{label, "", ""})
		}
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

// formatMatch renders a match spec as "field=~pattern" pairs in stable order
func formatMatch(match map[string]string) string {
	if len(match) == 0 {
		return "(catch-all)"
	}
	fields := make([]string, 0, len(match))
	for field := range match {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	pairs := make([]string, 0, len(fields))
	for _, field := range fields {
		pairs = append(pairs, fmt.Sprintf("%s=~%s", field, match[field]))
	}
	return strings.Join(pairs, " ")
}
