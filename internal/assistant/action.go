package assistant

import (
	"fmt"
	"strings"
)

// Action selects what the assistant does with a repository summary.
type Action string

const (
	ActionAnalyze      Action = "analyze"
	ActionFix          Action = "fix"
	ActionGenerateDocs Action = "generate-docs"
)

// Actions lists every action in pipeline order.
var Actions = []Action{ActionAnalyze, ActionFix, ActionGenerateDocs}

// ParseAction accepts an action name, case-insensitively. "docs" is an alias
// for generate-docs.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analyze":
		return ActionAnalyze, nil
	case "fix":
		return ActionFix, nil
	case "generate-docs", "docs":
		return ActionGenerateDocs, nil
	}
	return "", fmt.Errorf("unknown action %q (want analyze, fix or generate-docs)", s)
}

// ParseActions parses a list of action names, dropping duplicates and
// returning them in pipeline order.
func ParseActions(names []string) ([]Action, error) {
	want := make(map[Action]bool)
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			a, err := ParseAction(part)
			if err != nil {
				return nil, err
			}
			want[a] = true
		}
	}
	var out []Action
	for _, a := range Actions {
		if want[a] {
			out = append(out, a)
		}
	}
	return out, nil
}
