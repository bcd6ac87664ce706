package config

import "fmt"

// Action is one of the named build-lifecycle steps a single invocation may
// request.
type Action string

const (
	ActionAll               Action = "all"
	ActionBuild             Action = "build"
	ActionTest              Action = "test"
	ActionGenerateXcodeproj Action = "generate-xcodeproj"
	ActionInstall           Action = "install"
)

// concreteActions lists every action "all" expands to, in lifecycle order.
var concreteActions = []Action{ActionBuild, ActionTest, ActionGenerateXcodeproj, ActionInstall}

// ActionSet is the resolved set of requested build actions. ParseActions
// expands "all", so the set only ever holds concrete actions.
type ActionSet map[Action]struct{}

// ParseActions validates action names and builds the resolved set.
// An empty list defaults to a plain build.
func ParseActions(names []string) (ActionSet, error) {
	if len(names) == 0 {
		names = []string{string(ActionBuild)}
	}
	set := make(ActionSet, len(names))
	for _, name := range names {
		switch a := Action(name); a {
		case ActionAll:
			for _, c := range concreteActions {
				set[c] = struct{}{}
			}
		case ActionBuild, ActionTest, ActionGenerateXcodeproj, ActionInstall:
			set[a] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown build action %q (valid actions: all, build, test, generate-xcodeproj, install)", name)
		}
	}
	return set, nil
}

// Has reports whether the concrete action was requested.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}
