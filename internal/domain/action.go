package domain

import "fmt"

// Action names one of the three interactions a navbar accepts.
type Action string

const (
	ActionEnter  Action = "enter"
	ActionLeave  Action = "leave"
	ActionToggle Action = "toggle"
)

// ParseAction maps a path segment to an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionEnter, ActionLeave, ActionToggle:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Apply runs action against c. Index is ignored for ActionToggle.
func (c *Controller) Apply(action Action, index int) error {
	switch action {
	case ActionEnter:
		return c.PointerEnter(index)
	case ActionLeave:
		return c.PointerLeave(index)
	case ActionToggle:
		c.ToggleMobile()
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}
