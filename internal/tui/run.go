package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdout is redirected.
var ErrNotTerminal = errors.New("preview needs an interactive terminal")

// Run starts the preview on the alternate screen with pointer tracking and
// blocks until the user quits. Animation is forced off on dumb terminals.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	opts.Animate = opts.Animate && animationsEnabled()

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if m, ok := final.(Model); ok && opts.Logger != nil {
		opts.Logger.Debugf("preview closed with active_dropdown=%d mobile_menu_open=%v",
			m.State().ActiveDropdown, m.State().MobileMenuOpen)
	}
	return nil
}
