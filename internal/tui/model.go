// Package tui previews the navbar in a terminal. Pointer motion over the
// bar drives enter/leave exactly like a mouse over the web page.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/render"
)

// DesktopMinWidth is the terminal width at which the full bar replaces the
// mobile toggle (768px at 8px per cell).
const DesktopMinWidth = 96

// Layout forces one of the two presentations or follows the terminal width.
type Layout int

const (
	LayoutAuto Layout = iota
	LayoutDesktop
	LayoutMobile
)

func (l Layout) String() string {
	switch l {
	case LayoutDesktop:
		return "desktop"
	case LayoutMobile:
		return "mobile"
	default:
		return "auto"
	}
}

// ParseLayout maps a flag value to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return LayoutAuto, nil
	case "desktop":
		return LayoutDesktop, nil
	case "mobile":
		return LayoutMobile, nil
	default:
		return LayoutAuto, fmt.Errorf("unknown layout %q (want auto, desktop or mobile)", s)
	}
}

// Options configures a preview model.
type Options struct {
	Catalog domain.Catalog
	Layout  Layout
	Animate bool
	Logger  logger.Logger
}

// Model is the bubbletea model of the preview.
type Model struct {
	catalog domain.Catalog
	state   domain.State
	view    render.View
	layout  Layout
	animate bool
	log     logger.Logger

	width, height int
	hovered       int

	dropdowns []tween
	mobile    tween
	brand     tween
	ticking   bool
	quitted   bool
}

// New creates a model in the initial state.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	m := Model{
		catalog: opts.Catalog,
		state:   domain.InitialState(),
		layout:  opts.Layout,
		animate: opts.Animate,
		log:     log,
		width:   DesktopMinWidth,
		hovered: domain.NoDropdown,
	}
	m.view = render.Project(m.catalog, m.state)

	m.dropdowns = make([]tween, m.catalog.Len())
	for i := range m.dropdowns {
		m.dropdowns[i] = settled(render.DropdownVariants.Hidden)
	}
	m.mobile = settled(render.MobileVariants.Hidden)

	intro := m.view.Brand.Intro
	m.brand = settled(intro.Hidden).retarget(intro.Visible, intro.Duration, m.animate)
	m.ticking = !m.brand.done()
	return m
}

// State returns the current navbar state.
func (m Model) State() domain.State { return m.state }

// Quitted reports whether the user asked to leave.
func (m Model) Quitted() bool { return m.quitted }

// Desktop reports whether the full bar is shown.
func (m Model) Desktop() bool {
	switch m.layout {
	case LayoutDesktop:
		return true
	case LayoutMobile:
		return false
	default:
		return m.width >= DesktopMinWidth
	}
}

func (m Model) Init() tea.Cmd {
	if !m.brand.done() {
		return tickFrame()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		running := false
		for i := range m.dropdowns {
			m.dropdowns[i] = m.dropdowns[i].advance()
			running = running || !m.dropdowns[i].done()
		}
		m.mobile = m.mobile.advance()
		m.brand = m.brand.advance()
		running = running || !m.mobile.done() || !m.brand.done()
		if running {
			return m, tickFrame()
		}
		m.ticking = false
		return m, nil

	case tea.MouseMsg:
		return m.mouse(msg)

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	l := m.computeLayout()

	switch msg.Action {
	case tea.MouseActionMotion:
		if !l.desktop {
			return m, nil
		}
		hit := l.hit(msg.X, msg.Y)
		if hit == m.hovered {
			return m, nil
		}
		prev := m.hovered
		m.hovered = hit
		if prev != domain.NoDropdown {
			m = m.apply(domain.ActionLeave, prev)
		}
		if hit != domain.NoDropdown {
			m = m.apply(domain.ActionEnter, hit)
		}
		cmd := m.startTicking()
		return m, cmd

	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && !l.desktop && l.toggle.contains(msg.X, msg.Y) {
			m = m.apply(domain.ActionToggle, domain.NoDropdown)
			cmd := m.startTicking()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.catalog.Len()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitted = true
		return m, tea.Quit
	case "m", "enter", " ":
		m = m.apply(domain.ActionToggle, domain.NoDropdown)
	case "right", "l":
		if n == 0 {
			return m, nil
		}
		next := 0
		if m.state.HasActiveDropdown() {
			next = (m.state.ActiveDropdown + 1) % n
		}
		m = m.apply(domain.ActionEnter, next)
	case "left", "h":
		if n == 0 {
			return m, nil
		}
		next := n - 1
		if m.state.HasActiveDropdown() {
			next = (m.state.ActiveDropdown - 1 + n) % n
		}
		m = m.apply(domain.ActionEnter, next)
	case "esc":
		if m.state.HasActiveDropdown() {
			m = m.apply(domain.ActionLeave, m.state.ActiveDropdown)
		}
		m.hovered = domain.NoDropdown
	case "tab":
		m.layout = (m.layout + 1) % 3
		m.hovered = domain.NoDropdown
		return m, nil
	default:
		return m, nil
	}
	cmd := m.startTicking()
	return m, cmd
}

// apply runs one controller operation and retargets the animations.
func (m Model) apply(action domain.Action, index int) Model {
	c := domain.RestoreController(m.catalog.Len(), m.state)
	if err := c.Apply(action, index); err != nil {
		m.log.Warn("preview action rejected",
			logger.String("action", string(action)),
			logger.Int("index", index),
			logger.Error(err))
		return m
	}

	prev, next := m.state, c.State()
	m.state = next
	m.view = render.Transition(m.catalog, prev, next)

	m.log.Debug("preview action",
		logger.String("action", string(action)),
		logger.Int("index", index),
		logger.Int("active_dropdown", next.ActiveDropdown),
		logger.Bool("mobile_menu_open", next.MobileMenuOpen))

	dropdowns := make([]tween, len(m.dropdowns))
	copy(dropdowns, m.dropdowns)
	for i, item := range m.view.Desktop {
		switch item.Phase {
		case render.PhaseEntering:
			dropdowns[i] = dropdowns[i].retarget(render.DropdownVariants.Visible, render.DropdownVariants.Duration, m.animate)
		case render.PhaseExiting:
			dropdowns[i] = dropdowns[i].retarget(render.DropdownVariants.Exit, render.DropdownVariants.Duration, m.animate)
		}
	}
	m.dropdowns = dropdowns

	switch m.view.Mobile.Phase {
	case render.PhaseEntering:
		m.mobile = m.mobile.retarget(render.MobileVariants.Visible, render.MobileVariants.Duration, m.animate)
	case render.PhaseExiting:
		m.mobile = m.mobile.retarget(render.MobileVariants.Exit, render.MobileVariants.Duration, m.animate)
	}
	return m
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.animate {
		return nil
	}
	m.ticking = true
	return tickFrame()
}
