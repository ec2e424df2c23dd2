package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/render"
)

const (
	barRow    = 0
	panelTop  = 2 // below the bar and its rule
	itemGap   = 3
	pxPerCell = 10.0
)

// span is a horizontal range on one row, x1 exclusive.
type span struct {
	index  int
	x0, x1 int
	y      int
}

func (s span) contains(x, y int) bool {
	return y == s.y && x >= s.x0 && x < s.x1
}

type rect struct{ x0, y0, x1, y1 int }

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// screenLayout is shared by View and the pointer hit-test so both always
// agree on where things are.
type screenLayout struct {
	desktop bool
	brand   string
	brandX  int
	items   []span
	labels  []string
	toggle  span

	panelIndex int
	panel      string
	panelAt    rect
	panelOpen  bool
}

func itemLabel(d render.DesktopItem) string {
	if d.HasSubmenu {
		return d.Link.Name + " ▾"
	}
	return d.Link.Name
}

func glyphSymbol(g render.Glyph) string {
	if g == render.GlyphClose {
		return "✕"
	}
	return "☰"
}

func cells(px float64) int {
	return int(math.Round(px / pxPerCell))
}

func (m Model) computeLayout() screenLayout {
	bv := m.brand.current()
	l := screenLayout{
		desktop:    m.Desktop(),
		brand:      "◉ " + m.view.Brand.Name,
		brandX:     maxInt(2+cells(bv.OffsetX), 0),
		panelIndex: domain.NoDropdown,
	}

	if !l.desktop {
		sym := glyphSymbol(m.view.Mobile.Icon)
		x := maxInt(m.width-2-lipgloss.Width(sym), l.brandX+lipgloss.Width(l.brand)+2)
		l.toggle = span{index: domain.NoDropdown, x0: x, x1: x + lipgloss.Width(sym), y: barRow}
		return l
	}

	total := 0
	for i, d := range m.view.Desktop {
		label := itemLabel(d)
		l.labels = append(l.labels, label)
		total += lipgloss.Width(label)
		if i > 0 {
			total += itemGap
		}
	}
	x := maxInt(m.width-total-2, l.brandX+lipgloss.Width(l.brand)+4)
	for i, label := range l.labels {
		w := lipgloss.Width(label)
		l.items = append(l.items, span{index: i, x0: x, x1: x + w, y: barRow})
		x += w + itemGap
	}

	// Open panel first; otherwise the one still animating out.
	for _, d := range m.view.Desktop {
		tw := m.dropdowns[d.Index]
		if d.Open || (d.Exiting && !tw.done()) {
			if l.panelIndex == domain.NoDropdown || d.Open {
				l.panelIndex = d.Index
			}
		}
	}
	if l.panelIndex == domain.NoDropdown {
		return l
	}

	d := m.view.Desktop[l.panelIndex]
	v := m.dropdowns[d.Index].current()
	names := make([]string, len(d.Submenu))
	for i, s := range d.Submenu {
		names[i] = s.Name
	}
	l.panel = stylePanel.Render(fade(styleSubItem, v.Opacity).Render(strings.Join(names, "\n")))
	l.panelOpen = d.Open

	top := panelTop + maxInt(1+cells(v.OffsetY), 0)
	px := l.items[d.Index].x0
	l.panelAt = rect{
		x0: px,
		y0: top,
		x1: px + lipgloss.Width(l.panel),
		y1: top + lipgloss.Height(l.panel),
	}
	return l
}

// hit returns the entry under the pointer. The open entry also owns its
// panel and the rows between the label and the panel, like a DOM subtree.
func (l screenLayout) hit(x, y int) int {
	for _, it := range l.items {
		if it.contains(x, y) {
			return it.index
		}
	}
	if l.panelOpen {
		it := l.items[l.panelIndex]
		bridge := rect{
			x0: minInt(it.x0, l.panelAt.x0),
			y0: barRow,
			x1: maxInt(it.x1, l.panelAt.x1),
			y1: l.panelAt.y1,
		}
		if bridge.contains(x, y) {
			return l.panelIndex
		}
	}
	return domain.NoDropdown
}

type segment struct {
	x    int
	text string
}

// place writes styled segments at fixed columns on one line.
func place(segs []segment) string {
	sort.Slice(segs, func(i, j int) bool { return segs[i].x < segs[j].x })
	var b strings.Builder
	col := 0
	for _, s := range segs {
		if s.x > col {
			b.WriteString(strings.Repeat(" ", s.x-col))
			col = s.x
		}
		b.WriteString(s.text)
		col += lipgloss.Width(s.text)
	}
	return b.String()
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	l := m.computeLayout()
	bv := m.brand.current()

	bar := []segment{{x: l.brandX, text: fade(styleBrand, bv.Opacity).Render(l.brand)}}
	if l.desktop {
		for i, it := range l.items {
			st := styleItem
			if m.state.ActiveDropdown == it.index {
				st = styleActive
			}
			bar = append(bar, segment{x: it.x0, text: st.Render(l.labels[i])})
		}
	} else {
		bar = append(bar, segment{x: l.toggle.x0, text: styleItem.Render(glyphSymbol(m.view.Mobile.Icon))})
	}

	lines := []string{
		place(bar),
		styleRule.Render(strings.Repeat("─", maxInt(m.width, 1))),
	}

	if l.desktop {
		lines = append(lines, m.desktopBody(l)...)
	} else {
		lines = append(lines, m.mobileBody()...)
	}

	footer := []string{
		"",
		styleHelp.Render(m.statusLine()),
		styleHelp.Render("←/→ open · esc close · m menu · tab layout · q quit"),
	}
	if m.height > 0 {
		for len(lines)+len(footer) < m.height {
			lines = append(lines, "")
		}
	}
	return strings.Join(append(lines, footer...), "\n")
}

func (m Model) desktopBody(l screenLayout) []string {
	if l.panelIndex == domain.NoDropdown {
		return nil
	}
	lines := make([]string, l.panelAt.y0-panelTop)
	for _, pl := range strings.Split(l.panel, "\n") {
		lines = append(lines, strings.Repeat(" ", l.panelAt.x0)+pl)
	}
	return lines
}

func (m Model) mobileBody() []string {
	mp := m.view.Mobile
	if !mp.Expanded && (!mp.Exiting || m.mobile.done()) {
		return nil
	}

	var all []string
	for _, sec := range mp.Sections {
		all = append(all, "  "+styleItem.Render(sec.Link.Name))
		for _, it := range sec.Items {
			all = append(all, "      "+styleSubItem.Render(it.Name))
		}
	}

	v := m.mobile.current()
	shown := int(math.Round(float64(len(all)) * v.Opacity))
	if v.Height == "auto" && m.mobile.done() {
		shown = len(all)
	}
	out := make([]string, 0, shown)
	for _, line := range all[:shown] {
		out = append(out, fade(lipgloss.NewStyle(), v.Opacity).Render(line))
	}
	return out
}

func (m Model) statusLine() string {
	active := "none"
	if m.state.HasActiveDropdown() {
		active = fmt.Sprintf("%d (%s)", m.state.ActiveDropdown, m.catalog.Entries[m.state.ActiveDropdown].Name)
	}
	menu := "closed"
	if m.state.MobileMenuOpen {
		menu = "open"
	}
	layout := "mobile"
	if m.Desktop() {
		layout = "desktop"
	}
	return fmt.Sprintf("dropdown: %s · mobile menu: %s · layout: %s (%s)", active, menu, layout, m.layout)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
