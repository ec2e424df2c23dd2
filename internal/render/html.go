package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html templates/*.css
var templateFS embed.FS

// HTMLOptions configures the HTML output.
type HTMLOptions struct {
	// BasePath prefixes the interaction endpoints (default "/navbar").
	BasePath string
	// Title is the <title> of the full page.
	Title string
	// ScriptSrc is the htmx bundle loaded by the full page. Empty disables
	// script loading; the toggle form still works without it.
	ScriptSrc string
}

// DefaultScriptSrc is the htmx build referenced by the page template.
const DefaultScriptSrc = "https://unpkg.com/htmx.org@1.9.12"

// HTML renders a View to markup.
type HTML struct {
	tmpl *template.Template
	opts HTMLOptions
	css  template.CSS
}

type htmlData struct {
	View
	Base       string
	Title      string
	ScriptSrc  string
	Stylesheet template.CSS
	// Intro plays the brand animation; only set on a full page load.
	Intro bool
}

// NewHTML parses the embedded templates.
func NewHTML(opts HTMLOptions) (*HTML, error) {
	if opts.BasePath == "" {
		opts.BasePath = "/navbar"
	}
	opts.BasePath = strings.TrimRight(opts.BasePath, "/")
	if opts.Title == "" {
		opts.Title = "Home"
	}

	tmpl, err := template.New("navbar").Funcs(template.FuncMap{
		"dropdownStyle": func(v Variant) template.CSS { return template.CSS(v.CSS(DropdownVariants.Duration)) },
		"mobileStyle":   func(v Variant) template.CSS { return template.CSS(v.CSS(MobileVariants.Duration)) },
		"phaseClass":    phaseClass,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse navbar templates: %w", err)
	}

	base, err := templateFS.ReadFile("templates/navbar.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read navbar stylesheet: %w", err)
	}

	return &HTML{
		tmpl: tmpl,
		opts: opts,
		css:  template.CSS(string(base) + Keyframes()),
	}, nil
}

// Navbar writes the swappable <nav> fragment.
func (h *HTML) Navbar(w io.Writer, v View) error {
	return h.tmpl.ExecuteTemplate(w, "navbar.html", h.data(v, false))
}

// Page writes a complete document containing the navbar.
func (h *HTML) Page(w io.Writer, v View) error {
	return h.tmpl.ExecuteTemplate(w, "page.html", h.data(v, true))
}

func (h *HTML) data(v View, intro bool) htmlData {
	return htmlData{
		View:       v,
		Base:       h.opts.BasePath,
		Title:      h.opts.Title,
		ScriptSrc:  h.opts.ScriptSrc,
		Stylesheet: h.css,
		Intro:      intro,
	}
}

func phaseClass(prefix string, p Phase) string {
	switch p {
	case PhaseEntering:
		return prefix + "-enter"
	case PhaseExiting:
		return prefix + "-exit"
	default:
		return ""
	}
}

// Keyframes returns the CSS animations derived from the variant tables.
func Keyframes() string {
	var sb strings.Builder
	writeKeyframes(&sb, "dropdown-enter", DropdownVariants.Hidden, DropdownVariants.Visible, DropdownVariants, false)
	writeKeyframes(&sb, "dropdown-exit", DropdownVariants.Visible, DropdownVariants.Exit, DropdownVariants, true)
	writeKeyframes(&sb, "mobile-enter", mobileFrom(), mobileTo(), MobileVariants, false)
	writeKeyframes(&sb, "mobile-exit", mobileTo(), mobileFromExit(), MobileVariants, true)
	writeKeyframes(&sb, "brand-intro", BrandVariants.Hidden, BrandVariants.Visible, BrandVariants, false)
	return sb.String()
}

// "auto" cannot be animated in CSS, so the panel animates max-height instead.
func mobileFrom() Variant     { v := MobileVariants.Hidden; v.Height = ""; return v }
func mobileTo() Variant       { v := MobileVariants.Visible; v.Height = ""; return v }
func mobileFromExit() Variant { v := MobileVariants.Exit; v.Height = ""; return v }

// An exit animation ends hidden so the leftover panel drops out of the page
// until the next swap removes it.
func writeKeyframes(sb *strings.Builder, name string, from, to Variant, set VariantSet, exit bool) {
	frame := func(v Variant) string {
		return fmt.Sprintf("opacity:%s;transform:translate(%spx,%spx)",
			trimFloat(v.Opacity), trimFloat(v.OffsetX), trimFloat(v.OffsetY))
	}
	end := frame(to)
	if exit {
		end += ";visibility:hidden"
	}
	fmt.Fprintf(sb, "@keyframes %s{from{%s}to{%s}}\n", name, frame(from), end)
	fmt.Fprintf(sb, ".anim-%s{animation:%s %dms ease-out forwards}\n", name, name, set.Duration.Milliseconds())
}
