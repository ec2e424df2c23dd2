package render

import (
	"fmt"
	"time"
)

// Variant is one visual keyframe an animated slot can be in.
// OffsetX/OffsetY are in CSS pixels. Height is either "auto" or a pixel
// value; an empty Height means the variant does not constrain height.
type Variant struct {
	Name    string
	Opacity float64
	OffsetX float64
	OffsetY float64
	Height  string
}

// VariantSet is the state-to-visual table for one animated slot.
type VariantSet struct {
	Hidden   Variant
	Visible  Variant
	Exit     Variant
	Duration time.Duration
}

// Variant names used in markup and logs.
const (
	VariantHidden  = "hidden"
	VariantVisible = "visible"
	VariantExit    = "exit"
)

// DropdownVariants animates a desktop submenu panel: fade in while moving
// up into place, mirrored on exit.
var DropdownVariants = VariantSet{
	Hidden:   Variant{Name: VariantHidden, Opacity: 0, OffsetY: -10},
	Visible:  Variant{Name: VariantVisible, Opacity: 1, OffsetY: 0},
	Exit:     Variant{Name: VariantExit, Opacity: 0, OffsetY: -10},
	Duration: 200 * time.Millisecond,
}

// MobileVariants animates the whole condensed panel by height and opacity.
// Exit reuses the hidden keyframe.
var MobileVariants = VariantSet{
	Hidden:   Variant{Name: VariantHidden, Opacity: 0, Height: "0"},
	Visible:  Variant{Name: VariantVisible, Opacity: 1, Height: "auto"},
	Exit:     Variant{Name: VariantExit, Opacity: 0, Height: "0"},
	Duration: 300 * time.Millisecond,
}

// BrandVariants is the one-shot intro of the logo block on first paint.
var BrandVariants = VariantSet{
	Hidden:   Variant{Name: VariantHidden, Opacity: 0, OffsetX: -20},
	Visible:  Variant{Name: VariantVisible, Opacity: 1, OffsetX: 0},
	Exit:     Variant{Name: VariantHidden, Opacity: 0, OffsetX: -20},
	Duration: 500 * time.Millisecond,
}

// Interpolate blends from into to at progress t, clamped to [0,1].
// Height snaps to the target at the midpoint since "auto" has no numeric value.
func Interpolate(from, to Variant, t float64) Variant {
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}
	out := Variant{
		Name:    to.Name,
		Opacity: lerp(from.Opacity, to.Opacity, t),
		OffsetX: lerp(from.OffsetX, to.OffsetX, t),
		OffsetY: lerp(from.OffsetY, to.OffsetY, t),
		Height:  from.Height,
	}
	if t >= 0.5 {
		out.Height = to.Height
	}
	return out
}

// CSS renders the variant as an inline style declaration.
func (v Variant) CSS(d time.Duration) string {
	s := fmt.Sprintf("opacity:%s;transform:translate(%spx,%spx);transition:all %dms ease-out",
		trimFloat(v.Opacity), trimFloat(v.OffsetX), trimFloat(v.OffsetY), d.Milliseconds())
	switch v.Height {
	case "":
	case "auto":
		s += ";height:auto"
	default:
		s += ";height:" + v.Height + "px;overflow:hidden"
	}
	return s
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
