package render

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestVariantTable(t *testing.T) {
	if DropdownVariants.Hidden.Opacity != 0 || DropdownVariants.Hidden.OffsetY != -10 {
		t.Errorf("dropdown hidden = %+v", DropdownVariants.Hidden)
	}
	if DropdownVariants.Exit != (Variant{Name: VariantExit, Opacity: 0, OffsetY: -10}) {
		t.Errorf("dropdown exit does not mirror hidden: %+v", DropdownVariants.Exit)
	}
	for _, d := range []time.Duration{DropdownVariants.Duration, MobileVariants.Duration} {
		if d < 150*time.Millisecond || d > 300*time.Millisecond {
			t.Errorf("duration %v outside short-transition range", d)
		}
	}
	if MobileVariants.Visible.Height != "auto" || MobileVariants.Hidden.Height != "0" {
		t.Errorf("mobile heights = %q/%q", MobileVariants.Hidden.Height, MobileVariants.Visible.Height)
	}
}

func TestInterpolate(t *testing.T) {
	from, to := DropdownVariants.Hidden, DropdownVariants.Visible

	tests := []struct {
		name        string
		t           float64
		wantOpacity float64
		wantY       float64
	}{
		{"start", 0, 0, -10},
		{"before start clamps", -1, 0, -10},
		{"midpoint", 0.5, 0.5, -5},
		{"end", 1, 1, 0},
		{"past end clamps", 2, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(from, to, tt.t)
			if math.Abs(got.Opacity-tt.wantOpacity) > 1e-9 {
				t.Errorf("Opacity = %v, want %v", got.Opacity, tt.wantOpacity)
			}
			if math.Abs(got.OffsetY-tt.wantY) > 1e-9 {
				t.Errorf("OffsetY = %v, want %v", got.OffsetY, tt.wantY)
			}
		})
	}
}

func TestInterpolateHeightSnaps(t *testing.T) {
	from, to := MobileVariants.Hidden, MobileVariants.Visible
	if got := Interpolate(from, to, 0.25).Height; got != "0" {
		t.Errorf("Height at 0.25 = %q, want 0", got)
	}
	if got := Interpolate(from, to, 0.75).Height; got != "auto" {
		t.Errorf("Height at 0.75 = %q, want auto", got)
	}
}

func TestVariantCSS(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		want string
	}{
		{
			name: "dropdown hidden",
			v:    DropdownVariants.Hidden,
			want: "opacity:0;transform:translate(0px,-10px);transition:all 200ms ease-out",
		},
		{
			name: "mobile visible",
			v:    MobileVariants.Visible,
			want: "opacity:1;transform:translate(0px,0px);transition:all 200ms ease-out;height:auto",
		},
		{
			name: "mobile hidden",
			v:    MobileVariants.Hidden,
			want: "opacity:0;transform:translate(0px,0px);transition:all 200ms ease-out;height:0px;overflow:hidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.CSS(200 * time.Millisecond); got != tt.want {
				t.Errorf("CSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyframes(t *testing.T) {
	k := Keyframes()
	for _, name := range []string{"dropdown-enter", "dropdown-exit", "mobile-enter", "mobile-exit", "brand-intro"} {
		if !strings.Contains(k, "@keyframes "+name+"{") {
			t.Errorf("Keyframes() missing %s", name)
		}
		if !strings.Contains(k, ".anim-"+name+"{") {
			t.Errorf("Keyframes() missing class for %s", name)
		}
	}
	if !strings.Contains(k, "brand-intro 500ms") {
		t.Error("brand intro duration not 500ms")
	}
}

func TestTrimFloat(t *testing.T) {
	cases := map[float64]string{0: "0", 1: "1", -10: "-10", 0.5: "0.5", 100: "100", -0.001: "0"}
	for in, want := range cases {
		if got := trimFloat(in); got != want {
			t.Errorf("trimFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
