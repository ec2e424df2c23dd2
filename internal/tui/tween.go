package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrSnakeDoc/navbar/internal/render"
)

const frameInterval = 16 * time.Millisecond

// frameMsg advances every running tween by one frame.
type frameMsg time.Time

func tickFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// tween blends between two variants. Retargeting starts from wherever the
// previous animation currently is, so the latest transition always wins.
type tween struct {
	from, to render.Variant
	t        float64
	step     float64
}

func settled(v render.Variant) tween {
	return tween{from: v, to: v, t: 1}
}

func (tw tween) current() render.Variant {
	return render.Interpolate(tw.from, tw.to, tw.t)
}

func (tw tween) done() bool {
	return tw.t >= 1
}

func (tw tween) retarget(to render.Variant, d time.Duration, animate bool) tween {
	next := tween{from: tw.current(), to: to, t: 1}
	if animate && d > 0 {
		next.t = 0
		next.step = float64(frameInterval) / float64(d)
	}
	return next
}

func (tw tween) advance() tween {
	if tw.done() {
		return tw
	}
	tw.t += tw.step
	if tw.t > 1 {
		tw.t = 1
	}
	return tw
}
