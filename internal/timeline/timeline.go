// Package timeline plans the animation: how many frames each phase takes and
// what zoom and scroll every frame carries. The plan is a pure function of
// the layout metrics and the configuration, so the total frame count is
// known before a single pixel is drawn and frames can be rendered in any
// order.
package timeline

import (
	"math"

	"github.com/fogleman/ease"

	"github.com/natew/mmmd/internal/config"
	"github.com/natew/mmmd/internal/layout"
)

// Phase durations in seconds, fixed by design.
const (
	zoomSeconds   = 0.6
	scrollSeconds = 0.8
	outroSeconds  = 0.3
)

// Plan is the complete phase schedule:
// zoom-in, hold, NumPages x (scroll, pause), zoom-out.
type Plan struct {
	FPS        int     `yaml:"fps"`
	TargetZoom float64 `yaml:"target_zoom"`
	MaxScroll  float64 `yaml:"max_scroll"`
	HasScroll  bool    `yaml:"has_scroll"`

	ZoomInFrames  int       `yaml:"zoom_in_frames"`
	HoldFrames    int       `yaml:"hold_frames"`
	PageHeight    float64   `yaml:"page_height"`
	NumPages      int       `yaml:"num_pages"`
	ScrollFrames  int       `yaml:"scroll_frames"`
	PauseFrames   int       `yaml:"pause_frames"`
	ZoomOutFrames int       `yaml:"zoom_out_frames"`
	PageTargets   []float64 `yaml:"page_targets"`

	TotalFrames int `yaml:"total_frames"`
}

// Frame is the transform of a single frame. It exists only while that frame
// is being composited.
type Frame struct {
	Index        int
	Zoom         float64
	Scroll       float64
	ShowProgress bool
	Progress     float64
}

// NewPlan computes the phase schedule. Calling it twice with the same inputs
// yields identical plans.
func NewPlan(m layout.Metrics, cfg *config.Config) Plan {
	fps := float64(cfg.FPS)
	p := Plan{
		FPS:          cfg.FPS,
		TargetZoom:   m.TargetZoom,
		MaxScroll:    m.MaxScroll,
		HasScroll:    m.HasScroll,
		ZoomInFrames: frames(fps, zoomSeconds),
		HoldFrames:   frames(fps, cfg.PageWait),
	}
	if m.HasScroll {
		// Each page advances by the visible band minus the configured
		// overlap, but always by at least one line.
		p.PageHeight = math.Max(m.LineHeight, m.VisibleBand-m.LineHeight*float64(cfg.OverlapLines))
		p.NumPages = int(math.Ceil(m.MaxScroll / p.PageHeight))
		if p.NumPages < 1 {
			p.NumPages = 1
		}
		p.ScrollFrames = frames(fps, scrollSeconds)
		p.PauseFrames = frames(fps, cfg.PageWait)
		p.PageTargets = make([]float64, p.NumPages)
		for k := range p.PageTargets {
			p.PageTargets[k] = math.Min(m.MaxScroll, float64(k+1)*p.PageHeight)
		}
		p.ZoomOutFrames = p.ZoomInFrames
	} else {
		// No scrolling: a short static outro instead of a zoom-out.
		p.ZoomOutFrames = frames(fps, outroSeconds)
	}
	p.TotalFrames = p.ZoomInFrames + p.HoldFrames +
		p.NumPages*(p.ScrollFrames+p.PauseFrames) + p.ZoomOutFrames
	return p
}

// Duration is the animation length in seconds.
func (p Plan) Duration() float64 {
	return float64(p.TotalFrames) / float64(p.FPS)
}

// FrameAt resolves a 0-based frame index into its transform.
func (p Plan) FrameAt(i int) Frame {
	f := Frame{Index: i, Zoom: 1}
	off := i

	if off < p.ZoomInFrames {
		f.Zoom = 1 + (p.TargetZoom-1)*easedAt(off, p.ZoomInFrames)
		return f
	}
	off -= p.ZoomInFrames
	f.Zoom = p.TargetZoom

	if off < p.HoldFrames {
		f.ShowProgress = true
		f.Progress = float64(off+1) / float64(p.HoldFrames)
		return f
	}
	off -= p.HoldFrames

	pageLen := p.ScrollFrames + p.PauseFrames
	if p.HasScroll && pageLen > 0 && off < p.NumPages*pageLen {
		page := off / pageLen
		po := off % pageLen
		from := 0.0
		if page > 0 {
			from = p.PageTargets[page-1]
		}
		to := p.PageTargets[page]
		if po < p.ScrollFrames {
			f.Scroll = from + (to-from)*easedAt(po, p.ScrollFrames)
		} else {
			f.Scroll = to
			f.ShowProgress = true
			f.Progress = float64(po-p.ScrollFrames+1) / float64(p.PauseFrames)
		}
		return f
	}
	if p.HasScroll && pageLen > 0 {
		off -= p.NumPages * pageLen
	}

	if p.HasScroll {
		f.Scroll = p.MaxScroll
		f.Zoom = p.TargetZoom + (1-p.TargetZoom)*easedAt(off, p.ZoomOutFrames)
	} else {
		// Static outro at natural scale.
		f.Zoom = 1
	}
	return f
}

// easedAt maps a 0-based offset within an n-frame phase to eased progress:
// the first frame sits exactly at the start, the last exactly on target.
func easedAt(offset, n int) float64 {
	if n <= 1 {
		return 1
	}
	t := float64(offset) / float64(n-1)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return ease.OutCubic(t)
}

func frames(fps, seconds float64) int {
	return int(math.Round(fps * seconds))
}
