// Package layout derives the fixed geometry of a run: canvas, window
// rectangle, visible text band and scroll range. Everything is computed once
// from the resolved configuration and the parsed document.
package layout

import (
	"math"

	"github.com/natew/mmmd/internal/config"
)

const (
	// TitleBarHeight is the chrome strip holding the status dots.
	TitleBarHeight = 36.0
	// CornerRadius of the window rectangle.
	CornerRadius = 12.0
	// BorderWidth of the window stroke at scale 1.
	BorderWidth = 1.5
	// lineHeightScale converts font pixels to line pixels.
	lineHeightScale = 1.4
)

// Metrics is the geometry shared read-only by the planner and compositor.
// All values are in unscaled canvas pixels.
type Metrics struct {
	CanvasW, CanvasH float64
	Padding          float64
	FontSize         float64
	LineHeight       float64
	CharWidth        float64

	ContentW   float64 // columns x character width
	WinX, WinY float64
	WinW, WinH float64
	ContentX   float64 // left edge of the text
	ContentY   float64 // top of the text band, below the title bar

	VisibleBand  float64
	LineCount    int
	TotalContent float64
	MaxScroll    float64
	HasScroll    bool

	// TargetZoom is the scale at which the window fills the canvas width.
	TargetZoom float64
}

// Compute derives the metrics from the resolved configuration, the document
// line count and the measured monospace character width.
func Compute(cfg *config.Config, lineCount int, charWidth float64) Metrics {
	m := Metrics{
		CanvasW:   float64(cfg.CanvasW),
		CanvasH:   float64(cfg.CanvasH),
		Padding:   cfg.PaddingPx,
		FontSize:  cfg.FontSize,
		CharWidth: charWidth,
		LineCount: lineCount,
	}
	m.LineHeight = m.FontSize * lineHeightScale
	m.ContentW = float64(cfg.Columns) * charWidth
	m.WinW = m.ContentW + 2*m.Padding
	m.WinH = m.CanvasH - 2*m.Padding
	m.WinX = (m.CanvasW - m.WinW) / 2
	m.WinY = m.Padding
	m.ContentX = m.WinX + m.Padding
	m.ContentY = m.WinY + TitleBarHeight
	m.VisibleBand = m.WinH - TitleBarHeight - m.Padding
	m.TotalContent = float64(lineCount) * m.LineHeight
	// The padding doubles as a bottom margin under the last line.
	m.MaxScroll = math.Max(0, m.TotalContent-m.VisibleBand+m.Padding)
	m.HasScroll = m.MaxScroll > 0
	m.TargetZoom = m.CanvasW / m.WinW
	return m
}
