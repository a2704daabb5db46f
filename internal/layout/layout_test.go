package layout

import (
	"math"
	"testing"

	"github.com/natew/mmmd/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		OutputPath:    "out.mp4",
		Size:          "medium",
		Aspect:        "landscape",
		Padding:       "medium",
		Columns:       80,
		FPS:           30,
		Quality:       23,
		PageWait:      4,
		OverlapLines:  4,
		BackgroundHex: "#0d1117",
		WindowHex:     "#161b22",
		BorderHex:     "#30363d",
	}
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return cfg
}

func TestComputeGeometry(t *testing.T) {
	cfg := testConfig(t)
	m := Compute(cfg, 10, 10.8)

	if m.LineHeight != cfg.FontSize*1.4 {
		t.Errorf("Expected line height %v, got %v", cfg.FontSize*1.4, m.LineHeight)
	}
	if m.ContentW != 80*10.8 {
		t.Errorf("Expected content width %v, got %v", 80*10.8, m.ContentW)
	}
	if m.WinW != m.ContentW+2*m.Padding {
		t.Errorf("Window width must be content plus padding on both sides")
	}
	// Horizontally centered, vertically inset by padding.
	if math.Abs(m.WinX-(m.CanvasW-m.WinW)/2) > 1e-9 {
		t.Errorf("Window not centered: x=%v w=%v canvas=%v", m.WinX, m.WinW, m.CanvasW)
	}
	if m.WinY != m.Padding {
		t.Errorf("Expected window y %v, got %v", m.Padding, m.WinY)
	}
	if m.WinH != m.CanvasH-2*m.Padding {
		t.Errorf("Expected window height %v, got %v", m.CanvasH-2*m.Padding, m.WinH)
	}
	if m.VisibleBand != m.WinH-TitleBarHeight-m.Padding {
		t.Errorf("Expected visible band %v, got %v", m.WinH-TitleBarHeight-m.Padding, m.VisibleBand)
	}
	if m.ContentY != m.WinY+TitleBarHeight {
		t.Errorf("Content must start below the title bar")
	}
}

func TestTargetZoomFillsCanvasWidth(t *testing.T) {
	cfg := testConfig(t)
	m := Compute(cfg, 10, 10.8)
	if math.Abs(m.WinW*m.TargetZoom-m.CanvasW) > 1e-9 {
		t.Errorf("At target zoom the window must fill the canvas width: %v * %v != %v",
			m.WinW, m.TargetZoom, m.CanvasW)
	}
}

// Short documents must never produce a negative scroll range.
func TestScrollBound(t *testing.T) {
	cfg := testConfig(t)

	m := Compute(cfg, 1, 10.8)
	if m.MaxScroll != 0 {
		t.Errorf("One-line document: expected maxScroll 0, got %v", m.MaxScroll)
	}
	if m.HasScroll {
		t.Errorf("One-line document must not scroll")
	}

	m = Compute(cfg, 500, 10.8)
	if m.MaxScroll <= 0 || !m.HasScroll {
		t.Errorf("500-line document must scroll, got maxScroll %v", m.MaxScroll)
	}
	want := 500*m.LineHeight - m.VisibleBand + m.Padding
	if math.Abs(m.MaxScroll-want) > 1e-9 {
		t.Errorf("Expected maxScroll %v, got %v", want, m.MaxScroll)
	}
}

func TestScrollBoundaryExact(t *testing.T) {
	cfg := testConfig(t)
	m := Compute(cfg, 0, 10.8)
	if m.MaxScroll != 0 || m.HasScroll {
		t.Errorf("Empty document: expected no scroll, got %v", m.MaxScroll)
	}
	// Content exactly filling the band minus the bottom margin: still no scroll.
	lines := int((m.VisibleBand - m.Padding) / m.LineHeight)
	m = Compute(cfg, lines, 10.8)
	if m.HasScroll {
		t.Errorf("Fitting document must not scroll: maxScroll %v", m.MaxScroll)
	}
}
