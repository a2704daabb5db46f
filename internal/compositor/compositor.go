// Package compositor rasterizes single frames: window chrome, clipped styled
// text, progress bar and optional QR badge. A Compositor owns one reusable
// canvas buffer and a private face cache, so each render worker gets its own
// instance.
package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/natew/mmmd/internal/ansi"
	"github.com/natew/mmmd/internal/config"
	"github.com/natew/mmmd/internal/layout"
	"github.com/natew/mmmd/internal/timeline"
)

var (
	dotRed    = color.RGBA{0xff, 0x5f, 0x56, 0xff}
	dotYellow = color.RGBA{0xff, 0xbd, 0x2e, 0xff}
	dotGreen  = color.RGBA{0x27, 0xc9, 0x3f, 0xff}
	dimGray   = color.RGBA{0x8b, 0x94, 0x9e, 0xff}
	textWhite = color.RGBA{0xf0, 0xf6, 0xfc, 0xff}
)

const (
	dotRadius  = 7.0
	dotSpacing = 22.0
	dotInset   = 24.0
)

type faceKey struct {
	bold, italic bool
	size         int32 // quarter pixels
}

type faceSource interface {
	Face(bold, italic bool, size float64) (font.Face, error)
}

type Compositor struct {
	m     layout.Metrics
	cfg   *config.Config
	doc   ansi.Document
	fonts faceSource
	qr    image.Image

	img      *image.RGBA
	dc       *gg.Context
	faces    map[faceKey]font.Face
	fallback font.Face
}

// New builds a compositor with its own canvas buffer. The document, metrics
// and configuration are shared read-only.
func New(m layout.Metrics, cfg *config.Config, doc ansi.Document, fonts faceSource, qr image.Image) (*Compositor, error) {
	fallback, err := fonts.Face(false, false, m.FontSize)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(m.CanvasW), int(m.CanvasH)))
	return &Compositor{
		m:        m,
		cfg:      cfg,
		doc:      doc,
		fonts:    fonts,
		qr:       qr,
		img:      img,
		dc:       gg.NewContextForRGBA(img),
		faces:    make(map[faceKey]font.Face),
		fallback: fallback,
	}, nil
}

// RenderFrame draws one frame into the compositor's buffer and returns it.
// The buffer is reused: the caller must be done with it before the next
// call.
func (c *Compositor) RenderFrame(f timeline.Frame) *image.RGBA {
	dc := c.dc
	zoom := f.Zoom

	dc.SetColor(c.cfg.Background)
	dc.Clear()

	wx := c.tx(c.m.WinX, zoom)
	wy := c.ty(c.m.WinY, zoom)
	ww := c.m.WinW * zoom
	wh := c.m.WinH * zoom
	radius := layout.CornerRadius * zoom

	// Layered translucent shadow under the window.
	for i := 1; i <= 4; i++ {
		o := float64(i) * 3 * zoom
		dc.SetRGBA(0, 0, 0, 0.06)
		dc.DrawRoundedRectangle(wx-o/2, wy+o/2, ww+o, wh+o, radius+o/2)
		dc.Fill()
	}

	dc.SetColor(c.cfg.Window)
	dc.DrawRoundedRectangle(wx, wy, ww, wh, radius)
	dc.FillPreserve()
	dc.SetColor(c.cfg.Border)
	dc.SetLineWidth(layout.BorderWidth * zoom)
	dc.Stroke()

	// Status dots in the title bar.
	dotY := wy + layout.TitleBarHeight*zoom/2
	for i, col := range []color.RGBA{dotRed, dotYellow, dotGreen} {
		dc.SetColor(col)
		dc.DrawCircle(wx+(dotInset+float64(i)*dotSpacing)*zoom, dotY, dotRadius*zoom)
		dc.Fill()
	}

	c.drawContent(f)

	// Everything below is in fixed screen coordinates, outside the zoom.
	if f.ShowProgress {
		c.drawProgress(f.Progress)
	}
	if c.qr != nil {
		c.drawBadge()
	}
	return c.img
}

// tx maps an unscaled x coordinate through the zoom about the canvas center.
func (c *Compositor) tx(x, zoom float64) float64 {
	pivot := c.m.CanvasW / 2
	return pivot + (x-pivot)*zoom
}

// ty maps an unscaled y coordinate through the zoom about the top of the
// content area, so the zoom appears to originate from the top of the window.
func (c *Compositor) ty(y, zoom float64) float64 {
	pivot := c.m.ContentY
	return pivot + (y-pivot)*zoom
}

func (c *Compositor) drawContent(f timeline.Frame) {
	dc := c.dc
	zoom := f.Zoom

	bandTop := c.ty(c.m.ContentY, zoom)
	bandH := c.m.VisibleBand * zoom
	winX := c.tx(c.m.WinX, zoom)

	dc.DrawRectangle(winX, bandTop, c.m.WinW*zoom, bandH)
	dc.Clip()

	startX := c.tx(c.m.ContentX, zoom)
	for i, line := range c.doc {
		// Line top in band-local pixels after scrolling.
		top := float64(i)*c.m.LineHeight - f.Scroll
		if top > c.m.VisibleBand+c.m.LineHeight || top < -2*c.m.LineHeight {
			continue
		}
		// Center the glyph box inside the line box.
		ascent := c.lineAscent()
		baseline := bandTop + (top+(c.m.LineHeight-(ascent+c.lineDescent()))/2+ascent)*zoom

		x := startX
		for _, sp := range line {
			if sp.Text == "" {
				continue
			}
			adv := c.advance(sp.Style, sp.Text)
			face := c.face(sp.Style.Bold, sp.Style.Italic, c.m.FontSize*zoom)
			dc.SetFontFace(face)
			dc.SetColor(spanColor(sp.Style))
			dc.DrawString(sp.Text, x, baseline)
			if sp.Style.Underline {
				dc.SetLineWidth(math.Max(1, zoom))
				dc.DrawLine(x, baseline+3*zoom, x+adv*zoom, baseline+3*zoom)
				dc.Stroke()
			}
			x += adv * zoom
		}
	}

	dc.ResetClip()
}

// advance measures the span's width at the base size; the caller scales it.
func (c *Compositor) advance(st ansi.Style, text string) float64 {
	face := c.face(st.Bold, st.Italic, c.m.FontSize)
	return float64(font.MeasureString(face, text)) / 64
}

func (c *Compositor) lineAscent() float64 {
	return float64(c.fallback.Metrics().Ascent) / 64
}

func (c *Compositor) lineDescent() float64 {
	return float64(c.fallback.Metrics().Descent) / 64
}

// face returns a cached face for the style variant at the given size,
// quantized to quarter pixels so the cache stays small across zoom steps.
func (c *Compositor) face(bold, italic bool, size float64) font.Face {
	key := faceKey{bold: bold, italic: italic, size: int32(math.Round(size * 4))}
	if f, ok := c.faces[key]; ok {
		return f
	}
	f, err := c.fonts.Face(bold, italic, float64(key.size)/4)
	if err != nil {
		f = c.fallback
	}
	c.faces[key] = f
	return f
}

func spanColor(st ansi.Style) color.RGBA {
	if rgba, ok := st.Fg.RGBA(); ok {
		return rgba
	}
	if st.Dim {
		return dimGray
	}
	return textWhite
}

func (c *Compositor) drawProgress(p float64) {
	dc := c.dc
	w := c.m.CanvasW * 0.25
	h := 5.0
	x := (c.m.CanvasW - w) / 2
	y := c.m.CanvasH - 24

	dc.SetColor(c.cfg.Border)
	dc.DrawRoundedRectangle(x, y, w, h, h/2)
	dc.Fill()

	if p <= 0 {
		return
	}
	if p > 1 {
		p = 1
	}
	fill := math.Max(w*p, h) // keep the rounded caps well-formed
	dc.SetColor(textWhite)
	dc.DrawRoundedRectangle(x, y, fill, h, h/2)
	dc.Fill()
}

func (c *Compositor) drawBadge() {
	b := c.qr.Bounds()
	x := int(c.m.CanvasW) - b.Dx() - 24
	y := int(c.m.CanvasH) - b.Dy() - 24
	c.dc.DrawImage(c.qr, x, y)
}
