// Package typeface resolves the monospace font family used by the
// compositor. By default the four embedded Go Mono faces are used; a named
// family is looked up through fontconfig and falls back to the embedded
// faces when it cannot be resolved.
package typeface

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Family bundles the regular/bold/italic/bold-italic fonts plus the metrics
// measured at the base size. The parsed fonts are safe to share; faces built
// from them are not, so each compositor builds its own.
type Family struct {
	regular    *sfnt.Font
	bold       *sfnt.Font
	italic     *sfnt.Font
	boldItalic *sfnt.Font

	BaseSize  float64
	CharWidth float64 // advance of one cell at BaseSize
	Ascent    float64
	Descent   float64
}

// Load resolves the family and measures its metrics at the given pixel size.
// An empty family name selects the embedded Go Mono.
func Load(family string, size float64) (*Family, error) {
	f := &Family{BaseSize: size}
	if family == "" {
		if err := f.loadEmbedded(); err != nil {
			return nil, err
		}
	} else if err := f.loadSystem(family); err != nil {
		fmt.Printf("[!] Font %q not usable (%v), falling back to embedded Go Mono\n", family, err)
		if err := f.loadEmbedded(); err != nil {
			return nil, err
		}
	}

	face, err := f.Face(false, false, size)
	if err != nil {
		return nil, fmt.Errorf("build reference face: %w", err)
	}
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("typeface has no advance for the reference glyph")
	}
	f.CharWidth = fixedToFloat(adv)
	met := face.Metrics()
	f.Ascent = fixedToFloat(met.Ascent)
	f.Descent = fixedToFloat(met.Descent)
	return f, nil
}

// Face builds a font.Face for one style variant at an arbitrary pixel size.
// Faces are stateful and must not be shared between goroutines.
func (f *Family) Face(bold, italic bool, size float64) (font.Face, error) {
	return opentype.NewFace(f.pick(bold, italic), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (f *Family) pick(bold, italic bool) *sfnt.Font {
	switch {
	case bold && italic:
		return f.boldItalic
	case bold:
		return f.bold
	case italic:
		return f.italic
	default:
		return f.regular
	}
}

func (f *Family) loadEmbedded() error {
	var err error
	if f.regular, err = opentype.Parse(gomono.TTF); err != nil {
		return fmt.Errorf("parse embedded regular: %w", err)
	}
	if f.bold, err = opentype.Parse(gomonobold.TTF); err != nil {
		return fmt.Errorf("parse embedded bold: %w", err)
	}
	if f.italic, err = opentype.Parse(gomonoitalic.TTF); err != nil {
		return fmt.Errorf("parse embedded italic: %w", err)
	}
	if f.boldItalic, err = opentype.Parse(gomonobolditalic.TTF); err != nil {
		return fmt.Errorf("parse embedded bold italic: %w", err)
	}
	return nil
}

// loadSystem resolves each style variant through fc-match. Any failure makes
// the whole family fall back to the embedded one.
func (f *Family) loadSystem(family string) error {
	variants := []struct {
		dst   **sfnt.Font
		style string
	}{
		{&f.regular, "Regular"},
		{&f.bold, "Bold"},
		{&f.italic, "Italic"},
		{&f.boldItalic, "Bold Italic"},
	}
	for _, v := range variants {
		fnt, err := matchSystemFont(family, v.style)
		if err != nil {
			return err
		}
		*v.dst = fnt
	}
	return nil
}

func matchSystemFont(family, style string) (*sfnt.Font, error) {
	out, err := exec.Command("fc-match", "-f", "%{file}",
		fmt.Sprintf("%s:style=%s", family, style)).Output()
	if err != nil {
		return nil, fmt.Errorf("fc-match: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return nil, fmt.Errorf("fc-match found nothing for %q", family)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fnt, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
