// Package ansi splits styled terminal text into spans of uniformly styled
// characters. Only SGR ("set graphics attribute", ESC[...m) sequences carry
// meaning; every other escape sequence is stripped. Parsing never fails:
// malformed or unknown codes are ignored and the surrounding text survives.
package ansi

import (
	"strconv"
	"strings"
)

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one row of source text as an ordered sequence of spans.
// Concatenating the spans' text reproduces the row with escapes stripped.
type Line []Span

// Document is the parsed form of a full rendered text.
type Document []Line

// Text returns the visible characters of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// ParseDocument splits raw on line breaks and parses each line
// independently. A single trailing newline does not produce an extra
// empty line.
func ParseDocument(raw string) Document {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimSuffix(raw, "\n")
	rows := strings.Split(raw, "\n")
	doc := make(Document, len(rows))
	for i, r := range rows {
		doc[i] = ParseLine(r)
	}
	return doc
}

const escByte = 0x1b

// ParseLine scans one row of raw text and returns its spans. The running
// style starts empty on every call; styles never leak between lines. A line
// with no escape sequences yields exactly one span with the empty style.
func ParseLine(s string) Line {
	var line Line
	var cur Style
	start := 0
	i := 0
	for i < len(s) {
		if s[i] != escByte {
			i++
			continue
		}
		if i > start {
			line = append(line, Span{Text: s[start:i], Style: cur})
		}
		if i+1 >= len(s) || s[i+1] != '[' {
			// Stray ESC: drop the byte and keep scanning.
			i++
			start = i
			continue
		}
		j := i + 2
		for j < len(s) && s[j] >= 0x20 && s[j] <= 0x3f {
			j++
		}
		if j >= len(s) {
			// Dangling sequence at end of line.
			start = len(s)
			break
		}
		if s[j] == 'm' {
			cur = applyCodes(cur, s[i+2:j])
		}
		if s[j] >= 0x40 && s[j] <= 0x7e {
			j++ // consume the final byte of any CSI sequence
		}
		i, start = j, j
	}
	if start < len(s) {
		line = append(line, Span{Text: s[start:], Style: cur})
	}
	if len(line) == 0 {
		line = Line{{Style: cur}}
	}
	return line
}

// applyCodes folds a semicolon-separated SGR parameter list into the style.
// An empty list means reset.
func applyCodes(st Style, params string) Style {
	if params == "" {
		return Style{}
	}
	parts := strings.Split(params, ";")
	for k := 0; k < len(parts); k++ {
		p := parts[k]
		if p == "" {
			st = st.apply(0)
			continue
		}
		code, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		// Extended color introducers carry a payload. The palette here is
		// the fixed 16 entries, so the payload is skipped, not applied.
		if code == 38 || code == 48 {
			if k+1 < len(parts) {
				switch parts[k+1] {
				case "5":
					k += 2
				case "2":
					k += 4
				}
			}
			continue
		}
		st = st.apply(code)
	}
	return st
}
