// Package render is the input boundary: it produces the ANSI-styled text the
// animation consumes, either from an external markdown renderer or from a
// pre-styled stream.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Source delivers one styled text for the whole run. Render blocks, runs
// once before any frame is produced, and a failure aborts the run with no
// frames emitted.
type Source interface {
	Render(ctx context.Context, columns int) (string, error)
}

// CommandSource runs an external markdown renderer (glow by default) and
// captures its styled output.
type CommandSource struct {
	Command string
	Style   string
	Path    string
}

func (s *CommandSource) args(columns int) []string {
	return []string{"-s", s.Style, "-w", strconv.Itoa(columns), s.Path}
}

func (s *CommandSource) Render(ctx context.Context, columns int) (string, error) {
	cmd := exec.CommandContext(ctx, s.Command, s.args(columns)...)
	// Styling must survive the pipe.
	cmd.Env = append(os.Environ(), "CLICOLOR_FORCE=1")

	var out, diag bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &diag
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w, output: %s", s.Command, err, diag.String())
	}
	return out.String(), nil
}

// ReaderSource consumes already-styled text and wraps it to the column
// count, since no external renderer did the wrapping.
type ReaderSource struct {
	R io.Reader
}

func (s *ReaderSource) Render(ctx context.Context, columns int) (string, error) {
	data, err := io.ReadAll(s.R)
	if err != nil {
		return "", fmt.Errorf("read styled input: %w", err)
	}
	// Word wrap first, then hard-wrap anything unbreakable. Both are
	// ANSI-aware: escape sequences carry no width.
	text := wordwrap.String(string(data), columns)
	return wrap.String(text, columns), nil
}
