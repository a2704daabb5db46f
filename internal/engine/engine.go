// Package engine orchestrates a run: render the styled text once, plan the
// timeline, rasterize every frame into a scratch directory through a worker
// pool, then hand the sequence to the encoder. The scratch directory is
// removed on every exit path.
package engine

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/natew/mmmd/internal/ansi"
	"github.com/natew/mmmd/internal/compositor"
	"github.com/natew/mmmd/internal/config"
	"github.com/natew/mmmd/internal/layout"
	"github.com/natew/mmmd/internal/render"
	"github.com/natew/mmmd/internal/system"
	"github.com/natew/mmmd/internal/timeline"
	"github.com/natew/mmmd/internal/typeface"
	"github.com/natew/mmmd/internal/video"
)

const framePattern = "frame_%05d.png"

type Project struct {
	Config  *config.Config
	Source  render.Source
	Encoder video.Encoder
}

func New(cfg *config.Config, src render.Source, enc video.Encoder) *Project {
	return &Project{Config: cfg, Source: src, Encoder: enc}
}

// Run produces the video. There is no partial output: either every frame is
// generated and encoded, or the run fails with an error.
func (p *Project) Run(ctx context.Context) error {
	start := time.Now()
	cfg := p.Config

	raw, err := p.Source.Render(ctx, cfg.Columns)
	if err != nil {
		return fmt.Errorf("render styled text: %w", err)
	}
	doc := ansi.ParseDocument(raw)

	fonts, err := typeface.Load(cfg.FontFamily, cfg.FontSize)
	if err != nil {
		return fmt.Errorf("load typeface: %w", err)
	}

	m := layout.Compute(cfg, len(doc), fonts.CharWidth)
	plan := timeline.NewPlan(m, cfg)

	if cfg.PlanPath != "" {
		if err := timeline.WritePlan(plan, cfg.PlanPath); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		fmt.Printf("[*] Timeline saved: %s\n", cfg.PlanPath)
	}

	var qr image.Image
	if cfg.QRURL != "" {
		if qr, err = badgeImage(cfg); err != nil {
			return err
		}
	}

	tempDir, err := os.MkdirTemp("", "mmmd_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	fmt.Printf("[*] Document: %d lines | Pages: %d\n", len(doc), plan.NumPages)
	fmt.Printf("[*] Canvas: %dx%d @ %d FPS | Frames: %d (%.1fs)\n",
		cfg.CanvasW, cfg.CanvasH, cfg.FPS, plan.TotalFrames, plan.Duration())

	workers := system.Workers(cfg.Workers, cfg.CanvasW, cfg.CanvasH)
	if workers > plan.TotalFrames {
		workers = plan.TotalFrames
	}

	// One compositor per worker; each owns a reusable canvas buffer.
	comps := make(chan *compositor.Compositor, workers)
	for i := 0; i < workers; i++ {
		c, err := compositor.New(m, cfg, doc, fonts, qr)
		if err != nil {
			return fmt.Errorf("init compositor: %w", err)
		}
		comps <- c
	}

	// Frames are a pure function of their index, so the pool renders them
	// in any order; the zero-padded names restore the order for ffmpeg.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done atomic.Int64
	step := plan.TotalFrames / 10
	enc := png.Encoder{CompressionLevel: png.BestSpeed}

	for i := 0; i < plan.TotalFrames; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := <-comps
			defer func() { comps <- c }()

			img := c.RenderFrame(plan.FrameAt(i))
			path := filepath.Join(tempDir, fmt.Sprintf(framePattern, i))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			if err := enc.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("encode frame %d: %w", i, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}

			n := done.Add(1)
			if step > 0 && n%int64(step) == 0 {
				fmt.Printf("[>] Frames: %d%% (%d/%d)\n",
					n*100/int64(plan.TotalFrames), n, plan.TotalFrames)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("frame generation: %w", err)
	}

	fmt.Println("[*] Encoding video...")
	pattern := filepath.Join(tempDir, framePattern)
	if err := p.Encoder.Encode(ctx, pattern, cfg.FPS, cfg.Quality, cfg.OutputPath); err != nil {
		return fmt.Errorf("encode video: %w", err)
	}

	fmt.Printf("[+] Finished in %.1fs\n", time.Since(start).Seconds())
	return nil
}

// badgeImage renders the QR badge once; it is composited onto every frame in
// screen coordinates.
func badgeImage(cfg *config.Config) (image.Image, error) {
	q, err := qrcode.New(cfg.QRURL, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr badge: %w", err)
	}
	q.BackgroundColor = cfg.Window
	q.ForegroundColor = color.RGBA{0xf0, 0xf6, 0xfc, 0xff}
	size := cfg.CanvasW / 12
	if size < 72 {
		size = 72
	}
	return q.Image(size), nil
}
