package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/natew/mmmd/internal/config"
	"github.com/natew/mmmd/internal/engine"
	"github.com/natew/mmmd/internal/render"
	"github.com/natew/mmmd/internal/system"
	"github.com/natew/mmmd/internal/video"
)

func main() {
	system.InitResourceLimits()

	inputPtr := flag.String("input", "", "Markdown file (default: first positional argument, then README.md)")
	outputPtr := flag.String("o", "", "Output video path (default: <input>.mp4)")
	sizePtr := flag.String("size", "medium", "Canvas size: small, medium, large")
	aspectPtr := flag.String("aspect", "landscape", "Canvas aspect: landscape, portrait, square")
	paddingPtr := flag.String("padding", "medium", "Window padding: small, medium, large")
	columnsPtr := flag.Int("columns", 80, "Rendered text width in columns")
	fpsPtr := flag.Int("fps", 30, "Frames per second")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 = auto; x264: CRF, VideoToolbox: bitrate = Q*100kbit/s)")
	fontPtr := flag.String("font", "", "Monospace font family (default: embedded Go Mono)")
	waitPtr := flag.Float64("wait", 4.0, "Seconds to pause on each page")
	overlapPtr := flag.Int("overlap", 4, "Lines of overlap between pages")
	bgPtr := flag.String("bg", "#0d1117", "Canvas background color")
	windowPtr := flag.String("window", "#161b22", "Window fill color")
	borderPtr := flag.String("border", "#30363d", "Window border color")
	themePtr := flag.String("theme", "", "YAML theme file (colors, font, renderer style)")
	qrPtr := flag.String("qr", "", "URL to render as a corner QR badge")
	planPtr := flag.String("plan", "", "Write the computed timeline to a YAML file")
	rendererPtr := flag.String("renderer", "glow", "Markdown renderer command")
	stylePtr := flag.String("style", "dark", "Renderer style")
	stdinPtr := flag.Bool("stdin", false, "Read pre-styled text from stdin instead of running the renderer")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Frame render workers")

	flag.Parse()

	// Flags given explicitly win over theme values.
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	inputPath := *inputPtr
	if inputPath == "" && flag.NArg() > 0 {
		inputPath = flag.Arg(0)
	}
	if inputPath == "" && !*stdinPtr {
		inputPath = "README.md"
		fmt.Printf("[*] No input given, using %s\n", inputPath)
	}

	output := *outputPtr
	if output == "" {
		if *stdinPtr {
			output = "output.mp4"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			output = base + ".mp4"
		}
	}

	encoderName := system.BestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Hardware encoder detected: %s\n", encoderName)
	}

	quality := *qualityPtr
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75 // bitrate units, 7.5 Mbit/s
		case "h264_nvenc":
			quality = 28 // CRF equivalent for NVENC
		default:
			quality = 23 // standard CRF for x264
		}
	}

	cfg := &config.Config{
		InputPath:     inputPath,
		OutputPath:    output,
		Size:          *sizePtr,
		Aspect:        *aspectPtr,
		Padding:       *paddingPtr,
		Columns:       *columnsPtr,
		FPS:           *fpsPtr,
		Quality:       quality,
		FontFamily:    *fontPtr,
		PageWait:      *waitPtr,
		OverlapLines:  *overlapPtr,
		Workers:       *workersPtr,
		BackgroundHex: *bgPtr,
		WindowHex:     *windowPtr,
		BorderHex:     *borderPtr,
		RendererCmd:   *rendererPtr,
		RendererStyle: *stylePtr,
		FromStdin:     *stdinPtr,
		ThemePath:     *themePtr,
		PlanPath:      *planPtr,
		QRURL:         *qrPtr,
		VideoEncoder:  encoderName,
	}

	if cfg.ThemePath != "" {
		theme, err := config.LoadTheme(cfg.ThemePath)
		if err != nil {
			log.Fatalf("[-] Theme error: %v", err)
		}
		cfg.ApplyTheme(theme, explicit)
		fmt.Printf("[*] Theme applied: %s\n", cfg.ThemePath)
	}

	if err := cfg.Resolve(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	var src render.Source
	if cfg.FromStdin {
		src = &render.ReaderSource{R: os.Stdin}
	} else {
		if _, err := os.Stat(cfg.InputPath); err != nil {
			log.Fatalf("[-] Input error: %v", err)
		}
		src = &render.CommandSource{
			Command: cfg.RendererCmd,
			Style:   cfg.RendererStyle,
			Path:    cfg.InputPath,
		}
	}

	project := engine.New(cfg, src, &video.FFmpegEncoder{Codec: cfg.VideoEncoder})
	if err := project.Run(context.Background()); err != nil {
		log.Fatalf("[-] Run failed: %v", err)
	}

	fmt.Printf("[+++] Done! Output: %s\n", cfg.OutputPath)
}
