// Package system probes the host: file-descriptor limits, available ffmpeg
// encoders and a sane size for the frame-render worker pool.
package system

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit so a large frame sequence
// does not trip the default soft cap.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Could not read the open-file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] Could not raise the open-file limit: %v", err)
	} else {
		fmt.Printf("[*] Open-file limit raised to %d\n", rLimit.Cur)
	}
}

// BestH264Encoder probes ffmpeg for hardware H.264 encoders, preferring
// VideoToolbox, then NVENC, then software x264.
func BestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// Workers clamps the requested frame-pool size by the logical CPU count and
// by available memory, so the concurrent canvas buffers stay comfortable.
func Workers(requested, canvasW, canvasH int) int {
	w := requested
	if w < 1 {
		w = 1
	}
	if n, err := cpu.Counts(true); err == nil && n >= 1 && w > n {
		w = n
	}
	frameBytes := uint64(canvasW) * uint64(canvasH) * 4
	if frameBytes == 0 {
		return w
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		// Each worker holds a canvas buffer plus PNG encoding overhead;
		// budget half of what is available.
		budget := vm.Available / 2
		if maxByMem := int(budget / (frameBytes * 3)); maxByMem >= 1 && w > maxByMem {
			w = maxByMem
		}
	}
	if w < 1 {
		w = 1
	}
	return w
}
