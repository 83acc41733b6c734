package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/chebgo/internal/config"
	"github.com/agbru/chebgo/internal/ui"
)

// CPUFeatures lists the floating-point relevant instruction set extensions
// of the host, or "none detected".
func CPUFeatures() string {
	var fs []string
	switch runtime.GOARCH {
	case "amd64", "386":
		for _, f := range []struct {
			ok   bool
			name string
		}{
			{cpu.X86.HasSSE41, "SSE4.1"},
			{cpu.X86.HasAVX, "AVX"},
			{cpu.X86.HasAVX2, "AVX2"},
			{cpu.X86.HasFMA, "FMA"},
			{cpu.X86.HasAVX512F, "AVX-512F"},
		} {
			if f.ok {
				fs = append(fs, f.name)
			}
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			fs = append(fs, "ASIMD")
		}
		if cpu.ARM64.HasFPHP {
			fs = append(fs, "FPHP")
		}
	}
	if len(fs) == 0 {
		return "none detected"
	}
	return strings.Join(fs, " ")
}

// PrintExecutionConfig shows what is about to be constructed and on which
// host.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	t := ui.GetCurrentTheme()
	domain := cfg.Domain
	if domain == "" {
		domain = "catalog default"
	}
	tech := cfg.Tech
	if tech == "" {
		tech = "catalog default"
	}
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Constructing %s%s%s on %s (%s basis) with a timeout of %s%s%s.\n",
		t.Info, cfg.Function, t.Reset, domain, tech, t.Warning, cfg.Timeout, t.Reset)
	fmt.Fprintf(out, "Grid: min %d, max %d points, %s refinement.\n", cfg.MinSamples, cfg.MaxLength, cfg.Refinement)
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		t.Secondary, runtime.NumCPU(), t.Reset, t.Secondary, runtime.Version(), t.Reset, CPUFeatures())
}

// PrintExecutionMode announces a single construction or a comparison.
func PrintExecutionMode(strategies []string, out io.Writer) {
	t := ui.GetCurrentTheme()
	if len(strategies) > 1 {
		fmt.Fprintf(out, "Execution mode: parallel comparison of %d happiness checks.\n", len(strategies))
	} else if len(strategies) == 1 {
		fmt.Fprintf(out, "Execution mode: single construction with the %s%s%s check.\n", t.Success, strategies[0], t.Reset)
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
