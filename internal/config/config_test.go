package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/agbru/chebgo/internal/core"
	apperrors "github.com/agbru/chebgo/internal/errors"
)

var (
	testStrategies = []string{"classic", "loose", "plateau", "standard", "strict"}
	testFunctions  = []string{"abs", "cos", "periodic", "runge"}
)

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	return ParseConfig("chebgo", args, io.Discard, testStrategies, testFunctions)
}

func TestParseConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		cfg, err := parse(t)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Function != DefaultFunction || cfg.Strategy != DefaultStrategy {
			t.Errorf("defaults: function %q strategy %q", cfg.Function, cfg.Strategy)
		}
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("Expected default Timeout %v, got %v", DefaultTimeout, cfg.Timeout)
		}
		if cfg.MinSamples != core.DefaultMinSamples || !cfg.SampleTest {
			t.Errorf("preference defaults not applied: %+v", cfg)
		}
	})

	t.Run("ValidFlags", func(t *testing.T) {
		cfg, err := parse(t,
			"-f", "runge",
			"-strategy", "STRICT",
			"-domain", "-1, 0, 1",
			"-max-length", "1025",
			"-sample-test=false",
			"-eval", "0.5,-0.25",
			"-timeout", "10s",
			"-fail-unresolved",
			"-q",
		)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Function != "runge" || cfg.Strategy != "strict" {
			t.Errorf("got function %q strategy %q", cfg.Function, cfg.Strategy)
		}
		if cfg.MaxLength != 1025 || cfg.SampleTest || !cfg.FailUnresolved || !cfg.Quiet {
			t.Errorf("flags not applied: %+v", cfg)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("timeout = %v", cfg.Timeout)
		}
		pts, err := cfg.EvalPoints()
		if err != nil || len(pts) != 2 || pts[1] != -0.25 {
			t.Errorf("EvalPoints = %v, %v", pts, err)
		}
	})

	t.Run("AllStrategies", func(t *testing.T) {
		cfg, err := parse(t, "-strategy", "all")
		if err != nil {
			t.Fatal(err)
		}
		p, err := cfg.ToPreferences()
		if err != nil {
			t.Fatal(err)
		}
		if p.HappinessCheck != DefaultStrategy {
			t.Errorf("HappinessCheck = %q", p.HappinessCheck)
		}
	})

	t.Run("ServerModeSkipsFunction", func(t *testing.T) {
		if _, err := parse(t, "-server", "-f", "nope"); err != nil {
			t.Errorf("server mode should not check the function: %v", err)
		}
	})

	t.Run("Help", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := ParseConfig("chebgo", []string{"-h"}, &buf, testStrategies, testFunctions)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
		if !strings.Contains(buf.String(), "-max-length") || !strings.Contains(buf.String(), EnvPrefix) {
			t.Errorf("usage is missing flags or the environment note:\n%s", buf.String())
		}
	})
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"UnknownFlag", []string{"-bogus"}},
		{"UnknownStrategy", []string{"-strategy", "magic"}},
		{"UnknownFunction", []string{"-f", "nope"}},
		{"ZeroTimeout", []string{"-timeout", "0s"}},
		{"BadDomain", []string{"-domain", "1,0"}},
		{"DomainNotNumeric", []string{"-domain", "a,b"}},
		{"BadTech", []string{"-tech", "legendre"}},
		{"BadEval", []string{"-eval", "0.5,x"}},
		{"MaxBelowMin", []string{"-min-samples", "33", "-max-length", "17"}},
		{"BadRefinement", []string{"-refinement", "double"}},
		{"BadEps", []string{"-eps", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(t, tt.args...); err == nil {
				t.Errorf("ParseConfig(%v) succeeded", tt.args)
			}
		})
	}
}

func TestValidateReturnsConfigError(t *testing.T) {
	cfg := AppConfig{Function: "cos", Strategy: "standard", Timeout: time.Second, Refinement: "nested", Domain: "0"}
	err := cfg.Validate(testStrategies, testFunctions)
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("error = %v, want a ConfigError", err)
	}
}

func TestToPreferences(t *testing.T) {
	cfg, err := parse(t, "-tech", "trig", "-domain", "0,2", "-extrapolate", "-fixed-length", "64", "-splitting")
	if err != nil {
		t.Fatal(err)
	}
	p, err := cfg.ToPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if p.Tech != core.Fourier || p.FixedLength != 64 || !p.ExtrapolateEndpoints || !p.Splitting {
		t.Errorf("unexpected preferences: %+v", p)
	}
	if len(p.Domain) != 2 || p.Domain[1] != 2 {
		t.Errorf("domain = %v", p.Domain)
	}

	cfg, _ = parse(t)
	p, _ = cfg.ToPreferences()
	if p.Domain != nil {
		t.Errorf("empty -domain should leave the domain unset, got %v", p.Domain)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHEBGO_FUNCTION", "runge")
	t.Setenv("CHEBGO_MAX_LENGTH", "513")
	t.Setenv("CHEBGO_SAMPLE_TEST", "no")
	t.Setenv("CHEBGO_EPS", "1e-10")
	t.Setenv("CHEBGO_TIMEOUT", "30s")
	t.Setenv("CHEBGO_QUIET", "yes")
	t.Setenv("CHEBGO_MIN_SAMPLES", "not-a-number")

	cfg, err := parse(t)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Function != "runge" || cfg.MaxLength != 513 || cfg.SampleTest || !cfg.Quiet {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if cfg.Eps != 1e-10 || cfg.Timeout != 30*time.Second {
		t.Errorf("eps %g timeout %v", cfg.Eps, cfg.Timeout)
	}
	if cfg.MinSamples != core.DefaultMinSamples {
		t.Errorf("unparsable variable should keep the default, got %d", cfg.MinSamples)
	}

	cfg, err = parse(t, "-function", "abs", "-max-length", "257")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Function != "abs" || cfg.MaxLength != 257 {
		t.Errorf("flags should win over the environment: %+v", cfg)
	}
}

func TestParseFloats(t *testing.T) {
	t.Parallel()
	got, err := ParseFloats(" -2, 0.5 ,3e1")
	if err != nil || len(got) != 3 || got[2] != 30 {
		t.Errorf("ParseFloats = %v, %v", got, err)
	}
	for _, bad := range []string{"", "1,,2", "Inf", "NaN"} {
		if _, err := ParseFloats(bad); err == nil {
			t.Errorf("ParseFloats(%q) succeeded", bad)
		}
	}
}

func TestEnvKey(t *testing.T) {
	t.Parallel()
	if got := envKey([]string{"q", "quiet"}); got != "QUIET" {
		t.Errorf("envKey = %q", got)
	}
	if got := envKey([]string{"fail-unresolved"}); got != "FAIL_UNRESOLVED" {
		t.Errorf("envKey = %q", got)
	}
}
