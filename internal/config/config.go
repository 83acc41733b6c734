// Package config parses the command-line flags and environment overrides of
// chebgo and turns them into construction preferences.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/chebgo/internal/core"
	apperrors "github.com/agbru/chebgo/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. CHEBGO_FUNCTION.
const EnvPrefix = "CHEBGO_"

// Defaults for the flags that are not preference fields.
const (
	DefaultFunction = "cos"
	DefaultStrategy = core.DefaultHappinessCheck
	DefaultTimeout  = time.Minute
	DefaultPort     = "8080"
	DefaultLogLevel = "warn"
	// AllStrategies selects the comparison mode.
	AllStrategies = "all"
)

// AppConfig holds the parsed settings of one chebgo invocation.
type AppConfig struct {
	// Function is the catalog name of the function to construct.
	Function string
	// Domain is a comma-separated breakpoint list; empty means the catalog
	// default of the function.
	Domain string
	// Tech is the basis name; empty means the catalog default.
	Tech string
	// Strategy is a registered happiness check, or "all" to compare them.
	Strategy string

	Eps            float64
	MinSamples     int
	MaxLength      int
	FixedLength    int
	SampleTest     bool
	Refinement     string
	Extrapolate    bool
	Splitting      bool
	SplitLength    int
	SplitMaxLength int

	// Eval is a comma-separated list of points to evaluate the result at.
	Eval string
	// Coefficients prints the leading coefficients of every piece.
	Coefficients bool
	// FailUnresolved turns an unresolved construction into a failure exit.
	FailUnresolved bool
	Timeout        time.Duration

	List       bool
	JSONOutput bool
	OutputFile string
	Quiet      bool
	NoColor    bool
	LogLevel   string

	ServerMode bool
	Port       string
}

// ToPreferences converts the numerical settings into core.Preferences.
// Domain and basis are left at their zero values when the flags are empty
// so that the catalog defaults of the function apply.
func (c AppConfig) ToPreferences() (core.Preferences, error) {
	p := core.DefaultPreferences()
	p.Domain = nil
	p.Eps = c.Eps
	p.MinSamples = c.MinSamples
	p.MaxLength = c.MaxLength
	p.FixedLength = c.FixedLength
	p.HappinessCheck = c.Strategy
	if c.Strategy == AllStrategies {
		p.HappinessCheck = DefaultStrategy
	}
	p.SampleTest = c.SampleTest
	p.Refinement = c.Refinement
	p.ExtrapolateEndpoints = c.Extrapolate
	p.Splitting = c.Splitting
	p.SplitLength = c.SplitLength
	p.SplitMaxLength = c.SplitMaxLength
	if c.Tech != "" {
		kind, err := core.ParseKind(c.Tech)
		if err != nil {
			return core.Preferences{}, err
		}
		p.Tech = kind
	}
	if c.Domain != "" {
		d, err := ParseFloats(c.Domain)
		if err != nil {
			return core.Preferences{}, apperrors.NewConfigError("invalid domain %q: %v", c.Domain, err)
		}
		p.Domain = d
	}
	return p, nil
}

// EvalPoints returns the parsed -eval list.
func (c AppConfig) EvalPoints() ([]float64, error) {
	if c.Eval == "" {
		return nil, nil
	}
	return ParseFloats(c.Eval)
}

// ParseFloats parses a comma-separated list of finite numbers.
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not finite", part)
		}
		out = append(out, v)
	}
	return out, nil
}

// Validate checks the settings against the registered strategies and the
// catalog names. Server mode accepts any function since requests name
// their own.
func (c AppConfig) Validate(strategies, functions []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Strategy != AllStrategies && !slices.Contains(strategies, c.Strategy) {
		return apperrors.NewConfigError("unrecognized strategy: '%s'. Valid strategies are: 'all' or [%s]", c.Strategy, strings.Join(strategies, ", "))
	}
	if !c.ServerMode && !c.List && !slices.Contains(functions, c.Function) {
		return apperrors.NewConfigError("unknown function: '%s'. Use -list to see the catalog", c.Function)
	}
	if _, err := c.EvalPoints(); err != nil {
		return apperrors.NewConfigError("invalid -eval list: %v", err)
	}
	p, err := c.ToPreferences()
	if err != nil {
		return err
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies the environment
// overrides for flags that were not given, and validates the result.
// Parse errors and usage go to errorWriter.
func ParseConfig(programName string, args []string, errorWriter io.Writer, strategies, functions []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	d := core.DefaultPreferences()

	config := AppConfig{}
	fs.StringVar(&config.Function, "f", DefaultFunction, "Catalog name of the function to construct.")
	fs.StringVar(&config.Function, "function", DefaultFunction, "Alias for -f.")
	fs.StringVar(&config.Domain, "domain", "", "Comma-separated breakpoints, e.g. -1,0,1 (default: the function's own).")
	fs.StringVar(&config.Tech, "tech", "", "Basis: chebyshev or fourier (default: the function's own).")
	fs.StringVar(&config.Strategy, "strategy", DefaultStrategy, fmt.Sprintf("Happiness check: 'all' or one of [%s].", strings.Join(strategies, ", ")))
	fs.Float64Var(&config.Eps, "eps", d.Eps, "Target relative accuracy.")
	fs.IntVar(&config.MinSamples, "min-samples", d.MinSamples, "Initial grid size.")
	fs.IntVar(&config.MaxLength, "max-length", d.MaxLength, "Maximum grid size before giving up.")
	fs.IntVar(&config.FixedLength, "fixed-length", 0, "Sample once at this size without refinement (0 = adaptive).")
	fs.BoolVar(&config.SampleTest, "sample-test", d.SampleTest, "Cross-check happy verdicts at random points.")
	fs.StringVar(&config.Refinement, "refinement", d.Refinement, "Grid refinement: nested or resample.")
	fs.BoolVar(&config.Extrapolate, "extrapolate", false, "Never evaluate the function at the interval ends.")
	fs.BoolVar(&config.Splitting, "splitting", false, "Bisect pieces that do not resolve.")
	fs.IntVar(&config.SplitLength, "split-length", d.SplitLength, "Per-piece length limit while splitting.")
	fs.IntVar(&config.SplitMaxLength, "split-max-length", d.SplitMaxLength, "Total length limit while splitting.")
	fs.StringVar(&config.Eval, "eval", "", "Comma-separated points to evaluate the result at.")
	fs.BoolVar(&config.Coefficients, "coeffs", false, "Print the leading coefficients of every piece.")
	fs.BoolVar(&config.FailUnresolved, "fail-unresolved", false, "Exit with a failure status when the function is not resolved.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.List, "list", false, "List the function catalog and exit.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output the report in JSON format.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the report to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: print only the result line.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs)

	config.Strategy = strings.ToLower(config.Strategy)
	if err := config.Validate(strategies, functions); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return config, nil
}
