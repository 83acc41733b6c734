package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// Unset or unparsable variables leave the default untouched.

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills every setting whose flag was not given from its
// CHEBGO_ variable, so the priority is flags, then environment, then
// defaults. The variable name is the flag name upper-cased with dashes
// turned into underscores: CHEBGO_MAX_LENGTH, CHEBGO_FAIL_UNRESOLVED, and
// so on. -f and -function both map to CHEBGO_FUNCTION.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	strs := []struct {
		flags []string
		dst   *string
	}{
		{[]string{"f", "function"}, &config.Function},
		{[]string{"domain"}, &config.Domain},
		{[]string{"tech"}, &config.Tech},
		{[]string{"strategy"}, &config.Strategy},
		{[]string{"refinement"}, &config.Refinement},
		{[]string{"eval"}, &config.Eval},
		{[]string{"output", "o"}, &config.OutputFile},
		{[]string{"log-level"}, &config.LogLevel},
		{[]string{"port"}, &config.Port},
	}
	for _, s := range strs {
		if !isFlagSet(fs, s.flags...) {
			*s.dst = getEnvString(envKey(s.flags), *s.dst)
		}
	}

	ints := []struct {
		flag string
		dst  *int
	}{
		{"min-samples", &config.MinSamples},
		{"max-length", &config.MaxLength},
		{"fixed-length", &config.FixedLength},
		{"split-length", &config.SplitLength},
		{"split-max-length", &config.SplitMaxLength},
	}
	for _, s := range ints {
		if !isFlagSet(fs, s.flag) {
			*s.dst = getEnvInt(envKey([]string{s.flag}), *s.dst)
		}
	}

	bools := []struct {
		flags []string
		dst   *bool
	}{
		{[]string{"sample-test"}, &config.SampleTest},
		{[]string{"extrapolate"}, &config.Extrapolate},
		{[]string{"splitting"}, &config.Splitting},
		{[]string{"coeffs"}, &config.Coefficients},
		{[]string{"fail-unresolved"}, &config.FailUnresolved},
		{[]string{"json"}, &config.JSONOutput},
		{[]string{"quiet", "q"}, &config.Quiet},
		{[]string{"no-color"}, &config.NoColor},
		{[]string{"server"}, &config.ServerMode},
	}
	for _, s := range bools {
		if !isFlagSet(fs, s.flags...) {
			*s.dst = getEnvBool(envKey(s.flags), *s.dst)
		}
	}

	if !isFlagSet(fs, "eps") {
		config.Eps = getEnvFloat("EPS", config.Eps)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

// envKey derives the variable suffix from the longest flag name.
func envKey(flags []string) string {
	name := flags[0]
	for _, f := range flags[1:] {
		if len(f) > len(name) {
			name = f
		}
	}
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
