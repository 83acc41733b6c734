package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/chebgo/internal/errors"
	"github.com/agbru/chebgo/pkg/models"
)

func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"chebgo"}, args...), &errBuf)
	require.NoError(t, err, "stderr: %s", errBuf.String())
	return a, &errBuf
}

func run(t *testing.T, args ...string) (int, string) {
	t.Helper()
	a, _ := newApp(t, args...)
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	return code, out.String()
}

func TestNew(t *testing.T) {
	a, _ := newApp(t, "-f", "exp", "-strategy", "Strict")
	assert.Equal(t, "exp", a.Config.Function)
	assert.Equal(t, "strict", a.Config.Strategy)
	assert.NotNil(t, a.Service)
	assert.Contains(t, a.Registry.List(), "standard")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown function", []string{"-f", "nope"}},
		{"unknown strategy", []string{"-strategy", "nope"}},
		{"bad flag", []string{"-bogus"}},
		{"bad eval", []string{"-eval", "1,x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(append([]string{"chebgo"}, tt.args...), &bytes.Buffer{})
			assert.Error(t, err)
		})
	}

	_, err := New([]string{"chebgo", "-h"}, &bytes.Buffer{})
	assert.True(t, IsHelpError(err))
}

func TestRunList(t *testing.T) {
	code, out := run(t, "-list", "-no-color")
	assert.Equal(t, apperrors.ExitSuccess, code)
	for _, name := range []string{"cos", "runge", "periodic", "trio"} {
		assert.Contains(t, out, name)
	}

	code, out = run(t, "-list", "-json")
	require.Equal(t, apperrors.ExitSuccess, code)
	var listing struct {
		Functions  []models.FunctionInfo `json:"functions"`
		Strategies []models.StrategyInfo `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.NotEmpty(t, listing.Functions)
	assert.NotEmpty(t, listing.Strategies)
}

func TestRunSingle(t *testing.T) {
	code, out := run(t, "-f", "cos", "-q", "-no-color")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "cos resolved"), "quiet output: %q", out)

	code, out = run(t, "-f", "exp", "-json", "-eval", "0", "-coeffs")
	require.Equal(t, apperrors.ExitSuccess, code)
	var r models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Resolved)
	assert.Equal(t, "exp", r.Function)
	require.Len(t, r.Evaluations, 1)
	assert.InDelta(t, 1.0, r.Evaluations[0].Values[0], 1e-14)
	require.Len(t, r.Pieces, 1)
	assert.Len(t, r.Pieces[0].Coefficients[0], reportCoefficients)

	code, out = run(t, "-f", "runge", "-no-color")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, out, "Progress: 100.00%")
}

func TestRunDomainAndTechOverride(t *testing.T) {
	code, out := run(t, "-f", "exp", "-domain", "0,1,2", "-json")
	require.Equal(t, apperrors.ExitSuccess, code)
	var r models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []float64{0, 1, 2}, r.Domain)
	assert.Len(t, r.Pieces, 2)

	code, out = run(t, "-f", "cos", "-domain", "0,3.141592653589793", "-eval", "4", "-q")
	assert.Equal(t, apperrors.ExitErrorConfig, code, out)
}

func TestRunUnresolved(t *testing.T) {
	code, _ := run(t, "-f", "tanh", "-max-length", "33", "-q")
	assert.Equal(t, apperrors.ExitSuccess, code)

	a, errBuf := newApp(t, "-f", "tanh", "-max-length", "33", "-q", "-fail-unresolved", "-no-color")
	var out bytes.Buffer
	code = a.Run(context.Background(), &out)
	assert.Equal(t, apperrors.ExitErrorUnresolved, code)
	assert.Contains(t, out.String(), "tanh unresolved")
	assert.Contains(t, errBuf.String(), "Unresolved")
}

func TestRunComparison(t *testing.T) {
	code, out := run(t, "-f", "cos", "-strategy", "all", "-no-color")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, out, "Comparison Summary")
	assert.Contains(t, out, "Global Status: Success")

	code, out = run(t, "-f", "periodic", "-strategy", "all", "-json")
	require.Equal(t, apperrors.ExitSuccess, code)
	var rows []comparisonJSON
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Empty(t, row.Error, row.Strategy)
		require.NotNil(t, row.Report)
		assert.Equal(t, "fourier", row.Report.Tech)
	}

	code, out = run(t, "-f", "cos", "-strategy", "all", "-q")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, out, "standard: cos resolved")
}

func TestRunOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	code, _ := run(t, "-f", "cos", "-q", "-o", path)
	require.Equal(t, apperrors.ExitSuccess, code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r models.Report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "cos", r.Function)
}

func TestRunTimeout(t *testing.T) {
	a, _ := newApp(t, "-f", "cos", "-q")
	a.Config.Timeout = time.Nanosecond
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := a.Run(ctx, &out)
	assert.Contains(t, []int{apperrors.ExitErrorCanceled, apperrors.ExitErrorTimeout}, code)
}

func TestRunTimeoutWithProgress(t *testing.T) {
	a, _ := newApp(t, "-f", "abs", "-domain", "-1,2", "-splitting",
		"-split-length", "65537", "-split-max-length", "1000000", "-no-color")
	a.Config.Timeout = 5 * time.Millisecond
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	assert.Equal(t, apperrors.ExitErrorTimeout, code)
}

func TestSetupLifecycle(t *testing.T) {
	ctx, cancel := SetupLifecycle(context.Background(), 10*time.Millisecond)
	defer cancel()
	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}

	ctx, cancel = SetupLifecycle(context.Background(), time.Hour)
	cancel()
	assert.Error(t, ctx.Err())
}
