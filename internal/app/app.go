// Package app wires the configuration, the construction service and the
// output layers into the chebgo command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/chebgo/internal/catalog"
	"github.com/agbru/chebgo/internal/cli"
	"github.com/agbru/chebgo/internal/config"
	"github.com/agbru/chebgo/internal/construct"
	"github.com/agbru/chebgo/internal/core"
	apperrors "github.com/agbru/chebgo/internal/errors"
	"github.com/agbru/chebgo/internal/happiness"
	"github.com/agbru/chebgo/internal/logging"
	"github.com/agbru/chebgo/internal/orchestration"
	"github.com/agbru/chebgo/internal/server"
	"github.com/agbru/chebgo/internal/service"
	"github.com/agbru/chebgo/internal/ui"
	"github.com/agbru/chebgo/pkg/models"
)

// reportCoefficients is the number of leading coefficients per piece
// printed by -coeffs.
const reportCoefficients = 8

// logEvery thins the refinement events written by the logging observer.
const logEvery = 4

// Application is one chebgo invocation.
type Application struct {
	Config   config.AppConfig
	Catalog  *catalog.Catalog
	Registry *happiness.Registry
	Service  service.Service
	Logger   *logging.ZerologAdapter
	// ErrWriter receives diagnostics, typically os.Stderr.
	ErrWriter io.Writer
}

// New parses args (args[0] is the program name) and assembles the
// application. Parse and validation errors are returned as is; see
// IsHelpError for -h.
func New(args []string, errWriter io.Writer) (*Application, error) {
	cat := catalog.New()
	reg := happiness.Default()

	programName := "chebgo"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, reg.List(), cat.List())
	if err != nil {
		return nil, err
	}

	// In server mode -max-length is the cap clients cannot exceed.
	maxLength := 0
	if cfg.ServerMode {
		maxLength = cfg.MaxLength
	}
	return &Application{
		Config:    cfg,
		Catalog:   cat,
		Registry:  reg,
		Service:   service.NewConstructionService(cat, reg, maxLength),
		Logger:    logging.NewLogger(errWriter, "chebgo", logging.ParseLevel(cfg.LogLevel)),
		ErrWriter: errWriter,
	}, nil
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Run dispatches to the list, server, comparison or single construction
// mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.List:
		return a.runList(out)
	case a.Config.ServerMode:
		return a.runServer()
	}
	return a.runConstruct(ctx, out)
}

func (a *Application) runList(out io.Writer) int {
	fns := a.Service.Functions()
	if a.Config.JSONOutput {
		if err := cli.WriteJSON(out, map[string]any{"functions": fns, "strategies": a.Service.Strategies()}); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}
	cli.DisplayFunctions(fns, out)
	return apperrors.ExitSuccess
}

func (a *Application) runServer() int {
	srv := server.NewServer(a.Service, a.Config,
		server.WithLogger(logging.NewLogger(a.ErrWriter, "server", logging.ParseLevel(a.Config.LogLevel))),
		server.WithMaxLength(a.Config.MaxLength),
		server.WithVersion(Version))
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// request converts the configuration into a service request.
func (a *Application) request() (service.Request, error) {
	p, err := a.Config.ToPreferences()
	if err != nil {
		return service.Request{}, err
	}
	eval, err := a.Config.EvalPoints()
	if err != nil {
		return service.Request{}, err
	}
	req := service.Request{
		Function:    a.Config.Function,
		Domain:      p.Domain,
		Tech:        a.Config.Tech,
		Eval:        eval,
		Preferences: p,
	}
	req.Preferences.Domain = nil
	if a.Config.Coefficients {
		req.Coefficients = reportCoefficients
	}
	return req, nil
}

// strategies returns the strategies to run: the configured one, or every
// strategy supporting the basis of the request in comparison mode.
func (a *Application) strategies() ([]string, error) {
	if a.Config.Strategy != config.AllStrategies {
		return []string{a.Config.Strategy}, nil
	}
	entry, err := a.Catalog.Get(a.Config.Function)
	if err != nil {
		return nil, err
	}
	kind := entry.Tech
	if a.Config.Tech != "" {
		if kind, err = core.ParseKind(a.Config.Tech); err != nil {
			return nil, err
		}
	}
	return a.Registry.ListFor(kind), nil
}

func (a *Application) runConstruct(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel()
	ctx = logging.WithContext(ctx, a.Logger)

	req, err := a.request()
	if err != nil {
		return apperrors.HandleConstructionError(apperrors.NewConfigError("%v", err), 0, a.ErrWriter, ui.Colors{})
	}
	strategies, err := a.strategies()
	if err != nil {
		return apperrors.HandleConstructionError(apperrors.NewConfigError("%v", err), 0, a.ErrWriter, ui.Colors{})
	}

	verbose := !a.Config.JSONOutput && !a.Config.Quiet
	if verbose {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(strategies, out)
	}

	if len(strategies) > 1 {
		return a.runComparison(ctx, req, strategies, verbose, out)
	}
	return a.runSingle(ctx, req, verbose, out)
}

func (a *Application) runSingle(ctx context.Context, req service.Request, verbose bool, out io.Writer) int {
	subject := construct.NewSubject(construct.NewLoggingObserver(a.Logger.Zerolog(), logEvery))
	req.Subject = subject

	var sink *construct.ChannelObserver
	var displayWg sync.WaitGroup
	if verbose {
		events := make(chan construct.Event, orchestration.ProgressBufferSize)
		sink = construct.NewChannelObserver(events)
		subject.Register(sink)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, events, req.Preferences.MaxLength, out)
	}

	start := time.Now()
	report, err := a.Service.Construct(ctx, req)
	duration := time.Since(start)
	if sink != nil {
		sink.Close()
		displayWg.Wait()
	}

	if err != nil {
		a.Logger.Error("construction failed", err, logging.String("function", req.Function))
		return apperrors.HandleConstructionError(err, duration, a.statusWriter(out), ui.Colors{})
	}

	cfg := cli.OutputConfig{
		OutputFile:   a.Config.OutputFile,
		Quiet:        a.Config.Quiet,
		JSON:         a.Config.JSONOutput,
		Coefficients: a.Config.Coefficients,
	}
	if err := cli.DisplayReportWithConfig(out, report, duration, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if !report.Resolved && a.Config.FailUnresolved {
		err := apperrors.NewConstructionError(report.Function, report.Strategy, apperrors.ErrUnresolved)
		return apperrors.HandleConstructionError(err, duration, a.statusWriter(out), ui.Colors{})
	}
	return apperrors.ExitSuccess
}

// comparisonJSON is one line of the JSON comparison output.
type comparisonJSON struct {
	Strategy string         `json:"strategy"`
	Duration string         `json:"duration"`
	Report   *models.Report `json:"report,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (a *Application) runComparison(ctx context.Context, req service.Request, strategies []string, verbose bool, out io.Writer) int {
	req.Subject = nil
	var progress io.Writer
	if verbose {
		progress = out
	}
	results := orchestration.ExecuteComparisons(ctx, a.Service, req, strategies, progress)

	if a.Config.JSONOutput {
		rows := make([]comparisonJSON, len(results))
		for i, res := range results {
			rows[i] = comparisonJSON{Strategy: res.Strategy, Duration: res.Duration.String()}
			if res.Err != nil {
				rows[i].Error = res.Err.Error()
			} else {
				rows[i].Report = &results[i].Report
			}
		}
		if err := cli.WriteJSON(out, rows); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return orchestration.AnalyzeComparisonResults(results, a.Config.FailUnresolved, io.Discard)
	}

	summary := out
	if a.Config.Quiet {
		summary = io.Discard
	}
	code := orchestration.AnalyzeComparisonResults(results, a.Config.FailUnresolved, summary)
	if a.Config.Quiet {
		for _, res := range results {
			if res.Err == nil {
				fmt.Fprintf(out, "%s: %s\n", res.Strategy, cli.FormatQuietResult(res.Report))
			}
		}
	}
	return code
}

// statusWriter keeps machine-readable output on out free of status lines.
func (a *Application) statusWriter(out io.Writer) io.Writer {
	if a.Config.JSONOutput || a.Config.Quiet {
		return a.ErrWriter
	}
	return out
}
