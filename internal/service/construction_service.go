// Package service implements the construction use case shared by the
// command-line tool and the HTTP server: request validation, catalog
// lookup, strategy selection, the adaptive construction itself and the
// summary report.
package service

//go:generate mockgen -source=construction_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/agbru/chebgo/internal/catalog"
	"github.com/agbru/chebgo/internal/construct"
	"github.com/agbru/chebgo/internal/core"
	apperrors "github.com/agbru/chebgo/internal/errors"
	"github.com/agbru/chebgo/internal/fun"
	"github.com/agbru/chebgo/internal/happiness"
	"github.com/agbru/chebgo/pkg/models"
)

// Request describes one construction.
type Request struct {
	// Function is the catalog name.
	Function string
	// Domain overrides the catalog domain when non-empty.
	Domain []float64
	// Tech overrides the catalog basis when non-empty.
	Tech string
	// Eval lists points the report evaluates the result at.
	Eval []float64
	// Coefficients is the number of leading coefficients per piece and
	// column to include in the report.
	Coefficients int
	// Preferences holds the construction settings. HappinessCheck selects
	// the strategy.
	Preferences core.Preferences
	// Subject receives the construction events. It may be nil.
	Subject *construct.Subject
}

// Service is the construction use case.
type Service interface {
	// Construct builds the requested function and summarizes it.
	Construct(ctx context.Context, req Request) (models.Report, error)
	// Functions describes the catalog.
	Functions() []models.FunctionInfo
	// Strategies describes the registered happiness checks.
	Strategies() []models.StrategyInfo
}

// ConstructionService implements Service on a catalog and a strategy
// registry.
type ConstructionService struct {
	catalog   *catalog.Catalog
	registry  *happiness.Registry
	maxLength int
}

var _ Service = (*ConstructionService)(nil)

// NewConstructionService creates a service. maxLength caps the MaxLength
// and FixedLength a request may ask for; 0 means no cap.
func NewConstructionService(cat *catalog.Catalog, reg *happiness.Registry, maxLength int) *ConstructionService {
	return &ConstructionService{catalog: cat, registry: reg, maxLength: maxLength}
}

// Construct validates req, builds the function and returns its report.
//
// Bad input is reported as apperrors.ValidationError. Failures of the
// engine, including unknown or unsupported strategies, are wrapped in
// apperrors.ConstructionError. The construction itself cannot be
// interrupted; when ctx ends first Construct returns ctx.Err() and the
// result is discarded.
func (s *ConstructionService) Construct(ctx context.Context, req Request) (models.Report, error) {
	if err := ctx.Err(); err != nil {
		return models.Report{}, err
	}
	entry, err := s.catalog.Get(req.Function)
	if err != nil {
		return models.Report{}, apperrors.NewValidationError("function", err.Error(), req.Function)
	}
	p, err := s.preferences(entry, req)
	if err != nil {
		return models.Report{}, err
	}
	if err := checkEval(req.Eval, p.Domain); err != nil {
		return models.Report{}, err
	}

	var samples atomic.Int64
	op := func(x float64) []float64 {
		samples.Add(1)
		return entry.Op(x)
	}

	type outcome struct {
		f   *fun.Function
		err error
	}
	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		f, err := fun.BuildWithObservers(ctx, req.Subject, op, nil, core.Data{}, p)
		done <- outcome{f, err}
	}()

	var out outcome
	select {
	case <-ctx.Done():
		return models.Report{}, ctx.Err()
	case out = <-done:
	}
	if out.err != nil {
		return models.Report{}, apperrors.NewConstructionError(entry.Name, p.HappinessCheck, out.err)
	}

	r := NewReport(out.f, req.Eval, req.Coefficients)
	r.Function = entry.Name
	r.Description = entry.Description
	r.Strategy = p.HappinessCheck
	r.Samples = int(samples.Load())
	r.DurationMS = float64(time.Since(start).Microseconds()) / 1e3
	return r, nil
}

// preferences merges the request into the catalog defaults of entry and
// binds the strategy from the service registry.
func (s *ConstructionService) preferences(entry catalog.Entry, req Request) (core.Preferences, error) {
	p := entry.Preferences(req.Preferences.Normalize())
	if req.Tech != "" {
		kind, err := core.ParseKind(req.Tech)
		if err != nil {
			return p, apperrors.NewValidationError("tech", err.Error(), req.Tech)
		}
		p.Tech = kind
	}
	if len(req.Domain) > 0 {
		p.Domain = append([]float64(nil), req.Domain...)
	}
	if err := p.Validate(); err != nil {
		return p, apperrors.NewValidationError("preferences", err.Error(), nil)
	}
	if s.maxLength > 0 && (p.MaxLength > s.maxLength || p.FixedLength > s.maxLength) {
		return p, apperrors.NewValidationError("max_length", fmt.Sprintf("must not exceed %d", s.maxLength), p.MaxLength)
	}
	if req.Coefficients < 0 {
		return p, apperrors.NewValidationError("coefficients", "must not be negative", req.Coefficients)
	}
	if p.Checker == nil {
		strategy, err := s.registry.Lookup(p.HappinessCheck, p.Tech)
		if err != nil {
			return p, apperrors.NewConstructionError(entry.Name, p.HappinessCheck, err)
		}
		p.Checker = strategy
	}
	return p, nil
}

func checkEval(xs, domain []float64) error {
	lo, hi := domain[0], domain[len(domain)-1]
	for _, x := range xs {
		if math.IsNaN(x) || x < lo || x > hi {
			return apperrors.NewValidationError("eval", fmt.Sprintf("%g is outside [%g, %g]", x, lo, hi), x)
		}
	}
	return nil
}

// Functions describes every catalog entry, sorted by name.
func (s *ConstructionService) Functions() []models.FunctionInfo {
	names := s.catalog.List()
	out := make([]models.FunctionInfo, 0, len(names))
	for _, name := range names {
		e, err := s.catalog.Get(name)
		if err != nil {
			continue
		}
		out = append(out, models.FunctionInfo{
			Name:        e.Name,
			Description: e.Description,
			Tech:        e.Tech.String(),
			Domain:      e.Domain,
			Columns:     e.Columns(),
			Splitting:   e.Splitting,
		})
	}
	return out
}

// Strategies describes every registered strategy, sorted by name.
func (s *ConstructionService) Strategies() []models.StrategyInfo {
	names := s.registry.List()
	out := make([]models.StrategyInfo, 0, len(names))
	for _, name := range names {
		info := models.StrategyInfo{Name: name}
		for _, kind := range []core.Kind{core.Chebyshev, core.Fourier} {
			if _, err := s.registry.Lookup(name, kind); err == nil {
				info.Kinds = append(info.Kinds, kind.String())
			}
		}
		out = append(out, info)
	}
	return out
}
