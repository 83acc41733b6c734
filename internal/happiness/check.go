package happiness

import (
	"math"
	"math/rand/v2"

	"github.com/agbru/chebgo/internal/core"
)

// Check judges rep with the strategy selected by p from the default
// registry. See Registry.Check.
func Check(rep core.Representation, op core.Op, values [][]float64, data core.Data, p core.Preferences) (core.Verdict, error) {
	return globalRegistry.Check(rep, op, values, data, p)
}

// Check judges rep.
//
// The strategy is p.Checker when set, otherwise the strategy registered
// under p.HappinessCheck. An unknown name or a strategy that does not
// support the representation's basis is returned as an error; no fallback
// is attempted.
//
// A happy verdict is cross-checked against op at p.SamplePoints
// pseudo-random points when op is non-nil and p.SampleTest is set. A
// failed cross-check turns the verdict unhappy with the cutoff reset to
// the full length. The returned epslevel is never below core.MachineEps.
func (r *Registry) Check(rep core.Representation, op core.Op, values [][]float64, data core.Data, p core.Preferences) (core.Verdict, error) {
	if rep == nil || rep.Len() == 0 {
		return core.Verdict{}, core.ErrEmpty
	}

	checker := p.Checker
	if checker == nil {
		name := p.HappinessCheck
		if name == "" {
			name = core.DefaultHappinessCheck
		}
		s, err := r.Lookup(name, rep.Kind())
		if err != nil {
			return core.Verdict{}, err
		}
		checker = s
	}

	v, err := checker.Check(rep, op, values, data, p)
	if err != nil {
		return core.Verdict{}, err
	}
	if v.Cutoff <= 0 || v.Cutoff > rep.Len() {
		v.Cutoff = rep.Len()
	}

	if v.Happy && op != nil && p.SampleTest && !SampleTest(rep, op, v, data, p) {
		v.Happy = false
		v.Cutoff = rep.Len()
	}
	if !(v.Epslevel >= core.MachineEps) {
		v.Epslevel = core.MachineEps
	}
	return v, nil
}

// SampleTest evaluates op and rep at p.SamplePoints points drawn from a
// PCG generator seeded with p.SampleSeed and reports whether they agree to
// max(epslevel, 1e3 eps) * vscale * n^(1/3). The same preferences always
// draw the same points.
func SampleTest(rep core.Representation, op core.Op, v core.Verdict, data core.Data, p core.Preferences) bool {
	points := p.SamplePoints
	if points <= 0 {
		points = core.DefaultSamplePoints
	}
	eps := p.Eps
	if eps == 0 {
		eps = core.MachineEps
	}
	vscale := max(rep.Vscale(), data.Vscale)
	tol := max(v.Epslevel, 1e3*eps) * vscale * max(1, math.Cbrt(float64(rep.Len())))

	rng := rand.New(rand.NewPCG(p.SampleSeed, p.SampleSeed^0x9e3779b97f4a7c15))
	for range points {
		x := 2*rng.Float64() - 1
		want := op(x)
		got := rep.Feval(x)
		if len(want) != len(got) {
			return false
		}
		for i := range want {
			if !(math.Abs(want[i]-got[i]) <= tol) {
				return false
			}
		}
	}
	return true
}
