package construct

import (
	"context"
	"fmt"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/tech"
)

// Compose constructs g∘t in the basis of t. g receives the values of all
// columns of t at a point and returns the columns of the result.
func Compose(ctx context.Context, t tech.Tech, g func(v []float64) []float64, p core.Preferences) (Result, error) {
	if t == nil || g == nil {
		return Result{}, fmt.Errorf("%w: compose needs a representation and a function", core.ErrEmpty)
	}
	p.Tech = t.Kind()
	op := func(x float64) []float64 { return g(t.Feval(x)) }
	return Build(ctx, op, core.Data{}, p)
}
