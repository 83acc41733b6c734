// Command chebgo constructs Chebyshev and Fourier representations of the
// catalog functions and reports how they resolved.
package main

import (
	"context"
	"os"

	"github.com/agbru/chebgo/internal/app"
	apperrors "github.com/agbru/chebgo/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	a, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}
	os.Exit(a.Run(context.Background(), os.Stdout))
}
