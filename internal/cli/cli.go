// Package cli drives a check binary from its arguments to its exit code.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dm/check-es/internal/check"
	"github.com/dm/check-es/internal/client"
	"github.com/dm/check-es/internal/config"
	"github.com/dm/check-es/internal/logging"
	"github.com/dm/check-es/internal/metrics"
)

// Options is the flag-bound configuration of one check binary.
type Options interface {
	BindFlags(fs *flag.FlagSet)
	Validate() error
	Settings() config.Settings
}

// Plugin describes a check binary.
type Plugin struct {
	Name string
	// Usage is printed above the flag defaults on -help.
	Usage   string
	Options Options
	// Check runs the check and returns the name its textfile metrics are
	// recorded under.
	Check func(ctx context.Context, r *check.Runner) (string, check.Result)
}

// Run parses args into p.Options, runs p.Check and renders the result to
// stdout. Argument errors print a single UNKNOWN line. It returns the
// plugin exit code.
func Run(ctx context.Context, p Plugin, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(p.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), p.Usage)
		fs.PrintDefaults()
	}
	p.Options.BindFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return check.Unknown.ExitCode()
		}
		return unknown(stdout, err)
	}
	if fs.NArg() > 0 {
		return unknown(stdout, fmt.Errorf("unexpected argument %q", fs.Arg(0)))
	}
	if err := p.Options.Validate(); err != nil {
		return unknown(stdout, err)
	}

	settings := p.Options.Settings()
	logger := logging.New(settings.Verbose, stderr)
	defer func() { _ = logger.Sync() }()

	c, err := client.NewDefaultClient(settings.Client)
	if err != nil {
		return unknown(stdout, err)
	}

	name, res := p.Check(ctx, check.NewRunner(c, logger))
	if err := res.Render(stdout); err != nil {
		logger.Error("write output", zap.Error(err))
	}

	if settings.Textfile != "" {
		if err := metrics.Export(settings.Textfile, name, res); err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
	}

	return res.Status.ExitCode()
}

func unknown(w io.Writer, err error) int {
	fmt.Fprintf(w, "UNKNOWN: %v\n", err)
	return check.Unknown.ExitCode()
}
