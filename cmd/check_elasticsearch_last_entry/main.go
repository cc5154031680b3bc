// Command check_elasticsearch_last_entry is a monitoring plugin reporting how
// old the newest document of an index (or index pattern) is.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dm/check-es/internal/check"
	"github.com/dm/check-es/internal/cli"
	"github.com/dm/check-es/internal/config"
)

const usage = `usage: check_elasticsearch_last_entry -H <host> [-P 9200] [-s] [-u user -p password]
         [-i index-pattern] [-q query-json] [-w 600] [-c 3600] [-v]

Checks that the newest @timestamp in an index is fresh. Thresholds are in seconds.

`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one check and returns the plugin exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := config.DefaultLastEntryOptions()
	return cli.Run(ctx, cli.Plugin{
		Name:    "check_elasticsearch_last_entry",
		Usage:   usage,
		Options: &opts,
		Check: func(ctx context.Context, r *check.Runner) (string, check.Result) {
			return "last_entry", r.LastEntry(ctx, opts)
		},
	}, args, stdout, stderr)
}
