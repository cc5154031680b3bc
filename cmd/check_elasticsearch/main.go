// Command check_elasticsearch is a monitoring plugin reporting the health of
// an Elasticsearch cluster, or the CPU, heap and filesystem usage of one of
// its nodes when -n is given.
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

const usage = `usage: check_elasticsearch -H <host> [-P 9200] [-s] [-u user -p password] [-n node]
         [-cw 90 -cc 95] [-hw 90 -hc 95] [-fw 90 -fc 95] [-v]

Checks the health of an Elasticsearch cluster, or of a single node with -n.

`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one check and returns the plugin exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := config.DefaultHealthOptions()
	return cli.Run(ctx, cli.Plugin{
		Name:    "check_elasticsearch",
		Usage:   usage,
		Options: &opts,
		Check: func(ctx context.Context, r *check.Runner) (string, check.Result) {
			name := "cluster"
			if opts.Node != "" {
				name = "node"
			}
			return name, r.Health(ctx, opts)
		},
	}, args, stdout, stderr)
}
