// Command salesvisionctl enqueues and inspects SalesVision background jobs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/paulpark6/salesvision/jobs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("salesvisionctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	redisAddr := fs.String("redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "redis address")
	asOfRaw := fs.String("as-of", "", "warmup date (YYYY-MM-DD), defaults to today")
	size := fs.Int("size", 10, "number of scheduled tasks to list")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: salesvisionctl [flags] warmup|bump|queue|scheduled")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	var asOf time.Time
	if *asOfRaw != "" {
		parsed, err := time.Parse("2006-01-02", *asOfRaw)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -as-of %q\n", *asOfRaw)
			return 2
		}
		asOf = parsed
	}

	cli := NewJobsCLI(*redisAddr)
	defer func() { _ = cli.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cmd := fs.Arg(0); cmd {
	case "warmup", "bump":
		name := jobs.TaskReportsWarmup
		if cmd == "bump" {
			name = jobs.TaskReportsCacheBump
		}
		info, err := cli.Trigger(ctx, name, asOf)
		if err != nil {
			fmt.Fprintf(stderr, "enqueue %s: %v\n", name, err)
			return 1
		}
		fmt.Fprintf(stdout, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	case "queue":
		stats, err := cli.InspectQueue()
		if err != nil {
			fmt.Fprintf(stderr, "inspect queue: %v\n", err)
			return 1
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "QUEUE\tPENDING\tACTIVE\tSCHEDULED\tRETRY\tARCHIVED")
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
		_ = tw.Flush()
	case "scheduled":
		tasks, err := cli.ListScheduled(*size)
		if err != nil {
			fmt.Fprintf(stderr, "list scheduled: %v\n", err)
			return 1
		}
		for _, t := range tasks {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", t.ID, t.Type, t.NextProcessAt.Format(time.RFC3339))
		}
	default:
		fs.Usage()
		return 2
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
