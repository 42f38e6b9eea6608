// Command floor-probe drives a running floorwatch service and checks its
// sessions end to end.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/floorwatch/internal/probe"
)

const defaultProbeTimeout = 10 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8050", "Base URL of the service")
		sessions = flag.Int("sessions", probe.DefaultSessions, "Number of sessions to drive")
		ticks    = flag.Int("ticks", probe.DefaultTicks, "Chart points to wait for per session")
		workers  = flag.Int("workers", runtime.NumCPU(), "Sessions driven concurrently")
		timeout  = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		lang     = flag.String("lang", probe.DefaultLang, "Locale requested for every call")
		logFile  = flag.String("log", "", "Log file for probe output (default: probe_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Log every session outcome")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := probe.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)

	_, err = probe.Run(ctx, &probe.Config{
		BaseURL:  *baseURL,
		Sessions: *sessions,
		Ticks:    *ticks,
		Workers:  *workers,
		Timeout:  *timeout,
		Lang:     *lang,
		LogFile:  *logFile,
		Verbose:  *verbose,
	})
	cancel()
	stop()
	_ = closeLog()
	if err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
