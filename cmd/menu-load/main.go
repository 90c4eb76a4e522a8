package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/warung/internal/loadtest"
	"github.com/okian/warung/pkg/logger"
)

// Default configuration constants.
const (
	defaultItems       = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the service")
		items   = flag.Int("items", defaultItems, "Number of menu items to create")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		owner   = flag.String("owner", "", "userId for created items (default: generated)")
		keep    = flag.Bool("keep", false, "Keep created items instead of deleting them")
		format  = flag.String("log-format", "text", "Log format: text or json")
		verbose = flag.Bool("verbose", false, "Log every failed request")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &loadtest.Config{
		BaseURL: *baseURL,
		Items:   *items,
		Workers: *workers,
		Timeout: *timeout,
		OwnerID: *owner,
		Keep:    *keep,
		Verbose: *verbose,
	}

	if _, err := loadtest.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		os.Exit(1)
	}
}
