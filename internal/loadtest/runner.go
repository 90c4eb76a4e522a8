package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/warung/pkg/logger"
)

// Run executes a complete load run against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Items <= 0 || cfg.Workers <= 0 {
		return nil, fmt.Errorf("%w: items and workers must be positive", ErrConfig)
	}
	owner := cfg.OwnerID
	if owner == "" {
		owner = "load-" + uuid.NewString()
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("loadtest")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting menu load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("items", cfg.Items),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.String("owner", owner),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate payloads
	inputs := generateItems(cfg.Items, owner)
	stats.ItemsGenerated = len(inputs)

	// Step 3: Create concurrently
	created := createItems(ctx, client, cfg, inputs, stats)

	// Step 4: Read back and verify
	listed, err := listMenu(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("menu listing failed: %w", err)
	}
	stats.Listed = len(listed)
	if err := verifyCreated(created, listed, owner); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	if !cfg.Keep && len(created) > 0 {
		// Step 5: Another caller must not be able to delete
		if err := checkOwnership(ctx, client, created[0]); err != nil {
			return stats, fmt.Errorf("ownership check failed: %w", err)
		}
		stats.Forbidden++

		// Step 6: Delete concurrently as the owner and verify removal
		deleteItems(ctx, client, cfg, created, owner, stats)
		remaining, err := listMenu(ctx, client)
		if err != nil {
			return stats, fmt.Errorf("menu listing failed: %w", err)
		}
		if err := verifyDeleted(created, remaining); err != nil {
			return stats, fmt.Errorf("delete verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.CreateFailed > 0 || stats.DeleteFailed > 0 {
		return stats, fmt.Errorf("%w: %d creates and %d deletes failed", ErrRequestsFailed, stats.CreateFailed, stats.DeleteFailed)
	}
	log.Info(ctx, "load run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, _, err := client.Do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// Any 200 is healthy; the body is Prometheus text.
	if status != http.StatusOK {
		return fmt.Errorf("%w: healthz returned %d", ErrUnexpectedStatus, status)
	}
	return nil
}

// fanOut calls fn for every index in [0, n) from the given number of goroutines.
func fanOut(ctx context.Context, workers, n int, fn func(i int)) {
	jobs := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()
}

func createItems(ctx context.Context, client *HTTPClient, cfg *Config, inputs []MenuInput, stats *Stats) []MenuItem {
	log := logger.Named("loadtest")
	var (
		mu      sync.Mutex
		created = make([]MenuItem, 0, len(inputs))
		failed  int64
	)

	fanOut(ctx, cfg.Workers, len(inputs), func(i int) {
		status, env, err := client.Do(ctx, http.MethodPost, "/api/menu", inputs[i])
		var item MenuItem
		if err == nil && status == http.StatusCreated {
			err = json.Unmarshal(env.Data, &item)
		} else if err == nil {
			err = fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, status, env.Error)
		}
		if err != nil {
			atomic.AddInt64(&failed, 1)
			if cfg.Verbose {
				log.Warn(ctx, "create failed", logger.Int("index", i), logger.Error(err))
			}
			return
		}
		mu.Lock()
		created = append(created, item)
		mu.Unlock()
	})

	stats.Created = len(created)
	stats.CreateFailed = int(atomic.LoadInt64(&failed))
	log.Info(ctx, "create phase completed",
		logger.Int("created", stats.Created),
		logger.Int("failed", stats.CreateFailed),
	)
	return created
}

func deleteItems(ctx context.Context, client *HTTPClient, cfg *Config, items []MenuItem, owner string, stats *Stats) {
	log := logger.Named("loadtest")
	var deleted, failed int64
	body := map[string]string{"userId": owner}

	fanOut(ctx, cfg.Workers, len(items), func(i int) {
		status, env, err := client.Do(ctx, http.MethodDelete, "/api/menu/"+items[i].ID, body)
		if err == nil && status != http.StatusOK {
			err = fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, status, env.Error)
		}
		if err != nil {
			atomic.AddInt64(&failed, 1)
			if cfg.Verbose {
				log.Warn(ctx, "delete failed", logger.String("id", items[i].ID), logger.Error(err))
			}
			return
		}
		atomic.AddInt64(&deleted, 1)
	})

	stats.Deleted = int(atomic.LoadInt64(&deleted))
	stats.DeleteFailed = int(atomic.LoadInt64(&failed))
	log.Info(ctx, "delete phase completed",
		logger.Int("deleted", stats.Deleted),
		logger.Int("failed", stats.DeleteFailed),
	)
}

func checkOwnership(ctx context.Context, client *HTTPClient, item MenuItem) error {
	intruder := map[string]string{"userId": "intruder-" + uuid.NewString()}
	status, _, err := client.Do(ctx, http.MethodDelete, "/api/menu/"+item.ID, intruder)
	if err != nil {
		return err
	}
	if status != http.StatusForbidden {
		return fmt.Errorf("%w: delete by another user returned %d", ErrUnexpectedStatus, status)
	}
	return nil
}

func listMenu(ctx context.Context, client *HTTPClient) ([]MenuItem, error) {
	status, env, err := client.Do(ctx, http.MethodGet, "/api/menu", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list returned %d", ErrUnexpectedStatus, status)
	}
	var items []MenuItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return items, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, createsPerSecond float64
	if stats.ItemsGenerated > 0 {
		successRate = float64(stats.Created) / float64(stats.ItemsGenerated) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		createsPerSecond = float64(stats.Created) / stats.Duration.Seconds()
	}

	logger.Named("loadtest").Info(ctx, "final statistics",
		logger.Int("generated", stats.ItemsGenerated),
		logger.Int("created", stats.Created),
		logger.Int("createFailed", stats.CreateFailed),
		logger.Int("listed", stats.Listed),
		logger.Int("deleted", stats.Deleted),
		logger.Int("deleteFailed", stats.DeleteFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("createsPerSecond", createsPerSecond),
	)
}
