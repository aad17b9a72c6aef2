// Command stresstest drives concurrent load against a running server: many
// virtual users logging sessions and polling the workload metrics at the same
// time. It fails when the success rate drops below the threshold.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/trainload/internal/e2etest"
	"github.com/myrjola/trainload/internal/logging"
	"github.com/myrjola/trainload/internal/session"
	"github.com/myrjola/trainload/internal/testhelpers"
)

const (
	scenarioTimeout      = 30 * time.Second
	maxConcurrentUsers   = 20
	sessionsPerUser      = 10
	historyDays          = 42
	successRateThreshold = 95.0
	percentageMultiplier = 100
	expectedArgsCount    = 2
)

type counters struct {
	attempted atomic.Int64
	succeeded atomic.Int64
}

func (c *counters) record(err error) error {
	c.attempted.Add(1)
	if err == nil {
		c.succeeded.Add(1)
	}
	return err
}

func (c *counters) successRate() float64 {
	attempted := c.attempted.Load()
	if attempted == 0 {
		return 0
	}
	return float64(c.succeeded.Load()) / float64(attempted) * percentageMultiplier
}

// runUserScenario simulates one user: log a training history spread over the
// past weeks, poll the workload endpoint, then page through the history.
func runUserScenario(ctx context.Context, client *e2etest.Client, userIndex int, stats *counters) error {
	for i := range sessionsPerUser {
		daysAgo := (userIndex + i*5) % historyDays
		resp, err := client.Post(ctx, "/api/sessions", map[string]any{
			"date":     time.Now().AddDate(0, 0, -daysAgo).Format(time.DateOnly),
			"type":     []string{"Strength", "HIIT", "Cardio"}[i%3],
			"duration": 20 + (i%5)*10,
			"rpe":      1 + (userIndex+i)%10,
		})
		if err == nil {
			err = e2etest.DecodeJSON(resp, http.StatusCreated, nil)
		}
		if err = stats.record(err); err != nil {
			return fmt.Errorf("user %d create session: %w", userIndex, err)
		}

		var summary map[string]any
		if err = stats.record(client.GetJSON(ctx, "/api/workload", &summary)); err != nil {
			return fmt.Errorf("user %d get workload: %w", userIndex, err)
		}
	}

	cursor := int64(0)
	for {
		path := "/api/sessions?limit=20"
		if cursor != 0 {
			path = fmt.Sprintf("/api/sessions?limit=20&cursor=%d", cursor)
		}
		var page session.Page
		if err := stats.record(client.GetJSON(ctx, path, &page)); err != nil {
			return fmt.Errorf("user %d list sessions: %w", userIndex, err)
		}
		if !page.HasMore {
			return nil
		}
		cursor = *page.NextCursor
	}
}

func runScenario(ctx context.Context, url string, numUsers int, logger *slog.Logger) error {
	stats := &counters{} //nolint:exhaustruct // zero counters
	start := time.Now()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentUsers)
	for i := range numUsers {
		group.Go(func() error {
			return runUserScenario(groupCtx, e2etest.NewClient(url), i, stats)
		})
	}
	err := group.Wait()

	rate := stats.successRate()
	logger.LogAttrs(ctx, slog.LevelInfo, "scenario finished",
		slog.Int64("attempted", stats.attempted.Load()),
		slog.Int64("succeeded", stats.succeeded.Load()),
		slog.Float64("success_rate", rate),
		slog.Duration("duration", time.Since(start)))

	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if rate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% below threshold %.1f%%", rate, successRateThreshold)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>[,num_users]")
		os.Exit(1)
	}

	arg := os.Args[1]
	hostname := arg
	numUsers := maxConcurrentUsers
	if idx := strings.IndexByte(arg, ','); idx >= 0 {
		hostname = arg[:idx]
		parsed, err := strconv.Atoi(arg[idx+1:])
		if err != nil || parsed <= 0 {
			logger.LogAttrs(ctx, slog.LevelError, "invalid num_users", slog.String("arg", arg))
			os.Exit(1)
		}
		numUsers = parsed
	}

	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	start := time.Now()
	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()
	if err := runScenario(scenarioCtx, url, numUsers, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Stress test successful 💪", slog.Duration("duration", time.Since(start)))
}
