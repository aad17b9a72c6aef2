// Command smoketest exercises a running server end to end: it creates a
// session, reads the workload metrics, and cleans up after itself. It runs
// the read checks concurrently to also catch data races behind the API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/trainload/internal/e2etest"
	"github.com/myrjola/trainload/internal/logging"
	"github.com/myrjola/trainload/internal/session"
	"github.com/myrjola/trainload/internal/testhelpers"
)

func testSessionLifecycle(ctx context.Context, client *e2etest.Client) error {
	resp, err := client.Post(ctx, "/api/sessions", map[string]any{
		"date":     time.Now().Format(time.DateOnly),
		"type":     "Cardio",
		"duration": 30,
		"rpe":      5,
		"notes":    "smoke test",
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	var created session.Session
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, &created); err != nil {
		return fmt.Errorf("decode created session: %w", err)
	}

	// Concurrent reads against the session and the workload endpoints.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var got session.Session
		if err := client.GetJSON(groupCtx, fmt.Sprintf("/api/sessions/%d", created.ID), &got); err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var page session.Page
		if err := client.GetJSON(groupCtx, "/api/sessions", &page); err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(page.Sessions) == 0 {
			return fmt.Errorf("list sessions: expected at least one session")
		}
		return nil
	})
	group.Go(func() error {
		var summary map[string]any
		if err := client.GetJSON(groupCtx, "/api/workload", &summary); err != nil {
			return fmt.Errorf("get workload: %w", err)
		}
		if _, ok := summary["status"]; !ok {
			return fmt.Errorf("get workload: response missing status")
		}
		return nil
	})
	if err = group.Wait(); err != nil {
		return err
	}

	if resp, err = client.Delete(ctx, fmt.Sprintf("/api/sessions/%d", created.ID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	if err = testSessionLifecycle(testCtx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing session lifecycle", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
