package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jkivimaki/trainwise/internal/e2etest"
	"github.com/jkivimaki/trainwise/internal/logging"
	"github.com/jkivimaki/trainwise/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout       = 10 * time.Second
	scenarioTimeout      = 5 * time.Minute
	maxConcurrentClients = 20
	successRateThreshold = 95.0
	expectedArgsCount    = 3
	percentageMultiplier = 100
)

// readPaths are the pages every client hammers in a loop. They exercise the
// read pool, the progression engine, and the pattern detector.
var readPaths = []string{"/", "/checkin", "/progressions", "/insights"}

type stats struct {
	requests  atomic.Int64
	failures  atomic.Int64
	latencies []time.Duration
	mu        sync.Mutex
}

func (s *stats) record(latency time.Duration, err error) {
	s.requests.Add(1)
	if err != nil {
		s.failures.Add(1)
		return
	}
	s.mu.Lock()
	s.latencies = append(s.latencies, latency)
	s.mu.Unlock()
}

// percentile returns the given latency percentile, zero when nothing succeeded.
func (s *stats) percentile(p float64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.latencies) == 0 {
		return 0
	}
	sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
	idx := int(float64(len(s.latencies)-1) * p)
	return s.latencies[idx]
}

func runClient(ctx context.Context, url string, rounds int, s *stats) error {
	client, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	for range rounds {
		for _, path := range readPaths {
			reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			start := time.Now()
			_, err = client.GetDoc(reqCtx, path)
			cancel()
			s.record(time.Since(start), err)
		}
	}
	return nil
}

func run(ctx context.Context, logger *slog.Logger, url string, clients, rounds int) error {
	var s stats

	if err := waitForServer(ctx, url); err != nil {
		return err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentClients)
	for range clients {
		g.Go(func() error {
			return runClient(gctx, url, rounds, &s)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run clients: %w", err)
	}

	total := s.requests.Load()
	failed := s.failures.Load()
	successRate := float64(total-failed) / float64(total) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Int64("requests", total),
		slog.Int64("failures", failed),
		slog.String("success_rate", fmt.Sprintf("%.1f%%", successRate)),
		slog.Duration("p50", s.percentile(0.50)), //nolint:mnd // median
		slog.Duration("p95", s.percentile(0.95)), //nolint:mnd // tail latency
		slog.Duration("duration", time.Since(start)))

	if successRate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% below threshold %.1f%%", successRate, successRateThreshold)
	}
	return nil
}

func waitForServer(ctx context.Context, url string) error {
	client, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("create probe client: %w", err)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return fmt.Errorf("server not ready in time: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> <clients>")
		os.Exit(1)
	}

	hostname := os.Args[1]
	clients, err := strconv.Atoi(os.Args[2])
	if err != nil || clients < 1 {
		logger.LogAttrs(ctx, slog.LevelError, "clients must be a positive integer")
		os.Exit(1)
	}

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	runCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	rounds := 10
	if err = run(runCtx, logger, url, clients, rounds); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test failed", slog.Any("error", err))
		os.Exit(1)
	}
}
