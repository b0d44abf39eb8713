package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "Base URL of the running server")
	workers := flag.Int("workers", 8, "Number of concurrent clients")
	requests := flag.Int("requests", 100, "Request rounds per client")
	maxWait := flag.Duration("max-wait", 5*time.Second, "Upper bound on a single Retry-After backoff")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &tester{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: *baseURL,
		maxWait: *maxWait,
	}

	start := time.Now()
	res, err := c.run(ctx, *workers, *requests)
	log.Printf("%d requests in %s, %d throttled, %d contract violations",
		res.Requests.Load(), time.Since(start).Round(time.Millisecond), res.Throttled.Load(), res.Failures.Load())
	if err != nil {
		log.Fatalf("Stress run failed: %v", err)
	}
	if res.Failures.Load() > 0 {
		os.Exit(1)
	}
}

// maxRetries bounds how many 429 responses a single check tolerates before
// it is reported as a failure.
const maxRetries = 20

type result struct {
	Requests  atomic.Int64
	Throttled atomic.Int64
	Failures  atomic.Int64
}

type tester struct {
	client  *http.Client
	baseURL string
	// maxWait caps the backoff taken from Retry-After.
	maxWait time.Duration

	res *result
}

// run has every worker cycle through the stub endpoints and check that each
// response matches the fixed contract. Echo payloads are unique per worker
// and round, so any cross-request leakage shows up as a mismatch. Rate
// limited responses are retried after Retry-After and counted separately.
func (c *tester) run(ctx context.Context, workers, rounds int) (*result, error) {
	res := &result{}
	c.res = res
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		w := w // per-iteration copy; go 1.21 loop semantics
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for _, check := range []func() error{
					func() error { return c.checkHealth(ctx) },
					func() error { return c.checkGameStats(ctx) },
					func() error { return c.checkSaveStats(ctx, w, i) },
				} {
					res.Requests.Add(1)
					if err := check(); err != nil {
						res.Failures.Add(1)
						log.Printf("worker %d round %d: %v", w, i, err)
					}
				}
			}
			return nil
		})
	}

	return res, g.Wait()
}

// do sends one logical request, retrying while the server answers 429.
func (c *tester) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	for attempt := 0; ; attempt++ {
		status, data, wait, err := c.send(ctx, method, path, body)
		if err != nil || status != http.StatusTooManyRequests {
			return status, data, err
		}
		c.res.Throttled.Add(1)
		if attempt >= maxRetries {
			return status, data, fmt.Errorf("%s %s: still throttled after %d retries", method, path, maxRetries)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *tester) send(ctx context.Context, method, path string, body []byte) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req) // #nosec G704 -- URL comes from the operator's -url flag
	if err != nil {
		return 0, nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, c.retryAfter(resp.Header.Get("Retry-After")), err
}

// retryAfter reads a delay-seconds Retry-After value, falling back to one
// second, and clamps it to maxWait.
func (c *tester) retryAfter(value string) time.Duration {
	wait := time.Second
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		wait = time.Duration(secs) * time.Second
	}
	if c.maxWait > 0 && wait > c.maxWait {
		wait = c.maxWait
	}
	return wait
}

func (c *tester) checkHealth(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("health: status %d", status)
	}
	var resp map[string]string
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if resp["status"] != "healthy" {
		return fmt.Errorf("health: status field %q", resp["status"])
	}
	return nil
}

func (c *tester) checkGameStats(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, "/api/game-stats", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("game-stats: status %d", status)
	}
	var resp struct {
		Stats map[string]int `json:"stats"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("game-stats: %w", err)
	}
	for k, v := range resp.Stats {
		if v != 0 {
			return fmt.Errorf("game-stats: %s = %d, expected 0", k, v)
		}
	}
	return nil
}

func (c *tester) checkSaveStats(ctx context.Context, worker, round int) error {
	sent := map[string]any{"aiXWins": float64(worker), "totalGames": float64(round)}
	payload, _ := json.Marshal(sent)

	status, body, err := c.do(ctx, http.MethodPost, "/api/save-stats", payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("save-stats: status %d: %s", status, body)
	}
	var resp struct {
		SavedStats map[string]any `json:"saved_stats"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("save-stats: %w", err)
	}
	if !reflect.DeepEqual(resp.SavedStats, sent) {
		return fmt.Errorf("save-stats: echoed %v, sent %v", resp.SavedStats, sent)
	}
	return nil
}
