package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
	"github.com/eero-exporter/eero-exporter/internal/eero"
	"github.com/eero-exporter/eero-exporter/internal/mapper"
	"github.com/eero-exporter/eero-exporter/internal/tree"
)

// DataSource fetches the response trees for one pass. *eero.Client
// satisfies it.
type DataSource interface {
	Account(ctx context.Context) (tree.Node, error)
	Network(ctx context.Context, networkURL string) (tree.Node, error)
	Devices(ctx context.Context, networkURL string) ([]tree.Node, error)
}

// Sink receives the observations of each successful pass, one batch per
// network, plus the exporter's status. *exposition.Store satisfies it.
type Sink interface {
	Put(key string, obs []catalog.Observation)
	Retain(keep []string) int
	SetStatus(obs []catalog.Observation)
}

// Options tunes the collection schedule.
type Options struct {
	Interval time.Duration // time between passes
	Timeout  time.Duration // bound on one pass; zero means no bound
}

// Collector runs collection passes against a DataSource and publishes the
// results to a Sink. At most one pass runs at a time.
type Collector struct {
	src  DataSource
	sink Sink
	opts Options

	pass   sync.Mutex // held for the duration of one pass
	status status
	kick   chan struct{}

	now       func() time.Time           // injectable for deterministic tests
	newTicker func(time.Duration) ticker // injectable for deterministic tests
}

// ticker is the subset of *time.Ticker the run loop needs.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// New creates a Collector. The Sink receives an initial status immediately so
// the scrape endpoint has self metrics before the first pass finishes.
func New(src DataSource, sink Sink, opts Options) *Collector {
	c := &Collector{
		src:  src,
		sink: sink,
		opts: opts,
		kick: make(chan struct{}, 1),
		now:  time.Now,
		newTicker: func(d time.Duration) ticker {
			return realTicker{time.NewTicker(d)}
		},
	}
	sink.SetStatus(c.status.observations())
	return c
}

// Trigger requests a pass as soon as the run loop is free. Repeated triggers
// before that pass starts collapse into one.
func (c *Collector) Trigger() {
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// SessionChanged clears the auth-required state after a new session has been
// written and schedules an immediate pass to confirm it.
func (c *Collector) SessionChanged() {
	if c.status.needsAuth() {
		slog.Info("collector: session changed, retrying collection")
	}
	c.status.clearAuth()
	c.sink.SetStatus(c.status.observations())
	c.Trigger()
}

// Run performs a pass immediately, then one per interval and one per Trigger,
// until ctx is cancelled. Pass failures are logged and never stop the loop.
func (c *Collector) Run(ctx context.Context) {
	_ = c.Collect(ctx)

	t := c.newTicker(c.opts.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			_ = c.Collect(ctx)
		case <-c.kick:
			_ = c.Collect(ctx)
		}
	}
}

// Collect runs one pass: fetch every network with its devices, map them, and
// publish the result. A fetch error aborts the pass and leaves the
// previously published data in place. Concurrent callers serialize.
func (c *Collector) Collect(ctx context.Context) error {
	c.pass.Lock()
	defer c.pass.Unlock()

	log := slog.With("pass", uuid.NewString())
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := c.now()
	batches, warnings, err := c.fetch(ctx, log)
	took := c.now().Sub(start)

	if err != nil {
		auth := errors.Is(err, eero.ErrAuthRequired)
		c.status.failed(took, auth)
		c.sink.SetStatus(c.status.observations())
		if auth {
			log.Error("collector: session rejected, run eero-login to sign in again", "err", err)
		} else {
			log.Warn("collector: pass failed, keeping previous metrics", "err", err, "duration", took)
		}
		return err
	}

	keys := make([]string, 0, len(batches))
	observations := 0
	for _, b := range batches {
		c.sink.Put(b.key, b.obs)
		keys = append(keys, b.key)
		observations += len(b.obs)
	}
	if n := c.sink.Retain(keys); n > 0 {
		log.Info("collector: dropped networks no longer on the account", "count", n)
	}

	c.status.succeeded(c.now(), took, len(batches), warnings)
	c.sink.SetStatus(c.status.observations())
	log.Info("collector: pass complete",
		"networks", len(batches),
		"observations", observations,
		"warnings", warnings,
		"duration", took,
	)
	return nil
}

type batch struct {
	key string
	obs []catalog.Observation
}

// fetch walks the account and maps each network. Mapping problems are
// logged and counted; fetch errors are returned.
func (c *Collector) fetch(ctx context.Context, log *slog.Logger) ([]batch, int, error) {
	account, err := c.src.Account(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("collector: fetch account: %w", err)
	}

	var (
		out      []batch
		warnings int
	)
	for _, summary := range account.Get("networks", "data").List() {
		url, _ := summary.Get("url").String()
		id, err := mapper.ResourceID(url)
		if err != nil {
			warnings++
			log.Warn("collector: skipping network", "err", &mapper.EntityError{Entity: "network", Field: "url", Err: err})
			continue
		}

		details, err := c.src.Network(ctx, url)
		if err != nil {
			return nil, 0, fmt.Errorf("collector: fetch network %s: %w", id, err)
		}
		clients, err := c.src.Devices(ctx, url)
		if err != nil {
			return nil, 0, fmt.Errorf("collector: fetch devices of network %s: %w", id, err)
		}

		res := mapper.Map(summary, details, clients)
		for _, w := range res.Warnings {
			log.Warn("collector: mapping warning", "network", id, "err", w)
		}
		warnings += len(res.Warnings)
		out = append(out, batch{key: id, obs: res.Observations})
		log.Debug("collector: mapped network",
			"network", id,
			"clients", len(clients),
			"observations", len(res.Observations),
		)
	}
	return out, warnings, nil
}
