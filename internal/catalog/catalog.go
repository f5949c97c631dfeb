// Package catalog keeps the parsed reading log in memory. Readers get
// immutable snapshots; reloads replace the snapshot atomically.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"booklog/internal/books"
	"booklog/internal/core"
	"booklog/internal/log"
)

// ErrNotLoaded is returned when no snapshot has been loaded yet.
var ErrNotLoaded = errors.New("catalog not loaded")

// Snapshot is one loaded version of the reading log. It must not be
// modified after publication.
type Snapshot struct {
	Version  uint64
	Source   string
	Books    []core.Book
	ByDate   core.DateIndex
	Months   []core.MonthGroup
	Undated  int
	LoadedAt time.Time
}

// Month returns the books of m in input order.
func (s *Snapshot) Month(m core.MonthScope) []core.Book {
	return core.FilterByMonth(s.Books, m)
}

// Days groups the books of m by day of month.
func (s *Snapshot) Days(m core.MonthScope) core.DayGroup {
	return core.GroupByDay(s.Month(m))
}

// Catalog owns the current snapshot of a Source.
type Catalog struct {
	source  books.Source
	logger  *log.Logger
	slog    *log.StructuredLogger
	now     func() time.Time
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	group   singleflight.Group

	mu        sync.Mutex
	listeners []func(*Snapshot)
}

// New creates an empty catalog over source.
func New(source books.Source, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Discard()
	}
	return &Catalog{
		source: source,
		logger: logger.WithComponent(log.ComponentCatalog),
		slog:   log.NewStructuredLogger(logger),
		now:    time.Now,
	}
}

// Source returns the name of the underlying source.
func (c *Catalog) Source() string {
	return c.source.Name()
}

// OnReload registers fn to run after every successful load.
func (c *Catalog) OnReload(fn func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() (*Snapshot, error) {
	s := c.current.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// Ready reports whether a snapshot is available.
func (c *Catalog) Ready() bool {
	return c.current.Load() != nil
}

// Load reads the source and publishes a new snapshot. Concurrent calls share
// one read. On failure the previous snapshot stays in place.
func (c *Catalog) Load(ctx context.Context) (*Snapshot, error) {
	v, err, shared := c.group.Do("load", func() (any, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "Catalog load shared with concurrent caller")
	}
	return v.(*Snapshot), nil
}

// Reload is Load for change notifications: errors are logged and the
// previous snapshot is kept.
func (c *Catalog) Reload(ctx context.Context, reason string) {
	start := c.now()
	if _, err := c.Load(ctx); err != nil {
		c.slog.LogError(ctx, "Catalog reload failed, keeping previous snapshot", err,
			log.ComponentCatalog, log.OpReload, log.NewFields().WithCatalog(c.source.Name(), 0, 0))
		return
	}
	c.logger.InfoContext(ctx, "Catalog reloaded",
		log.FieldOperation, log.OpReload,
		"reason", reason,
		log.FieldDuration, c.now().Sub(start).Milliseconds())
}

func (c *Catalog) load(ctx context.Context) (*Snapshot, error) {
	raw, err := c.source.LoadBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load books from %s: %w", c.source.Name(), err)
	}

	parsed := core.ParseRecords(raw)
	snap := &Snapshot{
		Version:  c.version.Add(1),
		Source:   c.source.Name(),
		Books:    parsed,
		ByDate:   core.IndexByDate(parsed),
		Months:   core.GroupByMonth(parsed),
		Undated:  core.CountUndated(parsed),
		LoadedAt: c.now(),
	}
	c.current.Store(snap)
	c.slog.LogCatalogLoaded(ctx, snap.Source, len(snap.Books), snap.Undated)

	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
	return snap, nil
}
