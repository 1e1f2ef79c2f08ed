// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/retrodesk/render"
)

// DefaultGracePeriod is how long an unused target survives.
const DefaultGracePeriod = 30 * time.Second

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("cache: closed")

// Key returns the sharing key of a target description.
func Key(width, height, anisotropy int) string {
	return fmt.Sprintf("%dx%d-a%d", width, height, anisotropy)
}

// Spec is the shape of a requested target.
type Spec struct {
	Width      int
	Height     int
	Anisotropy int
}

// Key returns Key(s.Width, s.Height, s.Anisotropy).
func (s Spec) Key() string {
	return Key(s.Width, s.Height, s.Anisotropy)
}

// Lease is an owner's hold on a target.
type Lease struct {
	Target render.Target
	Key    string
	Owner  string

	cache  *TargetCache
	shared bool
	once   sync.Once
}

// Shared reports whether the target is shared through the cache.
func (l *Lease) Shared() bool {
	return l.shared
}

// Release gives the target back. Shared targets go through
// TargetCache.Release; private targets are disposed immediately.
// Release is idempotent.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.shared {
			l.cache.Release(l.Owner, l.Key)
			return
		}
		l.Target.Dispose()
		l.cache.log.Debug("private render target disposed", "key", l.Key, "owner", l.Owner)
	})
}

type entry struct {
	target render.Target
	users  map[string]struct{}

	lastReleasedAt time.Time
	timer          Timer
	// generation changes on every transition of the user set, so a timer
	// scheduled for an earlier empty period recognizes that it is stale.
	generation uint64
}

// Stats are cache counters.
type Stats struct {
	Entries         int
	Users           int
	PendingDisposal int
	Hits            uint64
	Misses          uint64
	Allocations     uint64
	Disposals       uint64
	Private         uint64
}

// HitRate returns Hits / (Hits + Misses), or 0 before any acquire.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// TargetCache shares render targets by key.
//
// TargetCache is safe for concurrent use. Disposal timers fire on their own
// goroutines and take the same lock as Acquire and Release.
type TargetCache struct {
	alloc render.Allocator
	clock Clock
	grace time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	hits, misses, allocations, disposals, private uint64
}

// Option configures a TargetCache.
type Option func(*TargetCache)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(tc *TargetCache) {
		tc.clock = c
	}
}

// WithGracePeriod sets how long an unused target survives.
func WithGracePeriod(d time.Duration) Option {
	return func(tc *TargetCache) {
		if d >= 0 {
			tc.grace = d
		}
	}
}

// WithLogger sets the logger. Nil keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(tc *TargetCache) {
		if l != nil {
			tc.log = l
		}
	}
}

// New creates a cache allocating targets with alloc.
func New(alloc render.Allocator, opts ...Option) *TargetCache {
	c := &TargetCache{
		alloc:   alloc,
		clock:   SystemClock{},
		grace:   DefaultGracePeriod,
		log:     slog.New(slog.DiscardHandler),
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire returns a lease on a target of the given shape for owner.
//
// With shared set, owners asking for the same shape get the same target and
// a pending disposal of that target is cancelled. Without it, a private
// target is allocated for this lease alone.
func (c *TargetCache) Acquire(spec Spec, owner string, shared bool) (*Lease, error) {
	key := spec.Key()
	desc := render.TargetDesc{
		Label:      "screen-" + key,
		Width:      spec.Width,
		Height:     spec.Height,
		Anisotropy: spec.Anisotropy,
	}

	if !shared {
		target, err := c.alloc.Allocate(desc)
		if err != nil {
			return nil, fmt.Errorf("cache: allocate %s: %w", key, err)
		}
		c.mu.Lock()
		c.private++
		c.mu.Unlock()
		return &Lease{Target: target, Key: key, Owner: owner, cache: c}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	e, ok := c.entries[key]
	if ok {
		c.hits++
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		if len(e.users) == 0 {
			e.generation++
			c.log.Debug("render target revived", "key", key, "idle", c.clock.Now().Sub(e.lastReleasedAt))
		}
		e.users[owner] = struct{}{}
		return &Lease{Target: e.target, Key: key, Owner: owner, cache: c, shared: true}, nil
	}

	target, err := c.alloc.Allocate(desc)
	if err != nil {
		return nil, fmt.Errorf("cache: allocate %s: %w", key, err)
	}
	c.misses++
	c.allocations++
	c.entries[key] = &entry{
		target: target,
		users:  map[string]struct{}{owner: {}},
	}
	c.log.Debug("render target allocated", "key", key, "owner", owner)
	return &Lease{Target: target, Key: key, Owner: owner, cache: c, shared: true}, nil
}

// Release removes owner from the users of key. When the user set becomes
// empty, disposal is scheduled after the grace period. Unknown keys and
// owners are ignored.
func (c *TargetCache) Release(owner, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	if _, held := e.users[owner]; !held {
		return
	}
	delete(e.users, owner)
	if len(e.users) > 0 {
		return
	}

	e.lastReleasedAt = c.clock.Now()
	e.generation++
	gen := e.generation
	e.timer = c.clock.AfterFunc(c.grace, func() {
		c.expire(key, gen)
	})
	c.log.Debug("render target idle", "key", key, "grace", c.grace)
}

// expire disposes key if it has stayed unused since generation gen.
func (c *TargetCache) expire(key string, gen uint64) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.generation != gen || len(e.users) > 0 {
		c.mu.Unlock()
		return
	}
	delete(c.entries, key)
	c.disposals++
	c.mu.Unlock()

	e.target.Dispose()
	c.log.Debug("render target disposed", "key", key)
}

// Users returns the sorted owners of key.
func (c *TargetCache) Users(key string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	users := make([]string, 0, len(e.users))
	for u := range e.users {
		users = append(users, u)
	}
	slices.Sort(users)
	return users
}

// Len returns the number of live targets, including those awaiting
// disposal.
func (c *TargetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *TargetCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries:     len(c.entries),
		Hits:        c.hits,
		Misses:      c.misses,
		Allocations: c.allocations,
		Disposals:   c.disposals,
		Private:     c.private,
	}
	for _, e := range c.entries {
		s.Users += len(e.users)
		if len(e.users) == 0 {
			s.PendingDisposal++
		}
	}
	return s
}

// Close disposes every target, held or not, and rejects later acquires.
func (c *TargetCache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	targets := make([]render.Target, 0, len(c.entries))
	for key, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		targets = append(targets, e.target)
		delete(c.entries, key)
	}
	c.disposals += uint64(len(targets))
	c.mu.Unlock()

	for _, t := range targets {
		t.Dispose()
	}
	c.log.Info("render target cache closed", "disposed", len(targets))
}
