// Package results holds the most recent query result for all surfaces.
package results

import (
	"log/slog"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/leapstack-labs/leapbench/internal/notifier"
)

// Result is one completed query.
type Result struct {
	ID          uuid.UUID
	Seq         uint64
	SQL         string
	Table       arrow.Table
	Elapsed     time.Duration
	CompletedAt time.Time
}

// NewResult wraps a materialized table. The result takes ownership of tbl.
func NewResult(sql string, tbl arrow.Table, elapsed time.Duration) *Result {
	return &Result{
		ID:          uuid.New(),
		SQL:         sql,
		Table:       tbl,
		Elapsed:     elapsed,
		CompletedAt: time.Now(),
	}
}

// Rows returns the row count, or 0 for an empty result.
func (r *Result) Rows() int64 {
	if r == nil || r.Table == nil {
		return 0
	}
	return r.Table.NumRows()
}

// Release drops the result's reference to its table.
func (r *Result) Release() {
	if r != nil && r.Table != nil {
		r.Table.Release()
	}
}

// Ticket orders a query by submission.
type Ticket struct {
	seq uint64
}

// Seq returns the ticket's sequence number.
func (t Ticket) Seq() uint64 { return t.seq }

// Option configures a Store.
type Option func(*Store)

// WithNotifier publishes TopicResults on every change.
func WithNotifier(n *notifier.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store holds at most one result. It keeps no history.
type Store struct {
	mu        sync.RWMutex
	current   *Result
	issued    uint64
	committed uint64
	notifier  *notifier.Notifier
	logger    *slog.Logger
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notifier.New()
	}
	return s
}

// Current returns a copy of the held result with its table retained.
// The caller must Release it.
func (s *Store) Current() (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	if s.current.Table != nil {
		s.current.Table.Retain()
	}
	r := *s.current
	return &r, true
}

// Replace unconditionally installs r and releases the previous result.
// The store takes ownership of r.
func (s *Store) Replace(r *Result) {
	s.mu.Lock()
	old := s.current
	s.current = r
	s.mu.Unlock()

	old.Release()
	s.notifier.Broadcast(notifier.TopicResults)
}

// Begin issues a ticket for a query about to start.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Ticket{seq: s.issued}
}

// Commit installs r unless a newer ticket has already committed, in which
// case r is released and Commit returns false. The store takes ownership of r.
func (s *Store) Commit(t Ticket, r *Result) bool {
	s.mu.Lock()
	if committed := s.committed; t.seq < committed {
		s.mu.Unlock()
		s.logger.Debug("discarding stale result", "seq", t.seq, "committed", committed)
		r.Release()
		return false
	}
	s.committed = t.seq
	r.Seq = t.seq
	old := s.current
	s.current = r
	s.mu.Unlock()

	old.Release()
	s.notifier.Broadcast(notifier.TopicResults)
	return true
}

// Clear drops the held result.
func (s *Store) Clear() {
	s.Replace(nil)
}

// Subscribe returns a channel pinged whenever the held result changes.
func (s *Store) Subscribe() chan notifier.Topic {
	return s.notifier.Subscribe(notifier.TopicResults)
}

// Unsubscribe stops pings on ch and closes it.
func (s *Store) Unsubscribe(ch chan notifier.Topic) {
	s.notifier.Unsubscribe(ch)
}
