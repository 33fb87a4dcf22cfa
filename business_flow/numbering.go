package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rentalworks/quoting/utils"
)

// SequenceKey identifies one document-number sequence. Sequences are
// independent per domain and per calendar month; a new month starts a new
// sequence at 1.
type SequenceKey struct {
	Domain string
	Period string
}

// NewSequenceKey builds the key for a domain at the given allocation time.
func NewSequenceKey(domain string, at time.Time) SequenceKey {
	return SequenceKey{Domain: domain, Period: utils.PeriodOf(at)}
}

// CounterName renders the key as the persistent counter row name.
func (k SequenceKey) CounterName() string {
	return fmt.Sprintf("%s|%s", k.Domain, k.Period)
}

// SequenceAllocator hands out strictly increasing sequence values for a key.
// Allocated values are claimed immediately: a value handed out for a quote
// that later fails to persist leaves a gap, never a duplicate.
type SequenceAllocator interface {
	Allocate(ctx context.Context, key SequenceKey) (int64, error)
}

// InMemorySequenceAllocator is a process-local allocator backed by a mutex
// map. Suitable for tests and single-node tooling, not for shared state.
type InMemorySequenceAllocator struct {
	mu       sync.Mutex
	counters map[SequenceKey]int64
}

func NewInMemorySequenceAllocator() *InMemorySequenceAllocator {
	return &InMemorySequenceAllocator{counters: make(map[SequenceKey]int64)}
}

// Allocate implements SequenceAllocator.
func (a *InMemorySequenceAllocator) Allocate(_ context.Context, key SequenceKey) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters[key]++
	return a.counters[key], nil
}

// NextFromScan derives the next sequence value for a domain by scanning the
// document numbers already issued in the period: highest matching sequence
// plus one. Numbers that do not match the domain's pattern contribute
// nothing, so a malformed row degrades to restarting at 1 instead of
// failing the allocation.
func NextFromScan(domain DomainDescriptor, period string, existing []string) int64 {
	pattern := domain.NumberPattern(period)
	var max int64
	for _, number := range existing {
		m := pattern.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		seq, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max + 1
}

// NextClientFromScan is the scan-path counterpart for client-submitted
// numbers, which carry their own prefix and are sequenced apart from the
// domain's own documents.
func NextClientFromScan(period string, existing []string) int64 {
	pattern := ClientNumberPattern(period)
	var max int64
	for _, number := range existing {
		m := pattern.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		seq, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max + 1
}
