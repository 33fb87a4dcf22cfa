package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		domain   string
		seq      int64
		expected string
	}{
		{domain: DomainGeneral, seq: 1, expected: "01/08.2025"},
		{domain: DomainGeneral, seq: 12, expected: "12/08.2025"},
		{domain: DomainGeneral, seq: 123, expected: "123/08.2025"},
		{domain: DomainElectrical, seq: 1, expected: "EL/001/08.2025"},
		{domain: DomainElectrical, seq: 42, expected: "EL/042/08.2025"},
		{domain: DomainTransport, seq: 1, expected: "T01/08.2025"},
		{domain: DomainTransport, seq: 99, expected: "T99/08.2025"},
		{domain: DomainPublic, seq: 7, expected: "PUB/007/08.2025"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d, err := DomainByCode(tt.domain)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.FormatNumber(tt.seq, "08.2025"))
		})
	}
}

func TestNumberPatternRoundTrip(t *testing.T) {
	for _, code := range []string{DomainGeneral, DomainElectrical, DomainTransport, DomainPublic} {
		t.Run(code, func(t *testing.T) {
			d, err := DomainByCode(code)
			require.NoError(t, err)

			number := d.FormatNumber(17, "08.2025")
			m := d.NumberPattern("08.2025").FindStringSubmatch(number)
			require.NotNil(t, m, "pattern did not match %s", number)

			// The capture keeps the domain's zero padding; compare the value
			seq, err := strconv.ParseInt(m[1], 10, 64)
			require.NoError(t, err)
			assert.Equal(t, int64(17), seq)
		})
	}
}

func TestNumberPatternRejectsOtherDomains(t *testing.T) {
	general, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	pattern := general.NumberPattern("08.2025")
	for _, number := range []string{"EL/001/08.2025", "T01/08.2025", "PUB/001/08.2025", "01/09.2025"} {
		assert.Nil(t, pattern.FindStringSubmatch(number), "unexpectedly matched %s", number)
	}
}

func TestNextFromScan(t *testing.T) {
	general, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	tests := []struct {
		name     string
		existing []string
		expected int64
	}{
		{name: "empty period starts at one", existing: nil, expected: 1},
		{name: "highest plus one", existing: []string{"01/08.2025", "02/08.2025"}, expected: 3},
		{name: "gaps are not refilled", existing: []string{"01/08.2025", "05/08.2025"}, expected: 6},
		{name: "malformed numbers restart at one", existing: []string{"garbage", "EL/001/08.2025"}, expected: 1},
		{name: "other periods are invisible", existing: []string{"09/07.2025", "02/08.2025"}, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextFromScan(general, "08.2025", tt.existing))
		})
	}
}

func TestNextClientFromScan(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		expected int64
	}{
		{name: "empty", existing: nil, expected: 1},
		{name: "next after highest", existing: []string{"CLIENT-01-1722500000/08.2025", "CLIENT-03-1722500123/08.2025"}, expected: 4},
		{name: "staff numbers do not count", existing: []string{"01/08.2025", "EL/001/08.2025"}, expected: 1},
		{name: "other periods do not count", existing: []string{"CLIENT-09-1722500000/07.2025"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextClientFromScan("08.2025", tt.existing))
		})
	}
}

func TestFormatClientNumberMatchesPattern(t *testing.T) {
	general, err := DomainByCode(DomainGeneral)
	require.NoError(t, err)

	number := general.FormatClientNumber(5, 1722500000, "08.2025")
	assert.Equal(t, "CLIENT-05-1722500000/08.2025", number)

	m := ClientNumberPattern("08.2025").FindStringSubmatch(number)
	require.NotNil(t, m)
	assert.Equal(t, "05", m[1])
}

func TestSequenceKey(t *testing.T) {
	at := time.Date(2025, time.August, 14, 10, 30, 0, 0, time.UTC)

	key := NewSequenceKey(DomainElectrical, at)
	assert.Equal(t, "electrical", key.Domain)
	assert.Equal(t, "08.2025", key.Period)
	assert.Equal(t, "electrical|08.2025", key.CounterName())
}

func TestInMemorySequenceAllocator(t *testing.T) {
	allocator := NewInMemorySequenceAllocator()
	ctx := context.Background()

	keyA := SequenceKey{Domain: DomainGeneral, Period: "08.2025"}
	keyB := SequenceKey{Domain: DomainGeneral, Period: "09.2025"}

	for i := int64(1); i <= 3; i++ {
		seq, err := allocator.Allocate(ctx, keyA)
		require.NoError(t, err)
		assert.Equal(t, i, seq)
	}

	// A new period starts its own sequence at 1
	seq, err := allocator.Allocate(ctx, keyB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestInMemorySequenceAllocatorConcurrent(t *testing.T) {
	allocator := NewInMemorySequenceAllocator()
	ctx := context.Background()
	key := SequenceKey{Domain: DomainTransport, Period: "08.2025"}

	const workers = 50
	results := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := allocator.Allocate(ctx, key)
			assert.NoError(t, err)
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	for seq := range results {
		assert.False(t, seen[seq], "duplicate sequence %d", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, workers)

	for i := int64(1); i <= workers; i++ {
		assert.True(t, seen[i], fmt.Sprintf("missing sequence %d", i))
	}
}
