package id

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func TestGenerator_Monotonic(t *testing.T) {
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	first := g.Next()
	second := g.Next()
	third := g.Next()

	assert.Equal(t, "1736937000000", first)
	assert.Equal(t, "1736937000001", second)
	assert.Equal(t, "1736937000002", third)
}

func TestGenerator_ClockAdvances(t *testing.T) {
	now := fixed
	g := NewGeneratorWithClock(func() time.Time { return now })

	a := g.Next()
	now = now.Add(time.Second)
	b := g.Next()

	assert.Equal(t, "1736937000000", a)
	assert.Equal(t, "1736937001000", b)
}

func TestGenerator_Observe(t *testing.T) {
	g := NewGeneratorWithClock(func() time.Time { return fixed })
	g.Observe("1736937005000")
	g.Observe("not-a-number")

	assert.Equal(t, "1736937005001", g.Next())
}

func TestGenerator_Concurrent(t *testing.T) {
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50, "every id must be unique")
}

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int
		want   string
	}{
		{"INV", 1, "INV-2025-000001"},
		{"INV", 4211, "INV-2025-004211"},
		{"INV", 999_999, "INV-2025-999999"},
		{"BILL", 1_000_000, "BILL-2025-1000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInvoiceNumber(tt.prefix, fixed, tt.seq))
	}
}

func TestFormatParseReference(t *testing.T) {
	ref := FormatReference("BANK", fixed, 7)
	assert.Equal(t, "BANK-20250115-007", ref)

	prefix, day, seq, err := ParseReference(ref)
	require.NoError(t, err)
	assert.Equal(t, "BANK", prefix)
	assert.Equal(t, 2025, day.Year())
	assert.Equal(t, 15, day.Day())
	assert.Equal(t, 7, seq)

	prefix, _, seq, err = ParseReference("CHASE-CHK-20250115-012")
	require.NoError(t, err)
	assert.Equal(t, "CHASE-CHK", prefix)
	assert.Equal(t, 12, seq)
}

func TestParseReference_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"INV-001",
		"BANK-2025x115-001",
		"BANK-20250115-xyz",
	}
	for _, input := range badInputs {
		_, _, _, err := ParseReference(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}
