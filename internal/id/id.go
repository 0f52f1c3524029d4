package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Generator hands out timestamp-derived identifiers. IDs are the current
// Unix time in milliseconds, bumped past the last issued value so two calls
// in the same millisecond never collide.
type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewGenerator returns a Generator reading the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock returns a Generator reading now.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a new identifier.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return strconv.FormatInt(n, 10)
}

// Observe advances the generator past an existing identifier so loaded
// records never collide with new ones. Non-numeric ids are ignored.
func (g *Generator) Observe(existing string) {
	n, err := strconv.ParseInt(existing, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if n > g.last {
		g.last = n
	}
	g.mu.Unlock()
}

// Now returns the generator's clock reading.
func (g *Generator) Now() time.Time {
	return g.now()
}

// FormatInvoiceNumber returns an invoice number like "INV-2025-004211".
// The sequence is zero-padded to six digits and grows past that.
func FormatInvoiceNumber(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d-%06d", prefix, t.Year(), seq)
}

// FormatReference returns a transaction reference like "BANK-20250103-001".
func FormatReference(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, t.Format("20060102"), seq)
}

// ParseReference parses "BANK-20250103-001" into prefix, day and seq.
func ParseReference(ref string) (prefix string, day time.Time, seq int, err error) {
	i := strings.LastIndex(ref, "-")
	if i <= 0 {
		return "", time.Time{}, 0, fmt.Errorf("invalid reference format: %q", ref)
	}
	j := strings.LastIndex(ref[:i], "-")
	if j <= 0 {
		return "", time.Time{}, 0, fmt.Errorf("invalid reference format: %q", ref)
	}

	day, err = time.Parse("20060102", ref[j+1:i])
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("invalid date in reference %q: %w", ref, err)
	}

	seq, err = strconv.Atoi(ref[i+1:])
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("invalid sequence in reference %q: %w", ref, err)
	}

	return ref[:j], day, seq, nil
}
