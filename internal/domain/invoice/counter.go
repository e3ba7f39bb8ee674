package invoice

import (
	"fmt"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Counter is the per-year sequence that mints invoice numbers.
// Exactly one counter exists per calendar year and its sequence only grows.
type Counter struct {
	ID       string
	Year     int
	Sequence int64
}

// CounterID returns the identity of the counter for year
func CounterID(year int) string {
	return fmt.Sprintf("INVOICE_%d", year)
}

// NewCounter creates an unused counter for year
func NewCounter(year int) *Counter {
	return &Counter{
		ID:       CounterID(year),
		Year:     year,
		Sequence: 0,
	}
}

// Advance increments the sequence and returns the newly issued value
func (c *Counter) Advance() (int64, error) {
	if c.Sequence < 0 {
		return 0, shared.NewDomainError(shared.CodeCorruptSequenceState,
			fmt.Sprintf("Counter %s has negative sequence %d", c.ID, c.Sequence))
	}
	c.Sequence++
	return c.Sequence, nil
}

// NextNumber returns the invoice number the next Advance would issue
func (c *Counter) NextNumber() string {
	return FormatNumber(c.Year, c.Sequence+1)
}
