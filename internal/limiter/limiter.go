// Package limiter pages record lists for the data command and the HTTP
// list endpoint.
package limiter

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query parameters read by FromQuery.
const (
	ParamLimit  = "limit"
	ParamOffset = "offset"
	ParamTail   = "tail"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // keep at most this many records (0 = unlimited)
	Offset int // skip the first N records
	Tail   int // keep only the last N records; excludes Limit, ignores Offset
}

// Validate rejects negative values and Limit combined with Tail.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Bounds returns the half-open window [start, end) of a list of n items.
func (c Config) Bounds(n int) (start, end int) {
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start = min(c.Offset, n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}

// Apply returns the window of items selected by c. The result shares the
// backing array of items.
func Apply[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.Bounds(len(items))
	return items[start:end]
}

// FromQuery reads limit, offset and tail from q. Missing parameters are
// zero.
func FromQuery(q url.Values) (Config, error) {
	var c Config
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{ParamLimit, &c.Limit},
		{ParamOffset, &c.Offset},
		{ParamTail, &c.Tail},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %q is not a number", p.name, raw)
		}
		*p.dst = n
	}
	return c, c.Validate()
}
