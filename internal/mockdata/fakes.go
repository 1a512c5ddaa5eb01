package mockdata

import (
	"context"
	"sync"

	"github.com/oakwood-commons/uideck/internal/domain"
)

// FailingSource returns Err from every call.
type FailingSource struct {
	Err error
}

// ListRecords implements Source.
func (f FailingSource) ListRecords(_ context.Context, _ domain.Domain) (ListResult, error) {
	return ListResult{}, f.Err
}

// GetRecord implements Source.
func (f FailingSource) GetRecord(_ context.Context, _ domain.Domain, _ string) (ItemResult, error) {
	return ItemResult{}, f.Err
}

// CountingSource wraps a Source and counts the calls made through it.
type CountingSource struct {
	Source Source

	mu    sync.Mutex
	lists int
	gets  int
}

// ListRecords implements Source.
func (c *CountingSource) ListRecords(ctx context.Context, d domain.Domain) (ListResult, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.Source.ListRecords(ctx, d)
}

// GetRecord implements Source.
func (c *CountingSource) GetRecord(ctx context.Context, d domain.Domain, id string) (ItemResult, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Source.GetRecord(ctx, d, id)
}

// Calls returns the number of ListRecords and GetRecord calls so far.
func (c *CountingSource) Calls() (lists, gets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists, c.gets
}
