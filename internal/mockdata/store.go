package mockdata

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/pkg/logger"
)

//go:embed seed.yaml
var seedYAML []byte

// DefaultLatency is the simulated round trip applied to every call.
const DefaultLatency = 500 * time.Millisecond

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleeper waits on a timer and honours cancellation.
func ContextSleeper(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Store is the in-memory Source built from the embedded seed tables.
type Store struct {
	tables  map[domain.Domain][]record.Record
	seed    []byte
	latency time.Duration
	sleep   Sleeper
}

// Option configures a Store.
type Option func(*Store)

// WithLatency sets the simulated delay. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithSleeper replaces the function used to wait out the latency.
func WithSleeper(fn Sleeper) Option {
	return func(s *Store) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithSeed replaces the embedded seed document.
func WithSeed(doc []byte) Option {
	return func(s *Store) { s.seed = doc }
}

// NewStore decodes the seed tables and checks that ids are unique.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{seed: seedYAML, latency: DefaultLatency, sleep: ContextSleeper}
	for _, opt := range opts {
		opt(s)
	}
	tables, err := decodeSeed(s.seed)
	if err != nil {
		return nil, err
	}
	s.tables = tables
	return s, nil
}

// MustNewStore is NewStore for the embedded seed, which is known good.
func MustNewStore(opts ...Option) *Store {
	s, err := NewStore(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func decodeSeed(doc []byte) (map[domain.Domain][]record.Record, error) {
	raw := map[string][]map[string]any{}
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decoding seed data: %w", err)
	}
	tables := make(map[domain.Domain][]record.Record, len(raw))
	for name, rows := range raw {
		d, err := domain.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("seed table: %w", err)
		}
		seen := make(map[float64]bool, len(rows))
		recs := make([]record.Record, 0, len(rows))
		for i, row := range rows {
			r := record.Record(row)
			id, ok := record.ID(r)
			if !ok {
				return nil, fmt.Errorf("seed table %s row %d: missing numeric id", d, i)
			}
			if seen[id] {
				return nil, fmt.Errorf("seed table %s: duplicate id %v", d, record.Stringify(r[record.IDKey]))
			}
			seen[id] = true
			recs = append(recs, r)
		}
		tables[d] = recs
	}
	return tables, nil
}

// Latency returns the configured simulated delay.
func (s *Store) Latency() time.Duration { return s.latency }

// ListRecords implements Source.
func (s *Store) ListRecords(ctx context.Context, d domain.Domain) (ListResult, error) {
	lgr := logger.FromContext(ctx)
	lgr.V(1).Info("loading list data", "domain", d)

	if err := s.sleep(ctx, s.latency); err != nil {
		return ListResult{}, fmt.Errorf("listing %s: %w", d, err)
	}

	rows := s.tables[d]
	data := make([]record.Record, len(rows))
	for i, r := range rows {
		data[i] = record.Clone(r)
	}
	lgr.V(1).Info("returning list data", "domain", d, "count", len(data))
	return ListResult{Success: true, Data: data, Domain: d}, nil
}

// GetRecord implements Source.
func (s *Store) GetRecord(ctx context.Context, d domain.Domain, id string) (ItemResult, error) {
	lgr := logger.FromContext(ctx)
	lgr.V(1).Info("loading item data", "domain", d, "id", id)

	if err := s.sleep(ctx, s.latency); err != nil {
		return ItemResult{}, fmt.Errorf("getting %s #%s: %w", d, id, err)
	}

	want := record.CoerceID(id)
	for _, r := range s.tables[d] {
		if got, ok := record.ID(r); ok && got == want {
			lgr.V(1).Info("returning item", "domain", d, "id", id)
			return ItemResult{Success: true, Data: record.Clone(r), Domain: d}, nil
		}
	}
	return ItemResult{Success: false, Error: NotFoundMessage, Domain: d}, nil
}
