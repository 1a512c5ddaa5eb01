// Package mockdata serves the read-only seed tables behind a simulated
// latency. Components depend on the Source interface so tests can inject
// zero-delay or failing fakes.
package mockdata

import (
	"context"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/record"
)

// NotFoundMessage is reported when no record matches a requested id.
const NotFoundMessage = "Item not found"

// Source is the data-access boundary used by the list and item components.
type Source interface {
	// ListRecords returns every record of d. An unknown domain yields a
	// successful, empty result.
	ListRecords(ctx context.Context, d domain.Domain) (ListResult, error)
	// GetRecord returns the record of d whose numeric id equals id. A miss
	// is reported through ItemResult, not the error.
	GetRecord(ctx context.Context, d domain.Domain, id string) (ItemResult, error)
}

// ListResult is the outcome of ListRecords.
type ListResult struct {
	Success bool            `json:"success"`
	Data    []record.Record `json:"data"`
	Domain  domain.Domain   `json:"dataType"`
}

// ItemResult is the outcome of GetRecord.
type ItemResult struct {
	Success bool          `json:"success"`
	Data    record.Record `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
	Domain  domain.Domain `json:"dataType"`
}
