// Package books defines where the reading log comes from.
package books

import (
	"context"
	"errors"

	"booklog/internal/core"
)

// ErrNoRecords is returned by sources that hold no data at all, as opposed
// to an empty but valid log.
var ErrNoRecords = errors.New("no book records")

// Ports for inbound data adapters.
type (
	// Source loads the ordered list of raw records.
	Source interface {
		LoadBooks(ctx context.Context) ([]core.RawBook, error)
		Name() string
	}

	// Writer replaces the stored log with records, keeping their order.
	Writer interface {
		UpsertBooks(ctx context.Context, records []core.RawBook) (int, error)
	}
)
