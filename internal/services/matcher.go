package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/epeers/transferdesk/internal/models"
)

var ErrNoMatch = errors.New("no matching instrument")

// Directory is a read-only lookup over the instrument reference directory.
// Implementations return (nil, nil) on a clean miss; a non-nil error means
// the lookup itself failed. Ticker, ISIN and name lookups are
// case-insensitive.
type Directory interface {
	FindByTicker(ctx context.Context, ticker string) (*models.Instrument, error)
	FindByISIN(ctx context.Context, isin string) (*models.Instrument, error)
	FindByID(ctx context.Context, id int64) (*models.Instrument, error)
	// FindByName tries a case-insensitive exact match first, then a
	// contains match. Ties resolve to the directory's stable ordering.
	FindByName(ctx context.Context, name string) (*models.Instrument, error)
}

// Matcher resolves an identifier bundle to exactly one directory entry.
type Matcher struct {
	dir Directory
}

// NewMatcher creates a new Matcher over the given directory.
func NewMatcher(dir Directory) *Matcher {
	return &Matcher{dir: dir}
}

// Match tries the bundle's identifier keys in fixed priority order: ticker,
// ISIN, internal ID, then name. The first key that produces a directory hit
// wins and the search stops there, even if a later key would have matched a
// different instrument. Downstream review relies on this asymmetry being
// deterministic, so the order must not change.
//
// Returns ErrNoMatch (wrapped with the attempted keys) when none of the
// supplied keys hit.
func (m *Matcher) Match(ctx context.Context, bundle models.IdentifierBundle) (*models.Instrument, error) {
	if bundle.IsEmpty() {
		return nil, fmt.Errorf("%w: no identifiers supplied", ErrNoMatch)
	}

	if bundle.Ticker != "" {
		inst, err := m.dir.FindByTicker(ctx, bundle.Ticker)
		if err != nil {
			return nil, fmt.Errorf("ticker lookup failed: %w", err)
		}
		if inst != nil {
			return inst, nil
		}
	}

	if bundle.ISIN != "" {
		inst, err := m.dir.FindByISIN(ctx, bundle.ISIN)
		if err != nil {
			return nil, fmt.Errorf("isin lookup failed: %w", err)
		}
		if inst != nil {
			return inst, nil
		}
	}

	if bundle.InstrumentID != 0 {
		inst, err := m.dir.FindByID(ctx, bundle.InstrumentID)
		if err != nil {
			return nil, fmt.Errorf("id lookup failed: %w", err)
		}
		if inst != nil {
			return inst, nil
		}
	}

	if bundle.Name != "" {
		inst, err := m.dir.FindByName(ctx, bundle.Name)
		if err != nil {
			return nil, fmt.Errorf("name lookup failed: %w", err)
		}
		if inst != nil {
			return inst, nil
		}
	}

	return nil, fmt.Errorf("%w: tried %s", ErrNoMatch, strings.Join(bundle.AttemptedKeys(), ", "))
}
