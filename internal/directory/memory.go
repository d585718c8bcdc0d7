// Package directory provides implementations of the instrument reference
// directory: an in-memory snapshot (CSV-seeded mode and tests) and a
// read-through cache for the database-backed directory.
package directory

import (
	"context"
	"strings"

	"github.com/epeers/transferdesk/internal/models"
)

// Memory is an immutable in-memory instrument directory. Lookups by
// ticker, ISIN and name are case-insensitive. Name scans walk the
// instruments in insertion order so fuzzy matches are deterministic.
type Memory struct {
	byID     map[int64]*models.Instrument
	byTicker map[string]*models.Instrument
	byISIN   map[string]*models.Instrument
	ordered  []*models.Instrument
}

// NewMemory builds a directory from a slice of instruments. When two
// instruments share a ticker or ISIN the first one wins, matching the
// deterministic-resolution contract.
func NewMemory(instruments []models.Instrument) *Memory {
	m := &Memory{
		byID:     make(map[int64]*models.Instrument, len(instruments)),
		byTicker: make(map[string]*models.Instrument, len(instruments)),
		byISIN:   make(map[string]*models.Instrument, len(instruments)),
	}
	for i := range instruments {
		inst := instruments[i]
		m.ordered = append(m.ordered, &inst)
		if _, ok := m.byID[inst.ID]; !ok {
			m.byID[inst.ID] = &inst
		}
		tick := strings.ToUpper(inst.Ticker)
		if _, ok := m.byTicker[tick]; !ok && tick != "" {
			m.byTicker[tick] = &inst
		}
		if inst.ISIN != nil {
			isin := strings.ToUpper(*inst.ISIN)
			if _, ok := m.byISIN[isin]; !ok && isin != "" {
				m.byISIN[isin] = &inst
			}
		}
	}
	return m
}

// Len returns the number of instruments loaded.
func (m *Memory) Len() int {
	return len(m.ordered)
}

// FindByTicker looks up an instrument by ticker, case-insensitively.
func (m *Memory) FindByTicker(_ context.Context, ticker string) (*models.Instrument, error) {
	return copyOf(m.byTicker[strings.ToUpper(strings.TrimSpace(ticker))]), nil
}

// FindByISIN looks up an instrument by ISIN, case-insensitively.
func (m *Memory) FindByISIN(_ context.Context, isin string) (*models.Instrument, error) {
	return copyOf(m.byISIN[strings.ToUpper(strings.TrimSpace(isin))]), nil
}

// FindByID looks up an instrument by internal ID.
func (m *Memory) FindByID(_ context.Context, id int64) (*models.Instrument, error) {
	return copyOf(m.byID[id]), nil
}

// FindByName tries a case-insensitive exact name match first, then falls
// back to the first instrument whose name contains the query.
func (m *Memory) FindByName(_ context.Context, name string) (*models.Instrument, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}
	for _, inst := range m.ordered {
		if strings.ToLower(inst.Name) == needle {
			return copyOf(inst), nil
		}
	}
	for _, inst := range m.ordered {
		if strings.Contains(strings.ToLower(inst.Name), needle) {
			return copyOf(inst), nil
		}
	}
	return nil, nil
}

// copyOf shields the directory's entries from caller mutation.
func copyOf(inst *models.Instrument) *models.Instrument {
	if inst == nil {
		return nil
	}
	c := *inst
	return &c
}
