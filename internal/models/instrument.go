package models

import (
	"strconv"
	"strings"
)

// Instrument represents one entry in the instrument reference directory.
// The directory is read-only from the application's point of view; records
// reference instruments by ID.
type Instrument struct {
	ID       int64   `json:"id"`
	Ticker   string  `json:"ticker"`
	ISIN     *string `json:"isin,omitempty"` // nullable, not every listing has one
	Name     string  `json:"name"`
	Exchange string  `json:"exchange"`
	Currency string  `json:"currency"`
}

// IdentifierBundle carries the identifiers supplied by a caller (manual
// lookup or AI extraction) to resolve against the directory. Any subset of
// the fields may be set; matching tries them in fixed priority order.
type IdentifierBundle struct {
	Ticker       string `json:"ticker,omitempty" form:"ticker"`
	ISIN         string `json:"isin,omitempty" form:"isin"`
	InstrumentID int64  `json:"instrument_id,omitempty" form:"id"`
	Name         string `json:"name,omitempty" form:"name"`
}

// IsEmpty reports whether no identifier was supplied at all.
func (b IdentifierBundle) IsEmpty() bool {
	return b.Ticker == "" && b.ISIN == "" && b.InstrumentID == 0 && b.Name == ""
}

// HasHardIdentifier reports whether the bundle carries at least one of the
// identifiers that participate in duplicate detection. Name-only bundles
// have none: they would all collapse onto the same empty key.
func (b IdentifierBundle) HasHardIdentifier() bool {
	return strings.TrimSpace(b.Ticker) != "" || strings.TrimSpace(b.ISIN) != "" || b.InstrumentID != 0
}

// NormalizedKey builds a case-insensitive key over ticker/ISIN/id, used to
// detect duplicate entries within one extraction batch. Name is excluded:
// two entries naming the same listing differently but sharing a hard
// identifier are still duplicates.
func (b IdentifierBundle) NormalizedKey() string {
	return "t:" + strings.ToUpper(strings.TrimSpace(b.Ticker)) +
		"|i:" + strings.ToUpper(strings.TrimSpace(b.ISIN)) +
		"|d:" + strconv.FormatInt(b.InstrumentID, 10)
}

// AttemptedKeys lists the identifiers present in the bundle, in matching
// priority order, for no-match diagnostics.
func (b IdentifierBundle) AttemptedKeys() []string {
	var keys []string
	if b.Ticker != "" {
		keys = append(keys, "ticker="+b.Ticker)
	}
	if b.ISIN != "" {
		keys = append(keys, "isin="+b.ISIN)
	}
	if b.InstrumentID != 0 {
		keys = append(keys, "instrument_id="+strconv.FormatInt(b.InstrumentID, 10))
	}
	if b.Name != "" {
		keys = append(keys, "name="+b.Name)
	}
	return keys
}
