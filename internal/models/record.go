package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Platform identifies which trading platform a transfer belongs to.
type Platform string

const (
	PlatformEE Platform = "EE"
	PlatformSX Platform = "SX"
)

// Provenance records how a portfolio record entered the system.
type Provenance string

const (
	ProvenanceManual      Provenance = "manual"
	ProvenanceAIExtracted Provenance = "ai_extracted"
)

// ErrorCode classifies a validation or reconciliation failure.
type ErrorCode string

const (
	CodeInvalidFormat        ErrorCode = "InvalidFormat"
	CodeZeroQuantity         ErrorCode = "ZeroQuantity"
	CodeNegativeValue        ErrorCode = "NegativeValue"
	CodeNonPositiveValue     ErrorCode = "NonPositiveValue"
	CodeMissingOrInvalidDate ErrorCode = "MissingOrInvalidDate"
	CodeUnknownBroker        ErrorCode = "UnknownBroker"
	CodeDuplicateEntry       ErrorCode = "DuplicateEntry"
	CodeNoMatchFound         ErrorCode = "NoMatchFound"
)

// FieldError is a single field-level validation failure. Validation reports
// every violation, not just the first, so callers can surface the full list
// for correction in one pass.
type FieldError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

// PortfolioRecord is one share-transfer entry. Records are session-scoped
// and mutable until confirmed; the session store keys them by instrument ID
// with last-write-wins semantics.
type PortfolioRecord struct {
	Platform       Platform        `json:"platform"`
	TrustAccountID string          `json:"trust_account_id"`
	Quantity       int64           `json:"quantity"` // negative = disposal / transfer-out
	BaseCost       decimal.Decimal `json:"base_cost"`
	SettlementDate SettlementDate  `json:"settlement_date"`
	LastPrice      decimal.Decimal `json:"last_price"`
	BrokerFrom     string          `json:"broker_from"`
	BrokerTo       string          `json:"broker_to"`
	InstrumentID   int64           `json:"instrument_id"`
	Ticker         string          `json:"ticker"` // ShareCode in the export, denormalized at match time
	Provenance     Provenance      `json:"provenance"`
	Confidence     *float64        `json:"confidence,omitempty"` // only set when provenance = ai_extracted
	RequiresReview bool            `json:"requires_review"`
}

// ExportEligible reports whether the record may appear in a CSV export:
// resolved instrument reference and no pending review. Field-level validity
// is enforced before a record ever reaches the session store, so it is not
// re-checked here.
func (r *PortfolioRecord) ExportEligible() bool {
	return r.InstrumentID != 0 && !r.RequiresReview
}
