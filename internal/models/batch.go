package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BatchMetadata describes one externally submitted extraction batch.
// Confidence is the extractor's overall score for the batch; when present
// it must lie in [0,1] or the whole batch is rejected.
type BatchMetadata struct {
	Source      string    `json:"source"`
	Confidence  *float64  `json:"confidence_score,omitempty"`
	ExtractedAt time.Time `json:"extraction_timestamp"`
}

// TransferData carries the raw field values for one extracted transfer,
// before matching and validation.
type TransferData struct {
	Platform       Platform        `json:"platform"`
	TrustAccountID string          `json:"trust_account_id"`
	Quantity       int64           `json:"quantity"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	SettlementDate SettlementDate  `json:"settlement_date"`
	LastPrice      decimal.Decimal `json:"last_price"`
	BrokerFrom     string          `json:"broker_from"`
	BrokerTo       string          `json:"broker_to"`
}

// ExtractionEntry is one row of an extraction batch: an identifier bundle,
// the transfer field values, and optional per-field confidence scores.
type ExtractionEntry struct {
	Identifiers     IdentifierBundle   `json:"identifiers"`
	Transfer        *TransferData      `json:"portfolio_data"`
	FieldConfidence map[string]float64 `json:"field_confidence,omitempty"`
}

// ExtractionBatch is the input to reconciliation: common metadata plus the
// extracted entries.
type ExtractionBatch struct {
	Metadata BatchMetadata     `json:"metadata"`
	Entries  []ExtractionEntry `json:"entries"`
}

// SchemaError marks a malformed batch. It is fatal to that batch only: the
// reconciler attaches it to an otherwise empty ImportBatch and processes
// nothing.
type SchemaError struct {
	Message string `json:"message"`
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s", e.Message)
}

// OutcomeStatus classifies the reconciliation result for one entry.
type OutcomeStatus string

const (
	OutcomeMatched   OutcomeStatus = "matched"
	OutcomeUnmatched OutcomeStatus = "unmatched"
	OutcomeInvalid   OutcomeStatus = "invalid"
)

// Outcome pairs one input entry with its reconciliation result. Exactly one
// of Record / Errors / Reason is meaningful depending on Status.
type Outcome struct {
	Status        OutcomeStatus    `json:"status"`
	Entry         ExtractionEntry  `json:"entry"`
	Record        *PortfolioRecord `json:"record,omitempty"`
	Errors        []FieldError     `json:"errors,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	AttemptedKeys []string         `json:"attempted_keys,omitempty"`
}

// ImportBatch is the reviewable result of reconciling one extraction batch.
// It lives in the session until the user confirms or discards it and is
// never persisted beyond that.
type ImportBatch struct {
	ID          string        `json:"id"`
	Metadata    BatchMetadata `json:"metadata"`
	Outcomes    []Outcome     `json:"outcomes"`
	Matched     int           `json:"matched"`
	Unmatched   int           `json:"unmatched"`
	Invalid     int           `json:"invalid"`
	SchemaError *SchemaError  `json:"schema_error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
