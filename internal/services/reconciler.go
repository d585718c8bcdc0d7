package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Reconciler consumes an externally produced extraction batch and turns it
// into a reviewable ImportBatch: one outcome per input entry, in input
// order. It never writes into the session's confirmed-record store;
// extracted data only lands there through an explicit user confirmation.
type Reconciler struct {
	matcher *Matcher
	brokers BrokerSet
}

// NewReconciler creates a new Reconciler.
func NewReconciler(matcher *Matcher, brokers BrokerSet) *Reconciler {
	return &Reconciler{
		matcher: matcher,
		brokers: brokers,
	}
}

// Reconcile matches and validates each batch entry. A schema-level problem
// (missing metadata, out-of-range confidence, an entry with neither
// identifiers nor transfer data) rejects the whole batch before any entry
// is processed: the returned ImportBatch carries the SchemaError and zero
// outcomes. The error return is reserved for directory lookup failures.
func (r *Reconciler) Reconcile(ctx context.Context, batch models.ExtractionBatch) (*models.ImportBatch, error) {
	defer TrackTime("Reconcile", time.Now())

	result := &models.ImportBatch{
		ID:        uuid.NewString(),
		Metadata:  batch.Metadata,
		CreatedAt: time.Now(),
	}

	if serr := checkBatchSchema(batch); serr != nil {
		log.Warnf("Rejecting extraction batch from %q: %s", batch.Metadata.Source, serr.Message)
		result.SchemaError = serr
		return result, nil
	}

	seen := make(map[string]bool, len(batch.Entries))
	for _, entry := range batch.Entries {
		outcome, err := r.reconcileEntry(ctx, entry, batch.Metadata.Confidence, seen)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Status {
		case models.OutcomeMatched:
			result.Matched++
		case models.OutcomeUnmatched:
			result.Unmatched++
		case models.OutcomeInvalid:
			result.Invalid++
		}
	}

	log.Infof("Reconciled batch %s from %q: %d matched, %d unmatched, %d invalid",
		result.ID, batch.Metadata.Source, result.Matched, result.Unmatched, result.Invalid)
	return result, nil
}

// checkBatchSchema validates batch-level structure before any per-entry
// processing. Fail fast: the first problem rejects the batch.
func checkBatchSchema(batch models.ExtractionBatch) *models.SchemaError {
	if batch.Metadata.Source == "" {
		return &models.SchemaError{Message: "missing source label"}
	}
	if batch.Metadata.ExtractedAt.IsZero() {
		return &models.SchemaError{Message: "missing extraction timestamp"}
	}
	if c := batch.Metadata.Confidence; c != nil && (math.IsNaN(*c) || *c < 0 || *c > 1) {
		return &models.SchemaError{Message: fmt.Sprintf("confidence score %g outside [0,1]", *c)}
	}
	for i, entry := range batch.Entries {
		if entry.Identifiers.IsEmpty() && entry.Transfer == nil {
			return &models.SchemaError{Message: fmt.Sprintf("entry %d has neither identifiers nor portfolio data", i)}
		}
	}
	return nil
}

// reconcileEntry processes a single entry: duplicate check, instrument
// match, record construction, field validation. seen accumulates the
// normalized identifier keys already handled in this batch; every
// occurrence after the first is dropped as a duplicate so it cannot
// silently overwrite an already-accepted record. Name-only entries are
// exempt: without a hard identifier they share an empty key, and two
// different names are not duplicates of each other.
func (r *Reconciler) reconcileEntry(ctx context.Context, entry models.ExtractionEntry, confidence *float64, seen map[string]bool) (models.Outcome, error) {
	if entry.Identifiers.HasHardIdentifier() {
		key := entry.Identifiers.NormalizedKey()
		if seen[key] {
			return models.Outcome{
				Status: models.OutcomeInvalid,
				Entry:  entry,
				Errors: []models.FieldError{{
					Field:   "identifiers",
					Code:    models.CodeDuplicateEntry,
					Message: "duplicate of an earlier entry in this batch",
				}},
			}, nil
		}
		seen[key] = true
	}

	inst, err := r.matcher.Match(ctx, entry.Identifiers)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return models.Outcome{
				Status:        models.OutcomeUnmatched,
				Entry:         entry,
				Reason:        err.Error(),
				AttemptedKeys: entry.Identifiers.AttemptedKeys(),
			}, nil
		}
		return models.Outcome{}, fmt.Errorf("matching entry %s: %w", entry.Identifiers.NormalizedKey(), err)
	}

	if entry.Transfer == nil {
		return models.Outcome{
			Status: models.OutcomeInvalid,
			Entry:  entry,
			Errors: []models.FieldError{{
				Field:   "portfolio_data",
				Code:    models.CodeInvalidFormat,
				Message: "entry has no portfolio data",
			}},
		}, nil
	}

	rec := recordFromEntry(entry.Transfer, inst, confidence)
	if fieldErrs := ValidateRecord(rec, r.brokers); len(fieldErrs) > 0 {
		return models.Outcome{
			Status: models.OutcomeInvalid,
			Entry:  entry,
			Errors: fieldErrs,
		}, nil
	}

	return models.Outcome{
		Status: models.OutcomeMatched,
		Entry:  entry,
		Record: rec,
	}, nil
}

// recordFromEntry builds the candidate record for a matched entry. Every
// AI-extracted record is created requiring review; nothing in this package
// ever clears that flag.
func recordFromEntry(t *models.TransferData, inst *models.Instrument, confidence *float64) *models.PortfolioRecord {
	return &models.PortfolioRecord{
		Platform:       t.Platform,
		TrustAccountID: t.TrustAccountID,
		Quantity:       t.Quantity,
		BaseCost:       t.BaseCost,
		SettlementDate: t.SettlementDate,
		LastPrice:      t.LastPrice,
		BrokerFrom:     t.BrokerFrom,
		BrokerTo:       t.BrokerTo,
		InstrumentID:   inst.ID,
		Ticker:         inst.Ticker,
		Provenance:     models.ProvenanceAIExtracted,
		Confidence:     confidence,
		RequiresReview: true,
	}
}
