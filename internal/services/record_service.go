package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/epeers/transferdesk/internal/session"
	log "github.com/sirupsen/logrus"
)

var (
	ErrBatchNotFound = errors.New("import batch not found")
	ErrBatchRejected = errors.New("import batch was rejected and cannot be confirmed")
	ErrNotExportable = errors.New("session holds records that are not export-eligible")
)

// ValidationError carries the full list of field errors for a rejected
// record submission.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "record failed validation: " + strings.Join(msgs, "; ")
}

// RecordService handles the session record lifecycle: manual entry,
// confirmation of reconciled batches, and export.
type RecordService struct {
	matcher *Matcher
	brokers BrokerSet
}

// NewRecordService creates a new RecordService.
func NewRecordService(matcher *Matcher, brokers BrokerSet) *RecordService {
	return &RecordService{
		matcher: matcher,
		brokers: brokers,
	}
}

// PutManual resolves, validates and stores a manually entered record.
// The put is last-write-wins per instrument, so a manual entry replaces a
// previously stored record for the same instrument, including a confirmed
// AI-extracted one.
func (s *RecordService) PutManual(ctx context.Context, sess *session.State, req *models.PutRecordRequest) (*models.PortfolioRecord, error) {
	inst, err := s.matcher.Match(ctx, req.Identifiers)
	if err != nil {
		return nil, err
	}

	t := req.Transfer
	rec := models.PortfolioRecord{
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
		Provenance:     models.ProvenanceManual,
		RequiresReview: false,
	}
	if fieldErrs := ValidateRecord(&rec, s.brokers); len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	sess.Put(rec)
	return &rec, nil
}

// ConfirmBatch applies an explicit user confirmation to a pending import
// batch: every Matched outcome's record has its review flag cleared and is
// put into the session store. This is the only code path that clears
// requires_review; confirmation is never automatic, whatever the
// extraction confidence was. The batch is consumed either way.
func (s *RecordService) ConfirmBatch(sess *session.State, batchID string) (*models.ConfirmResponse, error) {
	batch, ok := sess.TakeBatch(batchID)
	if !ok {
		return nil, ErrBatchNotFound
	}
	if batch.SchemaError != nil {
		return nil, ErrBatchRejected
	}

	imported := 0
	for _, outcome := range batch.Outcomes {
		if outcome.Status != models.OutcomeMatched {
			continue
		}
		rec := *outcome.Record
		rec.RequiresReview = false
		sess.Put(rec)
		imported++
	}

	log.Infof("Confirmed import batch %s: %d records imported", batchID, imported)
	return &models.ConfirmResponse{
		BatchID:   batchID,
		Imported:  imported,
		Unmatched: batch.Unmatched,
		Invalid:   batch.Invalid,
	}, nil
}

// DiscardBatch drops a pending import batch without importing anything.
func (s *RecordService) DiscardBatch(sess *session.State, batchID string) error {
	if _, ok := sess.TakeBatch(batchID); !ok {
		return ErrBatchNotFound
	}
	log.Infof("Discarded import batch %s", batchID)
	return nil
}

// Export renders the session's records as the mandated CSV. Every record
// must be export-eligible; if any is not, the export is refused outright
// rather than silently skipping rows, and the offending instrument IDs are
// reported.
func (s *RecordService) Export(sess *session.State, userID string) (string, error) {
	defer TrackTime("Export", time.Now())

	records := sess.All()
	var blocked []string
	for i := range records {
		if !records[i].ExportEligible() {
			blocked = append(blocked, strconv.FormatInt(records[i].InstrumentID, 10))
		}
	}
	if len(blocked) > 0 {
		return "", fmt.Errorf("%w: instrument IDs %s", ErrNotExportable, strings.Join(blocked, ", "))
	}

	return ExportCSV(records, userID), nil
}
