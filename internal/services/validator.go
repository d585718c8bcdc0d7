package services

import (
	"fmt"
	"regexp"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/shopspring/decimal"
)

// trustAccountPattern: 6 to 10 ASCII digits, nothing else.
var trustAccountPattern = regexp.MustCompile(`^[0-9]{6,10}$`)

// BrokerSet is the configured set of known broker IDs.
type BrokerSet map[string]struct{}

// NewBrokerSet builds a BrokerSet from a list of broker IDs.
func NewBrokerSet(ids []string) BrokerSet {
	set := make(BrokerSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the broker ID is known.
func (s BrokerSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// ValidateRecord enforces the field-level rules on a single portfolio
// record. Every rule is checked independently and all violations are
// returned, not just the first. Pure function: the record is not modified.
func ValidateRecord(rec *models.PortfolioRecord, brokers BrokerSet) []models.FieldError {
	var errs []models.FieldError

	if rec.Platform != models.PlatformEE && rec.Platform != models.PlatformSX {
		errs = append(errs, models.FieldError{
			Field:   "platform",
			Code:    models.CodeInvalidFormat,
			Message: fmt.Sprintf("platform must be %s or %s, got %q", models.PlatformEE, models.PlatformSX, rec.Platform),
		})
	}

	if !trustAccountPattern.MatchString(rec.TrustAccountID) {
		errs = append(errs, models.FieldError{
			Field:   "trust_account_id",
			Code:    models.CodeInvalidFormat,
			Message: fmt.Sprintf("trust account ID must be 6-10 digits, got %q", rec.TrustAccountID),
		})
	}

	if rec.Quantity == 0 {
		errs = append(errs, models.FieldError{
			Field:   "quantity",
			Code:    models.CodeZeroQuantity,
			Message: "quantity must be non-zero (negative = disposal)",
		})
	}

	if rec.BaseCost.IsNegative() {
		errs = append(errs, models.FieldError{
			Field:   "base_cost",
			Code:    models.CodeNegativeValue,
			Message: fmt.Sprintf("base cost must not be negative, got %s", rec.BaseCost),
		})
	}

	if rec.LastPrice.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, models.FieldError{
			Field:   "last_price",
			Code:    models.CodeNonPositiveValue,
			Message: fmt.Sprintf("last price must be positive, got %s", rec.LastPrice),
		})
	}

	if rec.SettlementDate.IsZero() {
		errs = append(errs, models.FieldError{
			Field:   "settlement_date",
			Code:    models.CodeMissingOrInvalidDate,
			Message: "settlement date is missing or not a valid calendar date",
		})
	}

	if !brokers.Contains(rec.BrokerFrom) {
		errs = append(errs, models.FieldError{
			Field:   "broker_from",
			Code:    models.CodeUnknownBroker,
			Message: fmt.Sprintf("unknown broker ID %q", rec.BrokerFrom),
		})
	}
	if !brokers.Contains(rec.BrokerTo) {
		errs = append(errs, models.FieldError{
			Field:   "broker_to",
			Code:    models.CodeUnknownBroker,
			Message: fmt.Sprintf("unknown broker ID %q", rec.BrokerTo),
		})
	}

	return errs
}
