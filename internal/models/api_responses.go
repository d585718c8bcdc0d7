package models

// PutRecordRequest is the body for manually entering or replacing a
// session record. The instrument is resolved from the identifier bundle
// through the same matcher the extraction path uses.
type PutRecordRequest struct {
	Identifiers IdentifierBundle `json:"identifiers"`
	Transfer    TransferData     `json:"transfer" binding:"required"`
}

// RecordsResponse lists the session's confirmed records.
type RecordsResponse struct {
	Count   int               `json:"count"`
	Records []PortfolioRecord `json:"records"`
}

// ValidationErrorResponse reports field-level validation failures for one
// submitted record.
type ValidationErrorResponse struct {
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors"`
}

// ConfirmResponse reports the result of confirming a pending import batch.
type ConfirmResponse struct {
	BatchID   string `json:"batch_id"`
	Imported  int    `json:"imported"`
	Unmatched int    `json:"unmatched"`
	Invalid   int    `json:"invalid"`
}

// EmailExportRequest is the body for emailing the CSV export.
type EmailExportRequest struct {
	To     string `json:"to" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
