package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/epeers/transferdesk/internal/middleware"
	"github.com/epeers/transferdesk/internal/models"
	"github.com/epeers/transferdesk/internal/services"
	"github.com/epeers/transferdesk/internal/session"
	"github.com/gin-gonic/gin"
)

// Extractor turns an uploaded PDF into a structured extraction batch.
// Satisfied by extraction.Client; handler tests substitute a stub.
type Extractor interface {
	ExtractTransfers(ctx context.Context, pdf []byte) (*models.ExtractionBatch, error)
}

// ImportHandler handles the extraction import endpoints
type ImportHandler struct {
	reconciler *services.Reconciler
	extractor  Extractor // nil when no extraction API key is configured
	store      *session.Store
	maxUpload  int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(reconciler *services.Reconciler, extractor Extractor, store *session.Store, maxUpload int64) *ImportHandler {
	return &ImportHandler{
		reconciler: reconciler,
		extractor:  extractor,
		store:      store,
		maxUpload:  maxUpload,
	}
}

func (h *ImportHandler) sessionState(c *gin.Context) *session.State {
	sid, _ := middleware.GetSessionID(c)
	return h.store.Session(sid)
}

// Reconcile handles POST /session/imports: a structured extraction batch
// is reconciled into a pending ImportBatch held in the session for review.
func (h *ImportHandler) Reconcile(c *gin.Context) {
	var batch models.ExtractionBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	h.reconcileAndRespond(c, batch)
}

// ExtractDocument handles POST /session/imports/document: a multipart PDF
// upload is run through the extraction model, then reconciled like a
// structured batch.
func (h *ImportHandler) ExtractDocument(c *gin.Context) {
	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "extraction_unavailable",
			Message: "document extraction is not configured",
		})
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "multipart field 'document' is required",
		})
		return
	}
	if fileHeader.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "too_large",
			Message: "document exceeds the upload size limit",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	batch, err := h.extractor.ExtractTransfers(c.Request.Context(), pdf)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "extraction_failed",
			Message: err.Error(),
		})
		return
	}

	h.reconcileAndRespond(c, *batch)
}

// reconcileAndRespond runs the reconciler and parks the result for review.
// A schema-rejected batch is returned to the caller but never parked: there
// is nothing in it to confirm.
func (h *ImportHandler) reconcileAndRespond(c *gin.Context, batch models.ExtractionBatch) {
	result, err := h.reconciler.Reconcile(c.Request.Context(), batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	if result.SchemaError != nil {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	h.sessionState(c).AddBatch(result)
	c.JSON(http.StatusOK, result)
}
