package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/transferdesk/internal/middleware"
	"github.com/epeers/transferdesk/internal/models"
	"github.com/epeers/transferdesk/internal/services"
	"github.com/epeers/transferdesk/internal/session"
	"github.com/gin-gonic/gin"
)

// RecordHandler handles the session record endpoints
type RecordHandler struct {
	recordSvc *services.RecordService
	store     *session.Store
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(recordSvc *services.RecordService, store *session.Store) *RecordHandler {
	return &RecordHandler{
		recordSvc: recordSvc,
		store:     store,
	}
}

// sessionState resolves the caller's session. Routes using it sit behind
// RequireSession, so the ID is always present.
func (h *RecordHandler) sessionState(c *gin.Context) *session.State {
	sid, _ := middleware.GetSessionID(c)
	return h.store.Session(sid)
}

// List handles GET /session/records
func (h *RecordHandler) List(c *gin.Context) {
	records := h.sessionState(c).All()
	c.JSON(http.StatusOK, models.RecordsResponse{
		Count:   len(records),
		Records: records,
	})
}

// Put handles PUT /session/records (manual entry, last write wins per
// instrument)
func (h *RecordHandler) Put(c *gin.Context) {
	var req models.PutRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	rec, err := h.recordSvc.PutManual(c.Request.Context(), h.sessionState(c), &req)
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
				Error:  "validation_failed",
				Errors: valErr.Errors,
			})
			return
		}
		if errors.Is(err, services.ErrNoMatch) {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "no_match",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Clear handles DELETE /session/records
func (h *RecordHandler) Clear(c *gin.Context) {
	h.sessionState(c).Clear()
	c.JSON(http.StatusOK, gin.H{"message": "session records cleared"})
}

// Confirm handles POST /session/imports/:batch_id/confirm. This is the
// explicit human confirmation step; it is the only way an AI-extracted
// record enters the session's confirmed set.
func (h *RecordHandler) Confirm(c *gin.Context) {
	resp, err := h.recordSvc.ConfirmBatch(h.sessionState(c), c.Param("batch_id"))
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "import batch not found",
			})
			return
		}
		if errors.Is(err, services.ErrBatchRejected) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "batch_rejected",
				Message: "batch was rejected with a schema error and cannot be confirmed",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Discard handles DELETE /session/imports/:batch_id
func (h *RecordHandler) Discard(c *gin.Context) {
	if err := h.recordSvc.DiscardBatch(h.sessionState(c), c.Param("batch_id")); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "import batch not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "import batch discarded"})
}
