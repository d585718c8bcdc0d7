package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/transferdesk/internal/delivery"
	"github.com/epeers/transferdesk/internal/middleware"
	"github.com/epeers/transferdesk/internal/models"
	"github.com/epeers/transferdesk/internal/services"
	"github.com/epeers/transferdesk/internal/session"
	"github.com/gin-gonic/gin"
)

// ExportHandler handles CSV export download and email delivery
type ExportHandler struct {
	recordSvc *services.RecordService
	sender    delivery.EmailSender
	store     *session.Store
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(recordSvc *services.RecordService, sender delivery.EmailSender, store *session.Store) *ExportHandler {
	return &ExportHandler{
		recordSvc: recordSvc,
		sender:    sender,
		store:     store,
	}
}

func (h *ExportHandler) sessionState(c *gin.Context) *session.State {
	sid, _ := middleware.GetSessionID(c)
	return h.store.Session(sid)
}

// export renders the session CSV, mapping the not-exportable case to 409.
// Returns "" with a written response on failure.
func (h *ExportHandler) export(c *gin.Context, userID string) (string, bool) {
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "user_id is required",
		})
		return "", false
	}

	csvText, err := h.recordSvc.Export(h.sessionState(c), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotExportable) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "not_exportable",
				Message: err.Error(),
			})
			return "", false
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return "", false
	}
	return csvText, true
}

// Download handles GET /session/export?user_id=
func (h *ExportHandler) Download(c *gin.Context) {
	csvText, ok := h.export(c, c.Query("user_id"))
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="share_transfers.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}

// Email handles POST /session/export/email
func (h *ExportHandler) Email(c *gin.Context) {
	var req models.EmailExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	csvText, ok := h.export(c, req.UserID)
	if !ok {
		return
	}

	count := len(h.sessionState(c).All())
	if err := h.sender.SendExport(c.Request.Context(), req.To, []byte(csvText), count); err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "delivery_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "export emailed", "recipient": req.To})
}
