package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/epeers/transferdesk/internal/services"
	"github.com/gin-gonic/gin"
)

// InstrumentHandler handles directory lookups
type InstrumentHandler struct {
	matcher *services.Matcher
}

// NewInstrumentHandler creates a new InstrumentHandler
func NewInstrumentHandler(matcher *services.Matcher) *InstrumentHandler {
	return &InstrumentHandler{matcher: matcher}
}

// Search handles GET /instruments/search?ticker=&isin=&id=&name=.
// It runs the same deterministic priority resolution the import path uses,
// so the form preview and reconciliation can never disagree.
func (h *InstrumentHandler) Search(c *gin.Context) {
	var bundle models.IdentifierBundle
	if err := c.ShouldBindQuery(&bundle); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}
	if bundle.IsEmpty() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "at least one of ticker, isin, id, name is required",
		})
		return
	}

	inst, err := h.matcher.Match(c.Request.Context(), bundle)
	if err != nil {
		if errors.Is(err, services.ErrNoMatch) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
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

	c.JSON(http.StatusOK, inst)
}
