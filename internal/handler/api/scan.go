package api

import (
	"net/http"

	resdto "cng-slot-booking/internal/handler/dto/response"
	"cng-slot-booking/internal/handler/httperr"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScanHandler struct {
	q queries.ScanQueries
}

func NewScanHandler(q queries.ScanQueries) *ScanHandler {
	return &ScanHandler{q: q}
}

// @Summary List pump scan attempts
// @Description Latest scan audit rows for a pump; staff with a grant for the pump only
// @Tags pumps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pump ID"
// @Param limit query int false "Max items (default 50)"
// @Success 200 {array} resdto.ScanAttemptResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /pumps/{id}/scans [get]
func (h *ScanHandler) ListByPump(c *gin.Context) {
	pumpID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid pump id", nil)
		return
	}
	viewer, ok := viewerFrom(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}

	views, err := h.q.ListByPump(c.Request.Context(), viewer, pumpID, queryInt32(c, "limit", queries.DefaultScanPageSize))
	if err != nil {
		status, msg := statusFor(err)
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}
	resp, err := resdto.FromScanList(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": resp})
}
