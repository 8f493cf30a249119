package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"hotelops/models"
	"hotelops/services/billing"
	"hotelops/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BillingHandler struct {
	Service billing.BillingService
	Now     func() time.Time
}

func NewBillingHandler(service billing.BillingService) *BillingHandler {
	return &BillingHandler{Service: service, Now: time.Now}
}

// MarkPaid settles an invoice. The body may carry {"paidAt": RFC3339};
// the current time is used otherwise.
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	logger := getLogger(c)

	var body struct {
		PaidAt *time.Time `json:"paidAt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, http.StatusBadRequest, "InvalidRequest", "paidAt must be an RFC3339 timestamp")
		return
	}
	paidAt := h.Now().UTC()
	if body.PaidAt != nil {
		paidAt = body.PaidAt.UTC()
	}

	id := models.BillingID(c.Param("id"))
	bill, err := h.Service.MarkPaid(c.Request.Context(), id, paidAt)
	switch {
	case errors.Is(err, billing.ErrBillingNotFound):
		utils.JSONError(c, http.StatusNotFound, "BillingNotFound", "billing "+string(id)+" not found")
		return
	case errors.Is(err, billing.ErrAlreadyPaid):
		utils.JSONError(c, http.StatusConflict, "AlreadyPaid", "billing "+string(id)+" is already paid")
		return
	case err != nil:
		logger.Error("Failed to mark billing paid", zap.String("billingId", string(id)), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "StoreUnavailable", "could not update billing")
		return
	}

	logger.Info("Billing paid", zap.String("billingId", string(id)), zap.Float64("total", bill.Total))
	c.JSON(http.StatusOK, bill)
}
