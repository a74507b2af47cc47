package handler

import (
	"time"

	appledger "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReceivableHandler handles receivable endpoints
type ReceivableHandler struct {
	BaseHandler
	service *appledger.ReceivableService
}

// NewReceivableHandler creates a receivable handler
func NewReceivableHandler(service *appledger.ReceivableService, logger *zap.Logger) *ReceivableHandler {
	return &ReceivableHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create godoc
// @Summary Create a receivable
// @Description Books a credit sale against the debtor's credit line
// @Tags receivables
// @Accept json
// @Produce json
// @Param request body ledger.CreateReceivableInput true "Receivable data"
// @Success 201 {object} dto.Response
// @Failure 422 {object} dto.Response "INSUFFICIENT_CREDIT"
// @Router /api/v1/receivables [post]
func (h *ReceivableHandler) Create(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appledger.CreateReceivableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	receivable, err := h.service.CreateReceivable(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, receivable)
}

// Get godoc
// @Summary Get a receivable
// @Tags receivables
// @Produce json
// @Param id path string true "Receivable ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/receivables/{id} [get]
func (h *ReceivableHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	receivable, err := h.service.GetReceivable(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, receivable)
}

// List godoc
// @Summary List receivables
// @Tags receivables
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Router /api/v1/receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListReceivables(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RecordPayment godoc
// @Summary Record a payment on a receivable
// @Description Payments accumulate until the full amount is covered. Cash-like methods deposit immediately; card payments capture a pending settlement.
// @Tags receivables
// @Accept json
// @Produce json
// @Param id path string true "Receivable ID"
// @Param request body ledger.RecordPaymentInput true "Payment data"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/receivables/{id}/payments [post]
func (h *ReceivableHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var input appledger.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	receivable, err := h.service.RecordPayment(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, receivable)
}

// CancelRequest carries the cancellation reason
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel godoc
// @Summary Cancel a receivable
// @Description Cancels an unpaid receivable and releases its credit exposure
// @Tags receivables
// @Accept json
// @Produce json
// @Param id path string true "Receivable ID"
// @Param request body CancelRequest false "Cancellation reason"
// @Success 200 {object} dto.Response
// @Router /api/v1/receivables/{id}/cancel [post]
func (h *ReceivableHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BindingError(c, err)
		return
	}

	receivable, err := h.service.CancelReceivable(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, receivable)
}

// Delete godoc
// @Summary Delete a receivable
// @Description Removes a receivable. Deleting a paid one restores the consumed credit, clamped to the limit.
// @Tags receivables
// @Produce json
// @Param id path string true "Receivable ID"
// @Success 204
// @Router /api/v1/receivables/{id} [delete]
func (h *ReceivableHandler) Delete(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReceivable(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkOverdue godoc
// @Summary Sweep past-due receivables
// @Description Marks pending receivables past their due date as overdue
// @Tags receivables
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/receivables/mark-overdue [post]
func (h *ReceivableHandler) MarkOverdue(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	count, err := h.service.MarkOverdueSweep(c.Request.Context(), tenantID, time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"marked": count})
}
