package handler

import (
	"time"

	appbanking "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/banking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CardHandler handles card fee config and settlement endpoints
type CardHandler struct {
	BaseHandler
	service *appbanking.CardSettlementService
}

// NewCardHandler creates a card handler
func NewCardHandler(service *appbanking.CardSettlementService, logger *zap.Logger) *CardHandler {
	return &CardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SetFeeConfig godoc
// @Summary Set the fee configuration for a card type
// @Description Replaces the active config. Already captured sales keep the fee they were priced with.
// @Tags cards
// @Accept json
// @Produce json
// @Param request body banking.SetFeeConfigInput true "Fee configuration"
// @Success 201 {object} dto.Response
// @Router /api/v1/cards/fee-configs [post]
func (h *CardHandler) SetFeeConfig(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appbanking.SetFeeConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	cfg, err := h.service.SetFeeConfig(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, cfg)
}

// ListFeeConfigs godoc
// @Summary List card fee configurations
// @Tags cards
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/cards/fee-configs [get]
func (h *CardHandler) ListFeeConfigs(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	configs, err := h.service.ListFeeConfigs(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, configs)
}

// CaptureSale godoc
// @Summary Capture a card sale
// @Description Books a sale as pending settlement, freezing the fee and the expected settlement date
// @Tags cards
// @Accept json
// @Produce json
// @Param request body banking.CaptureSaleInput true "Sale data"
// @Success 201 {object} dto.Response
// @Failure 422 {object} dto.Response "CONFIGURATION_MISSING"
// @Router /api/v1/cards/transactions [post]
func (h *CardHandler) CaptureSale(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appbanking.CaptureSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	cardTx, err := h.service.CaptureSale(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, cardTx)
}

// Get godoc
// @Summary Get a card transaction
// @Tags cards
// @Produce json
// @Param id path string true "Card transaction ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/cards/transactions/{id} [get]
func (h *CardHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	cardTx, err := h.service.GetTransaction(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cardTx)
}

// List godoc
// @Summary List card transactions by status
// @Tags cards
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Router /api/v1/cards/transactions [get]
func (h *CardHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListByStatus(c.Request.Context(), tenantID, c.Query("status"), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListDue godoc
// @Summary List sales due for settlement
// @Description Lists pending sales whose expected settlement date has passed
// @Tags cards
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/cards/transactions/due [get]
func (h *CardHandler) ListDue(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	due, err := h.service.ListDueForSettlement(c.Request.Context(), tenantID, time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, due)
}

// Settle godoc
// @Summary Settle a card sale
// @Description Deposits the net amount into a bank account exactly once. A reused idempotency key or an already settled sale fails with IDEMPOTENCY_VIOLATION.
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card transaction ID"
// @Param request body banking.SettleInput true "Settlement data"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response "IDEMPOTENCY_VIOLATION"
// @Router /api/v1/cards/transactions/{id}/settle [post]
func (h *CardHandler) Settle(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var input appbanking.SettleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	cardTx, err := h.service.Settle(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cardTx)
}

// Cancel godoc
// @Summary Cancel a card sale
// @Tags cards
// @Produce json
// @Param id path string true "Card transaction ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/cards/transactions/{id}/cancel [post]
func (h *CardHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	cardTx, err := h.service.CancelSale(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cardTx)
}
