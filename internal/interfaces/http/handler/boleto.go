package handler

import (
	"time"

	appledger "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BoletoHandler handles boleto endpoints
type BoletoHandler struct {
	BaseHandler
	service *appledger.BoletoService
}

// NewBoletoHandler creates a boleto handler
func NewBoletoHandler(service *appledger.BoletoService, logger *zap.Logger) *BoletoHandler {
	return &BoletoHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// boletoPairResponse returns a boleto with its paired receivable
type boletoPairResponse struct {
	Boleto     any `json:"boleto"`
	Receivable any `json:"receivable"`
}

// Issue godoc
// @Summary Issue a boleto
// @Description Issues a boleto together with its paired receivable. The amount is authorized against the debtor's credit line once.
// @Tags boletos
// @Accept json
// @Produce json
// @Param request body ledger.IssueBoletoInput true "Boleto data"
// @Success 201 {object} dto.Response
// @Failure 422 {object} dto.Response "INSUFFICIENT_CREDIT"
// @Router /api/v1/boletos [post]
func (h *BoletoHandler) Issue(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appledger.IssueBoletoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	boleto, receivable, err := h.service.IssueBoleto(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, boletoPairResponse{Boleto: boleto, Receivable: receivable})
}

// Get godoc
// @Summary Get a boleto
// @Tags boletos
// @Produce json
// @Param id path string true "Boleto ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/boletos/{id} [get]
func (h *BoletoHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	boleto, err := h.service.GetBoleto(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, boleto)
}

// List godoc
// @Summary List boletos
// @Tags boletos
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Router /api/v1/boletos [get]
func (h *BoletoHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListBoletos(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RegisterPayment godoc
// @Summary Register a boleto payment
// @Description Settles a boleto with the received amount. A payment below face value closes the boleto and re-issues the remainder as a fresh receivable.
// @Tags boletos
// @Accept json
// @Produce json
// @Param id path string true "Boleto ID"
// @Param request body ledger.RegisterBoletoPaymentInput true "Payment data"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/boletos/{id}/payments [post]
func (h *BoletoHandler) RegisterPayment(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var input appledger.RegisterBoletoPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	boleto, receivable, err := h.service.RegisterBoletoPayment(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, boletoPairResponse{Boleto: boleto, Receivable: receivable})
}

// Cancel godoc
// @Summary Cancel a boleto
// @Description Cancels an open boleto and its paired receivable, releasing the credit exposure
// @Tags boletos
// @Accept json
// @Produce json
// @Param id path string true "Boleto ID"
// @Param request body CancelRequest false "Cancellation reason"
// @Success 200 {object} dto.Response
// @Router /api/v1/boletos/{id}/cancel [post]
func (h *BoletoHandler) Cancel(c *gin.Context) {
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

	boleto, err := h.service.CancelBoleto(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, boleto)
}

// MarkOverdue godoc
// @Summary Sweep past-due boletos
// @Tags boletos
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/boletos/mark-overdue [post]
func (h *BoletoHandler) MarkOverdue(c *gin.Context) {
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
