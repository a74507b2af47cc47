package handler

import (
	appledger "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DebtorHandler handles debtor endpoints
type DebtorHandler struct {
	BaseHandler
	service *appledger.DebtorService
}

// NewDebtorHandler creates a debtor handler
func NewDebtorHandler(service *appledger.DebtorService, logger *zap.Logger) *DebtorHandler {
	return &DebtorHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create godoc
// @Summary Create a debtor
// @Description Registers a debtor, optionally with an initial credit line
// @Tags debtors
// @Accept json
// @Produce json
// @Param request body ledger.CreateDebtorInput true "Debtor data"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/debtors [post]
func (h *DebtorHandler) Create(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appledger.CreateDebtorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	debtor, err := h.service.CreateDebtor(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, debtor)
}

// Get godoc
// @Summary Get a debtor
// @Tags debtors
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/debtors/{id} [get]
func (h *DebtorHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	debtor, err := h.service.GetDebtor(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, debtor)
}

// List godoc
// @Summary List debtors
// @Tags debtors
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search by code or name"
// @Success 200 {object} dto.Response
// @Router /api/v1/debtors [get]
func (h *DebtorHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListDebtors(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// SetCreditLimitRequest is the payload for updating a credit limit
type SetCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// SetCreditLimit godoc
// @Summary Set a debtor's credit limit
// @Description Updates the limit and recomputes available credit. Lowering the limit below current exposure clamps availability at zero.
// @Tags debtors
// @Accept json
// @Produce json
// @Param id path string true "Debtor ID"
// @Param request body SetCreditLimitRequest true "New limit"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/debtors/{id}/credit-limit [put]
func (h *DebtorHandler) SetCreditLimit(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req SetCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	debtor, err := h.service.SetCreditLimit(c.Request.Context(), tenantID, id, req.CreditLimit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, debtor)
}

// SetActiveRequest is the payload for activating or deactivating a debtor
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive godoc
// @Summary Activate or deactivate a debtor
// @Tags debtors
// @Accept json
// @Produce json
// @Param id path string true "Debtor ID"
// @Param request body SetActiveRequest true "Activation flag"
// @Success 200 {object} dto.Response
// @Router /api/v1/debtors/{id}/active [put]
func (h *DebtorHandler) SetActive(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	debtor, err := h.service.SetActive(c.Request.Context(), tenantID, id, *req.Active)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, debtor)
}

// VerifyCredit godoc
// @Summary Audit a debtor's credit cache
// @Description Compares the cached available credit against a fresh recomputation. Reports drift without correcting it.
// @Tags debtors
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/debtors/{id}/credit/verify [get]
func (h *DebtorHandler) VerifyCredit(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	audit, err := h.service.VerifyCredit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, audit)
}

// RecomputeCredit godoc
// @Summary Recompute a debtor's available credit
// @Description Explicit repair path for a drifted credit cache
// @Tags debtors
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/debtors/{id}/credit/recompute [post]
func (h *DebtorHandler) RecomputeCredit(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	debtor, err := h.service.RecomputeCredit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, debtor)
}
