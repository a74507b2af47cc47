package handler

import (
	appreconciliation "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/reconciliation"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationHandler handles reconciliation session endpoints
type ReconciliationHandler struct {
	BaseHandler
	service *appreconciliation.ReconciliationService
}

// NewReconciliationHandler creates a reconciliation handler
func NewReconciliationHandler(service *appreconciliation.ReconciliationService, logger *zap.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// StartSession godoc
// @Summary Start a reconciliation session
// @Description Opens a session for an account and statement period. An account can have only one session in progress.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body reconciliation.StartSessionInput true "Session data"
// @Success 201 {object} dto.Response
// @Router /api/v1/reconciliation/sessions [post]
func (h *ReconciliationHandler) StartSession(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appreconciliation.StartSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.service.StartSession(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, session)
}

// Get godoc
// @Summary Get a reconciliation session
// @Tags reconciliation
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/reconciliation/sessions/{id} [get]
func (h *ReconciliationHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, session)
}

// List godoc
// @Summary List reconciliation sessions
// @Tags reconciliation
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Router /api/v1/reconciliation/sessions [get]
func (h *ReconciliationHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListSessions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem godoc
// @Summary Add a statement item to a session
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reconciliation.AddItemInput true "Statement item"
// @Success 201 {object} dto.Response
// @Router /api/v1/reconciliation/sessions/{id}/items [post]
func (h *ReconciliationHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var input appreconciliation.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// AutoMatch godoc
// @Summary Run automatic matching on a session
// @Description Matches statement items to ledger entries by exact signed amount within the date tolerance. Ambiguous candidates stay unmatched for manual review.
// @Tags reconciliation
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/reconciliation/sessions/{id}/auto-match [post]
func (h *ReconciliationHandler) AutoMatch(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	results, err := h.service.AutoMatch(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, results)
}

// MatchItemRequest is the payload for manually matching an item
type MatchItemRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
}

// MatchItem godoc
// @Summary Manually match a statement item
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param item_id path string true "Item ID"
// @Param request body MatchItemRequest true "Matching ledger entry"
// @Success 200 {object} dto.Response
// @Router /api/v1/reconciliation/sessions/{id}/items/{item_id}/match [post]
func (h *ReconciliationHandler) MatchItem(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	itemID, ok := h.bindItemID(c)
	if !ok {
		return
	}

	var req MatchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.service.MatchItem(c.Request.Context(), tenantID, id, itemID, req.TransactionID, h.getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, session)
}

// MarkExceptionRequest carries the exception reason
type MarkExceptionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MarkException godoc
// @Summary Mark a statement item as an exception
// @Description Resolves an item that has no matching ledger entry, with a reason
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param item_id path string true "Item ID"
// @Param request body MarkExceptionRequest true "Exception reason"
// @Success 200 {object} dto.Response
// @Router /api/v1/reconciliation/sessions/{id}/items/{item_id}/exception [post]
func (h *ReconciliationHandler) MarkException(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	itemID, ok := h.bindItemID(c)
	if !ok {
		return
	}

	var req MarkExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.service.MarkException(c.Request.Context(), tenantID, id, itemID, req.Reason, h.getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, session)
}

// Close godoc
// @Summary Close a reconciliation session
// @Description Completes a session once every item is resolved. Closing twice fails with IDEMPOTENCY_VIOLATION.
// @Tags reconciliation
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response "IDEMPOTENCY_VIOLATION"
// @Router /api/v1/reconciliation/sessions/{id}/close [post]
func (h *ReconciliationHandler) Close(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	session, err := h.service.CloseSession(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, session)
}

func (h *ReconciliationHandler) bindItemID(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.respondError(c, dto.ErrCodeInvalidInput, "Invalid item ID format")
		return uuid.Nil, false
	}
	return itemID, true
}
