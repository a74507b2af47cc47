package handler

import (
	"io"

	appbanking "github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/application/banking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BankAccountHandler handles bank account and transaction endpoints
type BankAccountHandler struct {
	BaseHandler
	service *appbanking.BankAccountService
}

// NewBankAccountHandler creates a bank account handler
func NewBankAccountHandler(service *appbanking.BankAccountService, logger *zap.Logger) *BankAccountHandler {
	return &BankAccountHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Open godoc
// @Summary Open a bank account
// @Description Opens an account. A non-zero initial balance becomes the first ledger entry.
// @Tags bank-accounts
// @Accept json
// @Produce json
// @Param request body banking.OpenAccountInput true "Account data"
// @Success 201 {object} dto.Response
// @Router /api/v1/bank-accounts [post]
func (h *BankAccountHandler) Open(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var input appbanking.OpenAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	account, err := h.service.OpenAccount(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, account)
}

// Get godoc
// @Summary Get a bank account
// @Tags bank-accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/bank-accounts/{id} [get]
func (h *BankAccountHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, account)
}

// List godoc
// @Summary List bank accounts
// @Tags bank-accounts
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Router /api/v1/bank-accounts [get]
func (h *BankAccountHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListAccounts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AppendTransaction godoc
// @Summary Append a ledger entry
// @Description Records a manual income or expense entry. Overdraft is allowed.
// @Tags bank-accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body banking.AppendTransactionInput true "Transaction data"
// @Success 201 {object} dto.Response
// @Router /api/v1/bank-accounts/{id}/transactions [post]
func (h *BankAccountHandler) AppendTransaction(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var input appbanking.AppendTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	tx, err := h.service.AppendTransaction(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tx)
}

// ListTransactions godoc
// @Summary List an account's ledger entries
// @Tags bank-accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Router /api/v1/bank-accounts/{id}/transactions [get]
func (h *BankAccountHandler) ListTransactions(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListTransactions(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ReverseTransaction godoc
// @Summary Reverse a ledger entry
// @Description Removes an entry and rebuilds the BalanceAfter snapshots of every later entry
// @Tags bank-accounts
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204
// @Router /api/v1/bank-transactions/{id} [delete]
func (h *BankAccountHandler) ReverseTransaction(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.ReverseTransaction(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// CheckConsistency godoc
// @Summary Audit an account's balance
// @Description Compares the stored balance against the sum of ledger entries. Reports drift without correcting it.
// @Tags bank-accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/bank-accounts/{id}/consistency [get]
func (h *BankAccountHandler) CheckConsistency(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	report, err := h.service.CheckConsistency(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, report)
}

// ImportStatement godoc
// @Summary Import a bank statement
// @Description Imports a CSV statement file. Good lines become ledger entries; bad lines are reported with their line numbers.
// @Tags bank-accounts
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Account ID"
// @Param file formData file true "CSV statement file"
// @Success 200 {object} dto.Response
// @Router /api/v1/bank-accounts/{id}/import [post]
func (h *BankAccountHandler) ImportStatement(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing statement file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read statement file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Cannot read statement file")
		return
	}

	summary, err := h.service.ImportStatement(c.Request.Context(), tenantID, id, data)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}
