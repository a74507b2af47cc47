package banking

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation
func (t TransactionType) String() string {
	return string(t)
}

// ReferenceType identifies the document that originated a transaction
type ReferenceType string

const (
	ReferenceTypeReceivable      ReferenceType = "RECEIVABLE"
	ReferenceTypeBoleto          ReferenceType = "BOLETO"
	ReferenceTypeCardSettlement  ReferenceType = "CARD_SETTLEMENT"
	ReferenceTypeInitialBalance  ReferenceType = "INITIAL_BALANCE"
	ReferenceTypeStatementImport ReferenceType = "STATEMENT_IMPORT"
	ReferenceTypeManual          ReferenceType = "MANUAL"
)

// IsValid checks if the reference type is valid
func (t ReferenceType) IsValid() bool {
	switch t {
	case ReferenceTypeReceivable, ReferenceTypeBoleto, ReferenceTypeCardSettlement,
		ReferenceTypeInitialBalance, ReferenceTypeStatementImport, ReferenceTypeManual:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry on a bank account. Amount is
// always positive; direction comes from Type. BalanceAfter snapshots
// the account balance immediately after this entry was appended, in
// append order.
type Transaction struct {
	shared.TenantAggregateRoot
	BankAccountID   uuid.UUID       `json:"bank_account_id"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Description     string          `json:"description"`
	ReferenceType   ReferenceType   `json:"reference_type"`
	ReferenceID     *uuid.UUID      `json:"reference_id,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// NewTransaction creates a ledger entry. BalanceAfter is stamped by
// BankAccount.Append, not here.
func NewTransaction(
	tenantID uuid.UUID,
	accountID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	description string,
	refType ReferenceType,
	txDate time.Time,
) (*Transaction, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewValidationError("Bank account ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewValidationError("Transaction type is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Transaction amount must be positive")
	}
	if description == "" {
		return nil, shared.NewValidationError("Transaction description cannot be empty")
	}
	if !refType.IsValid() {
		return nil, shared.NewValidationError("Reference type is not valid")
	}
	if txDate.IsZero() {
		txDate = time.Now()
	}

	return &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BankAccountID:       accountID,
		Type:                txType,
		Amount:              amount,
		Description:         description,
		ReferenceType:       refType,
		TransactionDate:     txDate,
	}, nil
}

// LinkReference attaches the originating document ID
func (t *Transaction) LinkReference(refID uuid.UUID) {
	t.ReferenceID = &refID
}

// SignedAmount returns the amount with its direction applied: positive
// for income, negative for expense
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t *Transaction) stampBalanceAfter(balance decimal.Decimal) {
	t.BalanceAfter = balance
}
