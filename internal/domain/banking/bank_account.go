package banking

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of bank account
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypePayment  AccountType = "PAYMENT" // acquirer / PSP settlement account
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings || t == AccountTypePayment
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// BankAccount is a company bank account tracked by the ledger. Balance
// holds the running total after the latest transaction; it only changes
// together with an appended or reversed transaction, inside the same
// database transaction, with the account row locked. Negative balances
// are allowed (overdraft), unlike debtor credit.
type BankAccount struct {
	shared.TenantAggregateRoot
	Name        string          `json:"name"`
	BankName    string          `json:"bank_name"`
	AccountType AccountType     `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"is_active"`
}

// NewBankAccount creates a bank account with zero balance. Opening
// balances are recorded through an INITIAL_BALANCE transaction so the
// ledger stays the sole source of balance history.
func NewBankAccount(tenantID uuid.UUID, name, bankName string, accountType AccountType) (*BankAccount, error) {
	if name == "" {
		return nil, shared.NewValidationError("Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewValidationError("Account type is not valid")
	}

	return &BankAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		BankName:            bankName,
		AccountType:         accountType,
		Balance:             decimal.Zero,
		IsActive:            true,
	}, nil
}

// Append applies a transaction to the account: stamps BalanceAfter on
// the transaction and advances the stored balance. The transaction must
// target this account.
func (a *BankAccount) Append(tx *Transaction) error {
	if tx.BankAccountID != a.ID {
		return shared.NewValidationError("Transaction does not belong to this account")
	}
	if !a.IsActive {
		return shared.NewValidationError("Account is not active")
	}

	a.Balance = a.Balance.Add(tx.SignedAmount())
	tx.stampBalanceAfter(a.Balance)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Reverse removes a transaction's effect from the stored balance.
// BalanceAfter snapshots of later transactions become stale and are
// rebuilt by the caller.
func (a *BankAccount) Reverse(tx *Transaction) error {
	if tx.BankAccountID != a.ID {
		return shared.NewValidationError("Transaction does not belong to this account")
	}

	a.Balance = a.Balance.Sub(tx.SignedAmount())
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Deactivate closes the account for new transactions
func (a *BankAccount) Deactivate() {
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Activate reopens the account
func (a *BankAccount) Activate() {
	a.IsActive = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
