package ledger

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BoletoStatus represents the lifecycle state of a boleto
type BoletoStatus string

const (
	BoletoStatusPending   BoletoStatus = "PENDING"
	BoletoStatusPaid      BoletoStatus = "PAID"
	BoletoStatusOverdue   BoletoStatus = "OVERDUE"
	BoletoStatusCancelled BoletoStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s BoletoStatus) IsValid() bool {
	switch s {
	case BoletoStatusPending, BoletoStatusPaid, BoletoStatusOverdue, BoletoStatusCancelled:
		return true
	}
	return false
}

// IsOpen returns true while the boleto is collectible
func (s BoletoStatus) IsOpen() bool {
	return s == BoletoStatusPending || s == BoletoStatusOverdue
}

// String returns the string representation
func (s BoletoStatus) String() string {
	return string(s)
}

// Boleto is a bank collection slip issued against a debtor. Each boleto
// is paired one-to-one with a receivable carrying the same amount. A
// payment below the face amount closes the boleto at the received
// value, leaves the paired receivable partially paid, and leaves a
// remainder to be re-issued as a fresh receivable.
type Boleto struct {
	shared.TenantAggregateRoot
	BoletoNumber  string          `json:"boleto_number"`
	DebtorID      uuid.UUID       `json:"debtor_id"`
	ReceivableID  *uuid.UUID      `json:"receivable_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        BoletoStatus    `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	BankAccountID *uuid.UUID      `json:"bank_account_id,omitempty"`
}

// NewBoleto creates a pending boleto
func NewBoleto(tenantID uuid.UUID, number string, debtorID uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*Boleto, error) {
	if number == "" {
		return nil, shared.NewValidationError("Boleto number cannot be empty")
	}
	if debtorID == uuid.Nil {
		return nil, shared.NewValidationError("Debtor ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Boleto amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("Due date cannot be empty")
	}

	return &Boleto{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BoletoNumber:        number,
		DebtorID:            debtorID,
		Amount:              amount,
		PaidAmount:          decimal.Zero,
		DueDate:             dueDate,
		Status:              BoletoStatusPending,
	}, nil
}

// PairWithReceivable links the boleto to its mirror receivable
func (b *Boleto) PairWithReceivable(receivableID uuid.UUID) {
	b.ReceivableID = &receivableID
	b.UpdatedAt = time.Now()
}

// RegisterPayment settles the boleto with the received amount and
// returns the unpaid remainder. A payment below the face amount still
// closes the boleto; the remainder is carried forward by the caller as
// a new receivable. Overpayment is rejected.
func (b *Boleto) RegisterPayment(amount decimal.Decimal, paidAt time.Time) (decimal.Decimal, error) {
	if !b.Status.IsOpen() {
		return decimal.Zero, shared.NewValidationError("Cannot apply payment to boleto in status " + b.Status.String())
	}
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewValidationError("Payment amount must be positive")
	}
	if amount.GreaterThan(b.Amount) {
		return decimal.Zero, shared.NewValidationError("Payment amount exceeds boleto amount")
	}

	b.PaidAmount = amount
	b.Status = BoletoStatusPaid
	b.PaidAt = &paidAt
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return b.Amount.Sub(amount), nil
}

// AssignBankAccount records where the boleto funds were deposited
func (b *Boleto) AssignBankAccount(accountID uuid.UUID) {
	b.BankAccountID = &accountID
	b.UpdatedAt = time.Now()
}

// MarkOverdue transitions a pending boleto past its due date to OVERDUE
func (b *Boleto) MarkOverdue(now time.Time) bool {
	if b.Status != BoletoStatusPending {
		return false
	}
	if !now.After(b.DueDate) {
		return false
	}
	b.Status = BoletoStatusOverdue
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return true
}

// Cancel voids an open boleto
func (b *Boleto) Cancel() error {
	if !b.Status.IsOpen() {
		return shared.NewValidationError("Cannot cancel boleto in status " + b.Status.String())
	}
	b.Status = BoletoStatusCancelled
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// OutstandingAmount returns the uncollected balance of an open boleto
func (b *Boleto) OutstandingAmount() decimal.Decimal {
	if !b.Status.IsOpen() {
		return decimal.Zero
	}
	return b.Amount.Sub(b.PaidAmount)
}
