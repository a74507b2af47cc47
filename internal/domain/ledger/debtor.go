package ledger

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtorKind distinguishes the parties that can owe money
type DebtorKind string

const (
	DebtorKindCustomer DebtorKind = "CUSTOMER"
	DebtorKindEmployee DebtorKind = "EMPLOYEE" // payroll-linked credit line
)

// IsValid checks if the debtor kind is valid
func (k DebtorKind) IsValid() bool {
	return k == DebtorKindCustomer || k == DebtorKindEmployee
}

// String returns the string representation of DebtorKind
func (k DebtorKind) String() string {
	return string(k)
}

// Debtor represents a party that can owe money: a business customer or an
// employee with a payroll-linked credit line.
//
// AvailableCredit is a cached projection over the debtor's open receivables
// and boletos. It is written only by CreditGuard.Recompute and by the
// clamped restore on receivable deletion; every other code path treats it
// as read-only. Invariant: 0 <= AvailableCredit <= CreditLimit after any
// mutation settles.
type Debtor struct {
	shared.TenantAggregateRoot
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Kind            DebtorKind      `json:"kind"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`     // zero means no credit allowed
	AvailableCredit decimal.Decimal `json:"available_credit"` // derived, see CreditGuard
	IsActive        bool            `json:"is_active"`
}

// NewDebtor creates a new debtor with no credit line
func NewDebtor(tenantID uuid.UUID, code, name string, kind DebtorKind) (*Debtor, error) {
	if code == "" {
		return nil, shared.NewValidationError("Debtor code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Debtor name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Debtor kind is not valid")
	}

	return &Debtor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Kind:                kind,
		CreditLimit:         decimal.Zero,
		AvailableCredit:     decimal.Zero,
		IsActive:            true,
	}, nil
}

// SetCreditLimit sets the credit limit. The cached AvailableCredit is not
// touched here; callers must run CreditGuard.Recompute afterwards so the
// projection reflects the new limit.
func (d *Debtor) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewValidationError("Credit limit cannot be negative")
	}
	d.CreditLimit = limit
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// RestoreCredit adds amount back to the available credit, clamped so the
// result never exceeds the current credit limit. Used when a paid
// receivable is deleted by administrative correction: adding back without
// the clamp can push AvailableCredit above CreditLimit when the limit was
// lowered after the original sale.
func (d *Debtor) RestoreCredit(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewValidationError("Restore amount must be positive")
	}
	restored := d.AvailableCredit.Add(amount)
	if restored.GreaterThan(d.CreditLimit) {
		restored = d.CreditLimit
	}
	d.AvailableCredit = restored
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// setAvailableCredit is the single write path used by CreditGuard.Recompute.
func (d *Debtor) setAvailableCredit(available decimal.Decimal) {
	d.AvailableCredit = available
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// HasCreditLine returns true if the debtor has a credit limit set
func (d *Debtor) HasCreditLine() bool {
	return d.CreditLimit.GreaterThan(decimal.Zero)
}

// Deactivate marks the debtor inactive; open exposure is unaffected
func (d *Debtor) Deactivate() {
	d.IsActive = false
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Activate marks the debtor active
func (d *Debtor) Activate() {
	d.IsActive = true
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
