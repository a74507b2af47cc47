package ledger

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the lifecycle state of a receivable
type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "PENDING"
	ReceivableStatusOverdue   ReceivableStatus = "OVERDUE"
	ReceivableStatusPartial   ReceivableStatus = "PARTIAL"
	ReceivableStatusPaid      ReceivableStatus = "PAID"
	ReceivableStatusCancelled ReceivableStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusOverdue, ReceivableStatusPartial,
		ReceivableStatusPaid, ReceivableStatusCancelled:
		return true
	}
	return false
}

// IsOpen returns true while the receivable still counts as credit exposure
func (s ReceivableStatus) IsOpen() bool {
	return s == ReceivableStatusPending || s == ReceivableStatusOverdue || s == ReceivableStatusPartial
}

// IsTerminal returns true if no further payments can be applied
func (s ReceivableStatus) IsTerminal() bool {
	return s == ReceivableStatusPaid || s == ReceivableStatusCancelled
}

// String returns the string representation
func (s ReceivableStatus) String() string {
	return string(s)
}

// ReceivableSourceType identifies what originated a receivable
type ReceivableSourceType string

const (
	SourceTypeSalesOrder      ReceivableSourceType = "SALES_ORDER"
	SourceTypeBoleto          ReceivableSourceType = "BOLETO"
	SourceTypeBoletoRemainder ReceivableSourceType = "BOLETO_REMAINDER" // spawned by a partial boleto payment
	SourceTypeCardSale        ReceivableSourceType = "CARD_SALE"
	SourceTypeManual          ReceivableSourceType = "MANUAL"
)

// IsValid checks if the source type is valid
func (t ReceivableSourceType) IsValid() bool {
	switch t {
	case SourceTypeSalesOrder, SourceTypeBoleto, SourceTypeBoletoRemainder,
		SourceTypeCardSale, SourceTypeManual:
		return true
	}
	return false
}

// PaymentMethod represents how a receivable gets settled
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodBoleto       PaymentMethod = "BOLETO"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodBankTransfer,
		PaymentMethodBoleto, PaymentMethodCard:
		return true
	}
	return false
}

// SettlesImmediately returns true for methods whose funds hit a bank
// account at payment time rather than through a settlement cycle
func (m PaymentMethod) SettlesImmediately() bool {
	return m == PaymentMethodCash || m == PaymentMethodPix || m == PaymentMethodBankTransfer
}

// Receivable is an amount owed to the company by a debtor. Payments
// accumulate on the record itself; a receivable never splits. The one
// exception is a partial boleto payment, which leaves the paired
// receivable PARTIAL and spawns a SourceTypeBoletoRemainder receivable
// for the unpaid balance; paying the remainder settles both.
type Receivable struct {
	shared.TenantAggregateRoot
	ReceivableNumber string               `json:"receivable_number"`
	DebtorID         uuid.UUID            `json:"debtor_id"`
	DebtorName       string               `json:"debtor_name"`
	SourceType       ReceivableSourceType `json:"source_type"`
	SourceID         *uuid.UUID           `json:"source_id,omitempty"`
	SourceNumber     string               `json:"source_number,omitempty"`
	Description      string               `json:"description"`
	Amount           decimal.Decimal      `json:"amount"`
	PaidAmount       decimal.Decimal      `json:"paid_amount"`
	NetAmount        *decimal.Decimal     `json:"net_amount,omitempty"` // amount minus card fee, set on card payments
	Status           ReceivableStatus     `json:"status"`
	PaymentMethod    *PaymentMethod       `json:"payment_method,omitempty"`
	BankAccountID    *uuid.UUID           `json:"bank_account_id,omitempty"`
	DueDate          time.Time            `json:"due_date"`
	PaidAt           *time.Time           `json:"paid_at,omitempty"`
	CancelReason     string               `json:"cancel_reason,omitempty"`
}

// NewReceivable creates a pending receivable
func NewReceivable(
	tenantID uuid.UUID,
	number string,
	debtorID uuid.UUID,
	debtorName string,
	sourceType ReceivableSourceType,
	amount decimal.Decimal,
	dueDate time.Time,
) (*Receivable, error) {
	if number == "" {
		return nil, shared.NewValidationError("Receivable number cannot be empty")
	}
	if debtorID == uuid.Nil {
		return nil, shared.NewValidationError("Debtor ID cannot be empty")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewValidationError("Source type is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Receivable amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("Due date cannot be empty")
	}

	r := &Receivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceivableNumber:    number,
		DebtorID:            debtorID,
		DebtorName:          debtorName,
		SourceType:          sourceType,
		Amount:              amount,
		PaidAmount:          decimal.Zero,
		Status:              ReceivableStatusPending,
		DueDate:             dueDate,
	}
	r.AddDomainEvent(NewReceivableCreatedEvent(r))
	return r, nil
}

// OutstandingAmount returns the unpaid balance, never negative
func (r *Receivable) OutstandingAmount() decimal.Decimal {
	outstanding := r.Amount.Sub(r.PaidAmount)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// IsOpen returns true while the receivable counts as exposure
func (r *Receivable) IsOpen() bool {
	return r.Status.IsOpen()
}

// LinkSource attaches the originating document reference
func (r *Receivable) LinkSource(sourceID uuid.UUID, sourceNumber string) {
	r.SourceID = &sourceID
	r.SourceNumber = sourceNumber
	r.UpdatedAt = time.Now()
}

// RegisterPayment applies a payment to the receivable. Cumulative paid
// amount reaching the full amount transitions to PAID, anything short
// to PARTIAL. Overpayment is accepted; the outstanding clamps at zero.
func (r *Receivable) RegisterPayment(amount decimal.Decimal, method PaymentMethod, paidAt time.Time) error {
	if r.Status.IsTerminal() {
		return shared.NewValidationError("Cannot apply payment to receivable in status " + r.Status.String())
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("Payment amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewValidationError("Payment method is not valid")
	}

	r.PaidAmount = r.PaidAmount.Add(amount)
	r.PaymentMethod = &method

	if r.PaidAmount.GreaterThanOrEqual(r.Amount) {
		r.Status = ReceivableStatusPaid
		r.PaidAt = &paidAt
		r.AddDomainEvent(NewReceivablePaidEvent(r))
	} else {
		r.Status = ReceivableStatusPartial
		r.AddDomainEvent(NewReceivablePartiallyPaidEvent(r, amount))
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// AssignBankAccount records where the settled funds were deposited
func (r *Receivable) AssignBankAccount(accountID uuid.UUID) {
	r.BankAccountID = &accountID
	r.UpdatedAt = time.Now()
}

// SetNetAmount records the amount net of card fees
func (r *Receivable) SetNetAmount(net decimal.Decimal) {
	r.NetAmount = &net
	r.UpdatedAt = time.Now()
}

// MarkOverdue transitions a pending receivable past its due date to
// OVERDUE. Partial receivables keep their status; overdue state for
// them is derived from the due date.
func (r *Receivable) MarkOverdue(now time.Time) bool {
	if r.Status != ReceivableStatusPending {
		return false
	}
	if !now.After(r.DueDate) {
		return false
	}
	r.Status = ReceivableStatusOverdue
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return true
}

// Cancel voids the receivable. Paid receivables cannot be cancelled;
// administrative correction of paid records goes through deletion with
// credit restore instead.
func (r *Receivable) Cancel(reason string) error {
	if r.Status == ReceivableStatusPaid {
		return shared.NewValidationError("Cannot cancel a paid receivable")
	}
	if r.Status == ReceivableStatusCancelled {
		return shared.NewValidationError("Receivable is already cancelled")
	}
	r.Status = ReceivableStatusCancelled
	r.CancelReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// IsOverdue returns true if the receivable is open and past due
func (r *Receivable) IsOverdue(now time.Time) bool {
	return r.IsOpen() && now.After(r.DueDate)
}
