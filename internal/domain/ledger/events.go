package ledger

import (
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the receivable ledger
const (
	EventTypeReceivableCreated       = "ledger.receivable.created"
	EventTypeReceivablePaid          = "ledger.receivable.paid"
	EventTypeReceivablePartiallyPaid = "ledger.receivable.partially_paid"
)

// ReceivableCreatedEvent is raised when a receivable is created
type ReceivableCreatedEvent struct {
	shared.BaseDomainEvent
	ReceivableNumber string               `json:"receivable_number"`
	DebtorID         string               `json:"debtor_id"`
	SourceType       ReceivableSourceType `json:"source_type"`
	Amount           decimal.Decimal      `json:"amount"`
}

// NewReceivableCreatedEvent creates a new ReceivableCreatedEvent
func NewReceivableCreatedEvent(r *Receivable) *ReceivableCreatedEvent {
	return &ReceivableCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReceivableCreated, "Receivable", r.ID, r.TenantID),
		ReceivableNumber: r.ReceivableNumber,
		DebtorID:         r.DebtorID.String(),
		SourceType:       r.SourceType,
		Amount:           r.Amount,
	}
}

// ReceivablePaidEvent is raised when a receivable reaches PAID
type ReceivablePaidEvent struct {
	shared.BaseDomainEvent
	ReceivableNumber string          `json:"receivable_number"`
	DebtorID         string          `json:"debtor_id"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
}

// NewReceivablePaidEvent creates a new ReceivablePaidEvent
func NewReceivablePaidEvent(r *Receivable) *ReceivablePaidEvent {
	return &ReceivablePaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReceivablePaid, "Receivable", r.ID, r.TenantID),
		ReceivableNumber: r.ReceivableNumber,
		DebtorID:         r.DebtorID.String(),
		PaidAmount:       r.PaidAmount,
	}
}

// ReceivablePartiallyPaidEvent is raised on a partial payment
type ReceivablePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	ReceivableNumber string          `json:"receivable_number"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	Outstanding      decimal.Decimal `json:"outstanding"`
}

// NewReceivablePartiallyPaidEvent creates a new ReceivablePartiallyPaidEvent
func NewReceivablePartiallyPaidEvent(r *Receivable, payment decimal.Decimal) *ReceivablePartiallyPaidEvent {
	return &ReceivablePartiallyPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReceivablePartiallyPaid, "Receivable", r.ID, r.TenantID),
		ReceivableNumber: r.ReceivableNumber,
		PaymentAmount:    payment,
		Outstanding:      r.OutstandingAmount(),
	}
}
