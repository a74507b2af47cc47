package reconciliation

import (
	"fmt"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a reconciliation session
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// IsValid checks if the status is valid
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusInProgress || s == SessionStatusCompleted
}

// String returns the string representation
func (s SessionStatus) String() string {
	return string(s)
}

// Item is one bank statement entry being reconciled against the ledger.
// An item is resolved when it is either matched to a ledger transaction
// or marked as an exception.
type Item struct {
	shared.BaseEntity
	SessionID            uuid.UUID       `json:"session_id"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"` // signed: deposits positive, withdrawals negative
	MatchedTransactionID *uuid.UUID      `json:"matched_transaction_id,omitempty"`
	IsException          bool            `json:"is_exception"`
	ExceptionReason      string          `json:"exception_reason,omitempty"`
	ResolvedBy           *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolvedAt           *time.Time      `json:"resolved_at,omitempty"`
}

// IsResolved returns true when the item is matched or excepted
func (i *Item) IsResolved() bool {
	return i.MatchedTransactionID != nil || i.IsException
}

// Session is a bank reconciliation run over one account and period.
// Items accumulate while the session is IN_PROGRESS; closing requires
// every item resolved and is allowed exactly once.
type Session struct {
	shared.TenantAggregateRoot
	BankAccountID    uuid.UUID       `json:"bank_account_id"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
	Status           SessionStatus   `json:"status"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Items            []*Item         `json:"items"`
}

// NewSession starts a reconciliation session
func NewSession(tenantID, bankAccountID uuid.UUID, periodStart, periodEnd time.Time, statementBalance decimal.Decimal) (*Session, error) {
	if bankAccountID == uuid.Nil {
		return nil, shared.NewValidationError("Bank account ID cannot be empty")
	}
	if periodStart.IsZero() || periodEnd.IsZero() {
		return nil, shared.NewValidationError("Reconciliation period cannot be empty")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewValidationError("Period end cannot be before period start")
	}

	return &Session{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BankAccountID:       bankAccountID,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		StatementBalance:    statementBalance,
		Status:              SessionStatusInProgress,
		Items:               []*Item{},
	}, nil
}

// AddItem appends a statement entry to the session
func (s *Session) AddItem(date time.Time, description string, amount decimal.Decimal) (*Item, error) {
	if s.Status != SessionStatusInProgress {
		return nil, shared.NewValidationError("Cannot add items to a completed session")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Item date cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewValidationError("Item amount cannot be zero")
	}

	item := &Item{
		BaseEntity:  shared.NewBaseEntity(),
		SessionID:   s.ID,
		Date:        date,
		Description: description,
		Amount:      amount,
	}
	s.Items = append(s.Items, item)
	s.UpdatedAt = time.Now()
	return item, nil
}

// MatchItem links an item to a ledger transaction
func (s *Session) MatchItem(itemID, transactionID uuid.UUID, by *uuid.UUID, at time.Time) error {
	if s.Status != SessionStatusInProgress {
		return shared.NewValidationError("Cannot match items on a completed session")
	}

	item := s.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if item.IsResolved() {
		return shared.NewValidationError("Item is already resolved")
	}

	item.MatchedTransactionID = &transactionID
	item.ResolvedBy = by
	item.ResolvedAt = &at
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// MarkException flags an item as an exception with a reason
func (s *Session) MarkException(itemID uuid.UUID, reason string, by *uuid.UUID, at time.Time) error {
	if s.Status != SessionStatusInProgress {
		return shared.NewValidationError("Cannot mark exceptions on a completed session")
	}
	if reason == "" {
		return shared.NewValidationError("Exception reason cannot be empty")
	}

	item := s.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if item.IsResolved() {
		return shared.NewValidationError("Item is already resolved")
	}

	item.IsException = true
	item.ExceptionReason = reason
	item.ResolvedBy = by
	item.ResolvedAt = &at
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// UnresolvedCount returns the number of items not yet matched or excepted
func (s *Session) UnresolvedCount() int {
	count := 0
	for _, item := range s.Items {
		if !item.IsResolved() {
			count++
		}
	}
	return count
}

// Close completes the session. Rejected while any item is unresolved;
// a second close is an idempotency violation.
func (s *Session) Close(at time.Time) error {
	if s.Status == SessionStatusCompleted {
		return shared.NewIdempotencyViolationError("Reconciliation session is already completed")
	}
	if unresolved := s.UnresolvedCount(); unresolved > 0 {
		return shared.NewValidationError(fmt.Sprintf("Cannot close session with %d unresolved items", unresolved))
	}

	s.Status = SessionStatusCompleted
	s.CompletedAt = &at
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func (s *Session) findItem(itemID uuid.UUID) *Item {
	for _, item := range s.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}
