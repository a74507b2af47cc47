package banking

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardType distinguishes debit and credit card sales
type CardType string

const (
	CardTypeDebit  CardType = "DEBIT"
	CardTypeCredit CardType = "CREDIT"
)

// IsValid checks if the card type is valid
func (t CardType) IsValid() bool {
	return t == CardTypeDebit || t == CardTypeCredit
}

// String returns the string representation
func (t CardType) String() string {
	return string(t)
}

// CardTransactionStatus is the settlement state of a card sale
type CardTransactionStatus string

const (
	CardTransactionStatusPending   CardTransactionStatus = "PENDING"
	CardTransactionStatusSettled   CardTransactionStatus = "SETTLED"
	CardTransactionStatusCancelled CardTransactionStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s CardTransactionStatus) IsValid() bool {
	return s == CardTransactionStatusPending || s == CardTransactionStatusSettled || s == CardTransactionStatusCancelled
}

// String returns the string representation
func (s CardTransactionStatus) String() string {
	return string(s)
}

// CardFeeConfig holds the acquirer fee and settlement lag for one card
// type. At most one active config exists per card type per tenant;
// updates deactivate the previous config atomically.
type CardFeeConfig struct {
	shared.TenantAggregateRoot
	CardType          CardType        `json:"card_type"`
	FeePercentage     decimal.Decimal `json:"fee_percentage"`      // e.g. 3.24 means 3.24%
	SettlementLagDays int             `json:"settlement_lag_days"` // business days until funds arrive
	IsActive          bool            `json:"is_active"`
}

// NewCardFeeConfig creates an active fee config
func NewCardFeeConfig(tenantID uuid.UUID, cardType CardType, feePercentage decimal.Decimal, lagDays int) (*CardFeeConfig, error) {
	if !cardType.IsValid() {
		return nil, shared.NewValidationError("Card type is not valid")
	}
	if feePercentage.IsNegative() || feePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("Fee percentage must be between 0 and 100")
	}
	if lagDays < 0 {
		return nil, shared.NewValidationError("Settlement lag days cannot be negative")
	}

	return &CardFeeConfig{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CardType:            cardType,
		FeePercentage:       feePercentage,
		SettlementLagDays:   lagDays,
		IsActive:            true,
	}, nil
}

// Deactivate retires the config; settled transactions keep the fee they
// were captured with
func (c *CardFeeConfig) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CardTransaction is a card sale awaiting settlement by the acquirer.
// Fee and net amounts are frozen at capture time from the then-active
// fee config; later config changes never reprice a captured sale.
type CardTransaction struct {
	shared.TenantAggregateRoot
	DebtorID                *uuid.UUID            `json:"debtor_id,omitempty"`
	ReceivableID            *uuid.UUID            `json:"receivable_id,omitempty"`
	CardType                CardType              `json:"card_type"`
	GrossAmount             decimal.Decimal       `json:"gross_amount"`
	FeePercentage           decimal.Decimal       `json:"fee_percentage"`
	FeeAmount               decimal.Decimal       `json:"fee_amount"`
	NetAmount               decimal.Decimal       `json:"net_amount"`
	Status                  CardTransactionStatus `json:"status"`
	SaleDate                time.Time             `json:"sale_date"`
	ExpectedSettlementDate  time.Time             `json:"expected_settlement_date"`
	SettledAt               *time.Time            `json:"settled_at,omitempty"`
	BankAccountID           *uuid.UUID            `json:"bank_account_id,omitempty"`
	SettlementTransactionID *uuid.UUID            `json:"settlement_transaction_id,omitempty"`
}

// NewCardTransaction captures a card sale as pending settlement
func NewCardTransaction(
	tenantID uuid.UUID,
	cardType CardType,
	gross, feePercentage, fee, net decimal.Decimal,
	saleDate, expectedDate time.Time,
) (*CardTransaction, error) {
	if !cardType.IsValid() {
		return nil, shared.NewValidationError("Card type is not valid")
	}
	if !gross.IsPositive() {
		return nil, shared.NewValidationError("Gross amount must be positive")
	}
	if fee.IsNegative() {
		return nil, shared.NewValidationError("Fee amount cannot be negative")
	}
	if !gross.Equal(fee.Add(net)) {
		return nil, shared.NewValidationError("Gross amount must equal fee plus net")
	}

	return &CardTransaction{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		CardType:               cardType,
		GrossAmount:            gross,
		FeePercentage:          feePercentage,
		FeeAmount:              fee,
		NetAmount:              net,
		Status:                 CardTransactionStatusPending,
		SaleDate:               saleDate,
		ExpectedSettlementDate: expectedDate,
	}, nil
}

// LinkDebtor attaches the paying debtor
func (c *CardTransaction) LinkDebtor(debtorID uuid.UUID) {
	c.DebtorID = &debtorID
}

// LinkReceivable attaches the receivable this sale settles
func (c *CardTransaction) LinkReceivable(receivableID uuid.UUID) {
	c.ReceivableID = &receivableID
}

// Settle marks the sale as settled into the given bank account and
// records the ledger transaction that carried the net amount. A second
// settlement attempt is an IDEMPOTENCY_VIOLATION; the caller must not
// have produced a second deposit.
func (c *CardTransaction) Settle(bankAccountID, ledgerTransactionID uuid.UUID, settledAt time.Time) error {
	if c.Status == CardTransactionStatusSettled {
		return shared.NewIdempotencyViolationError("Card transaction is already settled")
	}
	if c.Status == CardTransactionStatusCancelled {
		return shared.NewValidationError("Cannot settle a cancelled card transaction")
	}

	c.Status = CardTransactionStatusSettled
	c.BankAccountID = &bankAccountID
	c.SettlementTransactionID = &ledgerTransactionID
	c.SettledAt = &settledAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Cancel voids a pending card sale
func (c *CardTransaction) Cancel() error {
	if c.Status != CardTransactionStatusPending {
		return shared.NewValidationError("Cannot cancel card transaction in status " + c.Status.String())
	}
	c.Status = CardTransactionStatusCancelled
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
