package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceivableService orchestrates receivable creation, payment and
// deletion. Every mutation that moves a debtor's exposure ends with a
// recompute of the cached available credit, inside the same transaction.
type ReceivableService struct {
	debtorRepo     ledger.DebtorRepository
	receivableRepo ledger.ReceivableRepository
	boletoRepo     ledger.BoletoRepository
	accountRepo    banking.BankAccountRepository
	txRepo         banking.TransactionRepository
	cardTxRepo     banking.CardTransactionRepository
	feeConfigRepo  banking.CardFeeConfigRepository
	guard          *ledger.CreditGuard
	txm            shared.TxManager
	logger         *zap.Logger
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(
	debtorRepo ledger.DebtorRepository,
	receivableRepo ledger.ReceivableRepository,
	boletoRepo ledger.BoletoRepository,
	accountRepo banking.BankAccountRepository,
	txRepo banking.TransactionRepository,
	cardTxRepo banking.CardTransactionRepository,
	feeConfigRepo banking.CardFeeConfigRepository,
	txm shared.TxManager,
	logger *zap.Logger,
) *ReceivableService {
	return &ReceivableService{
		debtorRepo:     debtorRepo,
		receivableRepo: receivableRepo,
		boletoRepo:     boletoRepo,
		accountRepo:    accountRepo,
		txRepo:         txRepo,
		cardTxRepo:     cardTxRepo,
		feeConfigRepo:  feeConfigRepo,
		guard:          ledger.NewCreditGuard(),
		txm:            txm,
		logger:         logger,
	}
}

// CreateReceivableInput contains input for receivable creation
type CreateReceivableInput struct {
	DebtorID    uuid.UUID       `json:"debtor_id" binding:"required"`
	SourceType  string          `json:"source_type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Description string          `json:"description"`
}

// CreateReceivable books a credit sale against the debtor's line. The
// debtor row is locked, the amount authorized against available credit,
// and the cache recomputed, all in one transaction.
func (s *ReceivableService) CreateReceivable(ctx context.Context, tenantID uuid.UUID, input CreateReceivableInput) (*ledger.Receivable, error) {
	var receivable *ledger.Receivable
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, input.DebtorID)
		if err != nil {
			return err
		}
		if err := s.guard.Authorize(debtor, input.Amount); err != nil {
			return err
		}

		number, err := s.receivableRepo.NextNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		receivable, err = ledger.NewReceivable(
			tenantID, number, debtor.ID, debtor.Name,
			ledger.ReceivableSourceType(input.SourceType),
			input.Amount, input.DueDate,
		)
		if err != nil {
			return err
		}
		receivable.Description = input.Description

		if err := s.receivableRepo.Save(ctx, receivable); err != nil {
			return err
		}
		return s.recomputeAndSave(ctx, debtor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receivable created",
		zap.String("receivable_number", receivable.ReceivableNumber),
		zap.String("debtor_id", input.DebtorID.String()),
		zap.String("amount", input.Amount.StringFixed(2)),
	)
	return receivable, nil
}

// RecordPaymentInput contains input for recording a payment
type RecordPaymentInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	BankAccountID *uuid.UUID      `json:"bank_account_id,omitempty"`
	CardType      string          `json:"card_type,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
}

// RecordPayment applies a payment to a receivable. Payments accumulate
// on the record; the receivable transitions to PARTIAL until the full
// amount is covered. Cash-like methods deposit into a bank account
// immediately; card payments capture a pending settlement instead.
func (s *ReceivableService) RecordPayment(ctx context.Context, tenantID, receivableID uuid.UUID, input RecordPaymentInput) (*ledger.Receivable, error) {
	method := ledger.PaymentMethod(input.Method)
	if method == ledger.PaymentMethodBoleto {
		return nil, shared.NewValidationError("Boleto payments are recorded against the boleto, not the receivable")
	}
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	var receivable *ledger.Receivable
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		receivable, err = s.receivableRepo.FindByIDForTenant(ctx, tenantID, receivableID)
		if err != nil {
			return err
		}

		if err := receivable.RegisterPayment(input.Amount, method, paidAt); err != nil {
			return err
		}

		switch {
		case method.SettlesImmediately():
			if input.BankAccountID == nil {
				return shared.NewValidationError("Bank account is required for " + input.Method + " payments")
			}
			if err := s.deposit(ctx, tenantID, *input.BankAccountID, input.Amount,
				"Payment on "+receivable.ReceivableNumber,
				banking.ReferenceTypeReceivable, receivable.ID, paidAt); err != nil {
				return err
			}
			receivable.AssignBankAccount(*input.BankAccountID)

		case method == ledger.PaymentMethodCard:
			if err := s.captureCardSale(ctx, tenantID, receivable, input, paidAt); err != nil {
				return err
			}
		}

		if err := s.receivableRepo.SaveWithLock(ctx, receivable); err != nil {
			return err
		}

		if receivable.SourceType == ledger.SourceTypeBoletoRemainder {
			if err := s.settleRemainderParent(ctx, tenantID, receivable, input.Amount, method, paidAt); err != nil {
				return err
			}
		}

		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, receivable.DebtorID)
		if err != nil {
			return err
		}
		return s.recomputeAndSave(ctx, debtor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("receivable_number", receivable.ReceivableNumber),
		zap.String("method", input.Method),
		zap.String("amount", input.Amount.StringFixed(2)),
		zap.String("status", receivable.Status.String()),
	)
	return receivable, nil
}

// captureCardSale freezes the fee from the active config and books a
// pending card settlement for the payment amount
func (s *ReceivableService) captureCardSale(ctx context.Context, tenantID uuid.UUID, receivable *ledger.Receivable, input RecordPaymentInput, paidAt time.Time) error {
	cardType := banking.CardType(input.CardType)
	if !cardType.IsValid() {
		return shared.NewValidationError("Card type is required for card payments")
	}

	cfg, err := s.feeConfigRepo.FindActiveByCardType(ctx, tenantID, cardType)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewConfigurationMissingError("No active fee configuration for card type " + cardType.String())
		}
		return err
	}

	fee, net := banking.ComputeFee(input.Amount, cfg.FeePercentage)
	expected := banking.ComputeExpectedSettlementDate(paidAt, cfg.SettlementLagDays)

	cardTx, err := banking.NewCardTransaction(tenantID, cardType, input.Amount, cfg.FeePercentage, fee, net, paidAt, expected)
	if err != nil {
		return err
	}
	cardTx.LinkDebtor(receivable.DebtorID)
	cardTx.LinkReceivable(receivable.ID)

	receivable.SetNetAmount(net)
	return s.cardTxRepo.Save(ctx, cardTx)
}

// settleRemainderParent forwards a payment on a remainder receivable to
// the partially paid receivable it was split from, so the original
// record reaches PAID once the split covers its full amount. The link
// runs through the boleto the remainder was spawned by.
func (s *ReceivableService) settleRemainderParent(ctx context.Context, tenantID uuid.UUID, remainder *ledger.Receivable, amount decimal.Decimal, method ledger.PaymentMethod, paidAt time.Time) error {
	if remainder.SourceID == nil {
		return nil
	}
	boleto, err := s.boletoRepo.FindByIDForTenant(ctx, tenantID, *remainder.SourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if boleto.ReceivableID == nil {
		return nil
	}
	parent, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, *boleto.ReceivableID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !parent.IsOpen() {
		return nil
	}
	if err := parent.RegisterPayment(amount, method, paidAt); err != nil {
		return err
	}
	return s.receivableRepo.SaveWithLock(ctx, parent)
}

// DeleteReceivable removes a receivable by administrative correction.
// Deleting a paid record restores the consumed credit, clamped to the
// current limit; deleting an open record recomputes exposure instead.
func (s *ReceivableService) DeleteReceivable(ctx context.Context, tenantID, receivableID uuid.UUID) error {
	return s.txm.InTx(ctx, func(ctx context.Context) error {
		receivable, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, receivableID)
		if err != nil {
			return err
		}

		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, receivable.DebtorID)
		if err != nil {
			return err
		}

		wasPaid := receivable.Status == ledger.ReceivableStatusPaid
		if err := s.receivableRepo.Delete(ctx, tenantID, receivableID); err != nil {
			return err
		}

		if wasPaid {
			if err := debtor.RestoreCredit(receivable.Amount); err != nil {
				return err
			}
			return s.debtorRepo.SaveWithLock(ctx, debtor)
		}
		return s.recomputeAndSave(ctx, debtor)
	})
}

// CancelReceivable voids an unpaid receivable and releases its exposure
func (s *ReceivableService) CancelReceivable(ctx context.Context, tenantID, receivableID uuid.UUID, reason string) (*ledger.Receivable, error) {
	var receivable *ledger.Receivable
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		receivable, err = s.receivableRepo.FindByIDForTenant(ctx, tenantID, receivableID)
		if err != nil {
			return err
		}
		if err := receivable.Cancel(reason); err != nil {
			return err
		}
		if err := s.receivableRepo.SaveWithLock(ctx, receivable); err != nil {
			return err
		}

		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, receivable.DebtorID)
		if err != nil {
			return err
		}
		return s.recomputeAndSave(ctx, debtor)
	})
	if err != nil {
		return nil, err
	}
	return receivable, nil
}

// MarkOverdueSweep transitions pending receivables past their due date
// to OVERDUE. Returns the number of receivables transitioned.
func (s *ReceivableService) MarkOverdueSweep(ctx context.Context, tenantID uuid.UUID, now time.Time) (int, error) {
	due, err := s.receivableRepo.FindDueBefore(ctx, tenantID, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range due {
		if !r.MarkOverdue(now) {
			continue
		}
		if err := s.receivableRepo.SaveWithLock(ctx, r); err != nil {
			return count, err
		}
		count++
	}

	if count > 0 {
		s.logger.Info("overdue sweep completed", zap.Int("marked", count))
	}
	return count, nil
}

// GetReceivable returns a receivable by ID
func (s *ReceivableService) GetReceivable(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Receivable, error) {
	return s.receivableRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListReceivables lists receivables with pagination
func (s *ReceivableService) ListReceivables(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Receivable], error) {
	return s.receivableRepo.FindAllForTenant(ctx, tenantID, filter)
}

// deposit appends an income entry to a bank account under row lock
func (s *ReceivableService) deposit(ctx context.Context, tenantID, accountID uuid.UUID, amount decimal.Decimal, description string, refType banking.ReferenceType, refID uuid.UUID, date time.Time) error {
	account, err := s.accountRepo.FindByIDForUpdate(ctx, tenantID, accountID)
	if err != nil {
		return err
	}

	tx, err := banking.NewTransaction(tenantID, account.ID, banking.TransactionTypeIncome, amount, description, refType, date)
	if err != nil {
		return err
	}
	tx.LinkReference(refID)

	if err := account.Append(tx); err != nil {
		return err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return err
	}
	return s.accountRepo.SaveWithLock(ctx, account)
}

// recomputeAndSave rebuilds the debtor's available credit from open
// exposure and persists it. Must run inside the caller's transaction
// with the debtor row locked.
func (s *ReceivableService) recomputeAndSave(ctx context.Context, debtor *ledger.Debtor) error {
	receivables, err := s.receivableRepo.FindOpenByDebtor(ctx, debtor.TenantID, debtor.ID)
	if err != nil {
		return err
	}
	boletos, err := s.boletoRepo.FindOpenByDebtor(ctx, debtor.TenantID, debtor.ID)
	if err != nil {
		return err
	}
	s.guard.Recompute(debtor, receivables, boletos)
	return s.debtorRepo.SaveWithLock(ctx, debtor)
}
