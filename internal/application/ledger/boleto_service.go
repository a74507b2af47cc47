package ledger

import (
	"context"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BoletoService orchestrates boleto issuance and settlement. A boleto is
// always issued together with a mirror receivable of the same amount;
// the pair counts once as exposure and settles together.
type BoletoService struct {
	debtorRepo     ledger.DebtorRepository
	receivableRepo ledger.ReceivableRepository
	boletoRepo     ledger.BoletoRepository
	accountRepo    banking.BankAccountRepository
	txRepo         banking.TransactionRepository
	guard          *ledger.CreditGuard
	txm            shared.TxManager
	logger         *zap.Logger
}

// NewBoletoService creates a new BoletoService
func NewBoletoService(
	debtorRepo ledger.DebtorRepository,
	receivableRepo ledger.ReceivableRepository,
	boletoRepo ledger.BoletoRepository,
	accountRepo banking.BankAccountRepository,
	txRepo banking.TransactionRepository,
	txm shared.TxManager,
	logger *zap.Logger,
) *BoletoService {
	return &BoletoService{
		debtorRepo:     debtorRepo,
		receivableRepo: receivableRepo,
		boletoRepo:     boletoRepo,
		accountRepo:    accountRepo,
		txRepo:         txRepo,
		guard:          ledger.NewCreditGuard(),
		txm:            txm,
		logger:         logger,
	}
}

// IssueBoletoInput contains input for boleto issuance
type IssueBoletoInput struct {
	DebtorID    uuid.UUID       `json:"debtor_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Description string          `json:"description"`
}

// IssueBoleto issues a boleto with its paired receivable. The amount is
// authorized against the debtor's credit line once; the pair is not
// double-counted as exposure.
func (s *BoletoService) IssueBoleto(ctx context.Context, tenantID uuid.UUID, input IssueBoletoInput) (*ledger.Boleto, *ledger.Receivable, error) {
	var (
		boleto     *ledger.Boleto
		receivable *ledger.Receivable
	)
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, input.DebtorID)
		if err != nil {
			return err
		}
		if err := s.guard.Authorize(debtor, input.Amount); err != nil {
			return err
		}

		boletoNumber, err := s.boletoRepo.NextNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		boleto, err = ledger.NewBoleto(tenantID, boletoNumber, debtor.ID, input.Amount, input.DueDate)
		if err != nil {
			return err
		}

		receivableNumber, err := s.receivableRepo.NextNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		receivable, err = ledger.NewReceivable(
			tenantID, receivableNumber, debtor.ID, debtor.Name,
			ledger.SourceTypeBoleto, input.Amount, input.DueDate,
		)
		if err != nil {
			return err
		}
		receivable.Description = input.Description
		receivable.LinkSource(boleto.ID, boletoNumber)
		boleto.PairWithReceivable(receivable.ID)

		if err := s.receivableRepo.Save(ctx, receivable); err != nil {
			return err
		}
		if err := s.boletoRepo.Save(ctx, boleto); err != nil {
			return err
		}
		return s.recomputeAndSave(ctx, debtor)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("boleto issued",
		zap.String("boleto_number", boleto.BoletoNumber),
		zap.String("amount", input.Amount.StringFixed(2)),
	)
	return boleto, receivable, nil
}

// RegisterBoletoPaymentInput contains input for boleto settlement
type RegisterBoletoPaymentInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	BankAccountID uuid.UUID       `json:"bank_account_id" binding:"required"`
	PaidAt        time.Time       `json:"paid_at"`
}

// RegisterBoletoPayment settles a boleto with the received amount. A
// payment below the face amount closes the boleto at the received
// value and leaves the paired receivable partially paid; the unpaid
// remainder is re-issued as a fresh receivable linked back to the
// boleto, and the debtor's exposure does not shrink until the pair
// settles in full. The received funds are deposited into the bank
// account in the same transaction.
func (s *BoletoService) RegisterBoletoPayment(ctx context.Context, tenantID, boletoID uuid.UUID, input RegisterBoletoPaymentInput) (*ledger.Boleto, *ledger.Receivable, error) {
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	var (
		boleto    *ledger.Boleto
		remainder *ledger.Receivable
	)
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		boleto, err = s.boletoRepo.FindByIDForTenant(ctx, tenantID, boletoID)
		if err != nil {
			return err
		}

		remaining, err := boleto.RegisterPayment(input.Amount, paidAt)
		if err != nil {
			return err
		}
		boleto.AssignBankAccount(input.BankAccountID)
		if err := s.boletoRepo.SaveWithLock(ctx, boleto); err != nil {
			return err
		}

		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, boleto.DebtorID)
		if err != nil {
			return err
		}

		// Apply the received amount to the paired receivable; an
		// underpayment leaves it PARTIAL until the remainder settles
		if boleto.ReceivableID != nil {
			paired, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, *boleto.ReceivableID)
			if err != nil {
				return err
			}
			if err := paired.RegisterPayment(input.Amount, ledger.PaymentMethodBoleto, paidAt); err != nil {
				return err
			}
			paired.AssignBankAccount(input.BankAccountID)
			if err := s.receivableRepo.SaveWithLock(ctx, paired); err != nil {
				return err
			}
		}

		if remaining.IsPositive() {
			number, err := s.receivableRepo.NextNumber(ctx, tenantID)
			if err != nil {
				return err
			}
			remainder, err = ledger.NewReceivable(
				tenantID, number, debtor.ID, debtor.Name,
				ledger.SourceTypeBoletoRemainder, remaining, boleto.DueDate,
			)
			if err != nil {
				return err
			}
			remainder.LinkSource(boleto.ID, boleto.BoletoNumber)
			remainder.Description = "Remainder of partially paid " + boleto.BoletoNumber
			if err := s.receivableRepo.Save(ctx, remainder); err != nil {
				return err
			}
		}

		if err := s.deposit(ctx, tenantID, input.BankAccountID, input.Amount,
			"Boleto "+boleto.BoletoNumber+" payment",
			banking.ReferenceTypeBoleto, boleto.ID, paidAt); err != nil {
			return err
		}

		return s.recomputeAndSave(ctx, debtor)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("boleto paid",
		zap.String("boleto_number", boleto.BoletoNumber),
		zap.String("paid_amount", input.Amount.StringFixed(2)),
		zap.Bool("remainder_issued", remainder != nil),
	)
	return boleto, remainder, nil
}

// CancelBoleto voids an open boleto together with its paired receivable
func (s *BoletoService) CancelBoleto(ctx context.Context, tenantID, boletoID uuid.UUID, reason string) (*ledger.Boleto, error) {
	var boleto *ledger.Boleto
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		boleto, err = s.boletoRepo.FindByIDForTenant(ctx, tenantID, boletoID)
		if err != nil {
			return err
		}
		if err := boleto.Cancel(); err != nil {
			return err
		}
		if err := s.boletoRepo.SaveWithLock(ctx, boleto); err != nil {
			return err
		}

		if boleto.ReceivableID != nil {
			paired, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, *boleto.ReceivableID)
			if err != nil {
				return err
			}
			if err := paired.Cancel(reason); err != nil {
				return err
			}
			if err := s.receivableRepo.SaveWithLock(ctx, paired); err != nil {
				return err
			}
		}

		debtor, err := s.debtorRepo.FindByIDForUpdate(ctx, tenantID, boleto.DebtorID)
		if err != nil {
			return err
		}
		return s.recomputeAndSave(ctx, debtor)
	})
	if err != nil {
		return nil, err
	}
	return boleto, nil
}

// MarkOverdueSweep transitions pending boletos past their due date to
// OVERDUE. Returns the number of boletos transitioned.
func (s *BoletoService) MarkOverdueSweep(ctx context.Context, tenantID uuid.UUID, now time.Time) (int, error) {
	due, err := s.boletoRepo.FindDueBefore(ctx, tenantID, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range due {
		if !b.MarkOverdue(now) {
			continue
		}
		if err := s.boletoRepo.SaveWithLock(ctx, b); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// GetBoleto returns a boleto by ID
func (s *BoletoService) GetBoleto(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Boleto, error) {
	return s.boletoRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListBoletos lists boletos with pagination
func (s *BoletoService) ListBoletos(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Boleto], error) {
	return s.boletoRepo.FindAllForTenant(ctx, tenantID, filter)
}

func (s *BoletoService) deposit(ctx context.Context, tenantID, accountID uuid.UUID, amount decimal.Decimal, description string, refType banking.ReferenceType, refID uuid.UUID, date time.Time) error {
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

func (s *BoletoService) recomputeAndSave(ctx context.Context, debtor *ledger.Debtor) error {
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
