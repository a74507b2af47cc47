package banking

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

// CardSettlementService orchestrates card sale capture and settlement.
// Fees are frozen at capture time from the then-active config; a sale
// settles exactly once, guarded by an idempotency key and a row lock.
type CardSettlementService struct {
	cardTxRepo     banking.CardTransactionRepository
	feeConfigRepo  banking.CardFeeConfigRepository
	accountRepo    banking.BankAccountRepository
	txRepo         banking.TransactionRepository
	receivableRepo ledger.ReceivableRepository
	idempotency    shared.IdempotencyStore
	keyTTL         time.Duration
	txm            shared.TxManager
	logger         *zap.Logger
}

// NewCardSettlementService creates a new CardSettlementService
func NewCardSettlementService(
	cardTxRepo banking.CardTransactionRepository,
	feeConfigRepo banking.CardFeeConfigRepository,
	accountRepo banking.BankAccountRepository,
	txRepo banking.TransactionRepository,
	receivableRepo ledger.ReceivableRepository,
	idempotency shared.IdempotencyStore,
	keyTTL time.Duration,
	txm shared.TxManager,
	logger *zap.Logger,
) *CardSettlementService {
	return &CardSettlementService{
		cardTxRepo:     cardTxRepo,
		feeConfigRepo:  feeConfigRepo,
		accountRepo:    accountRepo,
		txRepo:         txRepo,
		receivableRepo: receivableRepo,
		idempotency:    idempotency,
		keyTTL:         keyTTL,
		txm:            txm,
		logger:         logger,
	}
}

// SetFeeConfigInput contains input for fee configuration
type SetFeeConfigInput struct {
	CardType          string          `json:"card_type" binding:"required"`
	FeePercentage     decimal.Decimal `json:"fee_percentage" binding:"required"`
	SettlementLagDays int             `json:"settlement_lag_days"`
}

// SetFeeConfig replaces the active fee configuration for a card type.
// The previous config is retired in the same transaction, so exactly
// one active config per card type ever exists. Already captured sales
// keep the fee they were priced with.
func (s *CardSettlementService) SetFeeConfig(ctx context.Context, tenantID uuid.UUID, input SetFeeConfigInput) (*banking.CardFeeConfig, error) {
	cfg, err := banking.NewCardFeeConfig(tenantID, banking.CardType(input.CardType), input.FeePercentage, input.SettlementLagDays)
	if err != nil {
		return nil, err
	}

	err = s.txm.InTx(ctx, func(ctx context.Context) error {
		if err := s.feeConfigRepo.DeactivateByCardType(ctx, tenantID, cfg.CardType); err != nil {
			return err
		}
		return s.feeConfigRepo.Save(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card fee config updated",
		zap.String("card_type", input.CardType),
		zap.String("fee_percentage", input.FeePercentage.StringFixed(2)),
		zap.Int("settlement_lag_days", input.SettlementLagDays),
	)
	return cfg, nil
}

// ListFeeConfigs returns every fee configuration of the tenant
func (s *CardSettlementService) ListFeeConfigs(ctx context.Context, tenantID uuid.UUID) ([]*banking.CardFeeConfig, error) {
	return s.feeConfigRepo.FindAllForTenant(ctx, tenantID)
}

// CaptureSaleInput contains input for capturing a card sale
type CaptureSaleInput struct {
	CardType    string          `json:"card_type" binding:"required"`
	GrossAmount decimal.Decimal `json:"gross_amount" binding:"required"`
	SaleDate    time.Time       `json:"sale_date"`
	DebtorID    *uuid.UUID      `json:"debtor_id,omitempty"`
}

// CaptureSale books a card sale as pending settlement. The fee and the
// expected settlement date come from the active config for the card
// type; capture fails with CONFIGURATION_MISSING when none exists.
func (s *CardSettlementService) CaptureSale(ctx context.Context, tenantID uuid.UUID, input CaptureSaleInput) (*banking.CardTransaction, error) {
	cardType := banking.CardType(input.CardType)
	saleDate := input.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	cfg, err := s.feeConfigRepo.FindActiveByCardType(ctx, tenantID, cardType)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewConfigurationMissingError("No active fee configuration for card type " + input.CardType)
		}
		return nil, err
	}

	fee, net := banking.ComputeFee(input.GrossAmount, cfg.FeePercentage)
	expected := banking.ComputeExpectedSettlementDate(saleDate, cfg.SettlementLagDays)

	cardTx, err := banking.NewCardTransaction(tenantID, cardType, input.GrossAmount, cfg.FeePercentage, fee, net, saleDate, expected)
	if err != nil {
		return nil, err
	}
	if input.DebtorID != nil {
		cardTx.LinkDebtor(*input.DebtorID)
	}

	if err := s.cardTxRepo.Save(ctx, cardTx); err != nil {
		return nil, err
	}

	s.logger.Info("card sale captured",
		zap.String("card_transaction_id", cardTx.ID.String()),
		zap.String("gross", input.GrossAmount.StringFixed(2)),
		zap.String("net", net.StringFixed(2)),
		zap.Time("expected_settlement", expected),
	)
	return cardTx, nil
}

// SettleInput contains input for settling a card sale
type SettleInput struct {
	BankAccountID  uuid.UUID `json:"bank_account_id" binding:"required"`
	IdempotencyKey string    `json:"idempotency_key"`
	SettledAt      time.Time `json:"settled_at"`
}

// Settle deposits a card sale's net amount into the bank account and
// marks the sale settled. The operation applies exactly once: a reused
// idempotency key or an already settled sale both fail with
// IDEMPOTENCY_VIOLATION and produce no second deposit.
func (s *CardSettlementService) Settle(ctx context.Context, tenantID, cardTransactionID uuid.UUID, input SettleInput) (*banking.CardTransaction, error) {
	settledAt := input.SettledAt
	if settledAt.IsZero() {
		settledAt = time.Now()
	}

	key := input.IdempotencyKey
	if key == "" {
		key = "card-settle:" + cardTransactionID.String()
	}
	seen, err := s.idempotency.IsProcessed(ctx, key)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, shared.NewIdempotencyViolationError("Settlement key " + key + " was already used")
	}

	var cardTx *banking.CardTransaction
	err = s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		cardTx, err = s.cardTxRepo.FindByIDForUpdate(ctx, tenantID, cardTransactionID)
		if err != nil {
			return err
		}

		account, err := s.accountRepo.FindByIDForUpdate(ctx, tenantID, input.BankAccountID)
		if err != nil {
			return err
		}

		deposit, err := banking.NewTransaction(tenantID, account.ID, banking.TransactionTypeIncome,
			cardTx.NetAmount, "Card settlement "+cardTx.ID.String(),
			banking.ReferenceTypeCardSettlement, settledAt)
		if err != nil {
			return err
		}
		deposit.LinkReference(cardTx.ID)

		if err := cardTx.Settle(account.ID, deposit.ID, settledAt); err != nil {
			return err
		}
		if err := account.Append(deposit); err != nil {
			return err
		}
		if err := s.txRepo.Save(ctx, deposit); err != nil {
			return err
		}
		if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
			return err
		}
		if err := s.cardTxRepo.SaveWithLock(ctx, cardTx); err != nil {
			return err
		}

		if cardTx.ReceivableID != nil {
			receivable, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, *cardTx.ReceivableID)
			if err != nil {
				return err
			}
			receivable.AssignBankAccount(account.ID)
			if err := s.receivableRepo.Save(ctx, receivable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Concurrent settlements of the same sale serialize on the row lock;
	// the loser fails inside the transaction on the SETTLED status. The
	// key is recorded only after the deposit committed.
	if _, err := s.idempotency.MarkProcessed(ctx, key, s.keyTTL); err != nil {
		s.logger.Warn("failed to record settlement idempotency key", zap.String("key", key), zap.Error(err))
	}

	s.logger.Info("card sale settled",
		zap.String("card_transaction_id", cardTransactionID.String()),
		zap.String("net", cardTx.NetAmount.StringFixed(2)),
		zap.String("bank_account_id", input.BankAccountID.String()),
	)
	return cardTx, nil
}

// CancelSale voids a pending card sale
func (s *CardSettlementService) CancelSale(ctx context.Context, tenantID, cardTransactionID uuid.UUID) (*banking.CardTransaction, error) {
	cardTx, err := s.cardTxRepo.FindByIDForTenant(ctx, tenantID, cardTransactionID)
	if err != nil {
		return nil, err
	}
	if err := cardTx.Cancel(); err != nil {
		return nil, err
	}
	if err := s.cardTxRepo.SaveWithLock(ctx, cardTx); err != nil {
		return nil, err
	}
	return cardTx, nil
}

// GetTransaction returns a card transaction by ID
func (s *CardSettlementService) GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*banking.CardTransaction, error) {
	return s.cardTxRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListByStatus lists card transactions in one status with pagination
func (s *CardSettlementService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string, filter shared.Filter) (shared.Paginated[*banking.CardTransaction], error) {
	return s.cardTxRepo.FindByStatusForTenant(ctx, tenantID, banking.CardTransactionStatus(status), filter)
}

// ListDueForSettlement returns pending sales whose expected settlement
// date has arrived
func (s *CardSettlementService) ListDueForSettlement(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*banking.CardTransaction, error) {
	return s.cardTxRepo.FindPendingDueBy(ctx, tenantID, cutoff)
}
