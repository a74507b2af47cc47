package banking

import (
	"context"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountRepository defines the persistence interface for bank accounts
type BankAccountRepository interface {
	Save(ctx context.Context, account *BankAccount) error
	SaveWithLock(ctx context.Context, account *BankAccount) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankAccount, error)
	// FindByIDForUpdate locks the account row for the duration of the
	// surrounding transaction. Only meaningful inside TxManager.InTx.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*BankAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*BankAccount], error)
}

// TransactionRepository defines the persistence interface for bank
// account ledger entries
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[*Transaction], error)
	// FindByAccountSince returns entries appended at or after the given
	// point, in append order. Used to rebuild BalanceAfter snapshots
	// after a reversal.
	FindByAccountSince(ctx context.Context, tenantID, accountID uuid.UUID, since time.Time) ([]*Transaction, error)
	// FindByAccountBetween returns entries dated within the window, in
	// append order. Used for reconciliation candidate matching.
	FindByAccountBetween(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]*Transaction, error)
	// SumByAccount returns the signed sum of all entries of the account
	SumByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CardTransactionRepository defines the persistence interface for card sales
type CardTransactionRepository interface {
	Save(ctx context.Context, tx *CardTransaction) error
	SaveWithLock(ctx context.Context, tx *CardTransaction) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CardTransaction, error)
	// FindByIDForUpdate locks the row so concurrent settlement attempts
	// serialize. Only meaningful inside TxManager.InTx.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*CardTransaction, error)
	FindByStatusForTenant(ctx context.Context, tenantID uuid.UUID, status CardTransactionStatus, filter shared.Filter) (shared.Paginated[*CardTransaction], error)
	FindPendingDueBy(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*CardTransaction, error)
}

// CardFeeConfigRepository defines the persistence interface for card fee
// configurations
type CardFeeConfigRepository interface {
	Save(ctx context.Context, cfg *CardFeeConfig) error
	FindActiveByCardType(ctx context.Context, tenantID uuid.UUID, cardType CardType) (*CardFeeConfig, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*CardFeeConfig, error)
	// DeactivateByCardType retires any active config for the card type;
	// called in the same transaction that saves the replacement
	DeactivateByCardType(ctx context.Context, tenantID uuid.UUID, cardType CardType) error
}
