package banking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory fakes over the repository interfaces. Locking and
// versioning are no-ops; those paths are covered by the sqlmock tests
// in the persistence package.

type stubTxManager struct{}

func (stubTxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBankAccountRepo struct {
	accounts map[uuid.UUID]*banking.BankAccount
}

func newFakeBankAccountRepo() *fakeBankAccountRepo {
	return &fakeBankAccountRepo{accounts: make(map[uuid.UUID]*banking.BankAccount)}
}

func (r *fakeBankAccountRepo) Save(_ context.Context, a *banking.BankAccount) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeBankAccountRepo) SaveWithLock(_ context.Context, a *banking.BankAccount) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeBankAccountRepo) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*banking.BankAccount, error) {
	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBankAccountRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *fakeBankAccountRepo) FindAllForTenant(_ context.Context, _ uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.BankAccount], error) {
	items := make([]*banking.BankAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		items = append(items, a)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

type fakeTransactionRepo struct {
	order []uuid.UUID
	txs   map[uuid.UUID]*banking.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[uuid.UUID]*banking.Transaction)}
}

func (r *fakeTransactionRepo) Save(_ context.Context, tx *banking.Transaction) error {
	if _, ok := r.txs[tx.ID]; !ok {
		r.order = append(r.order, tx.ID)
	}
	r.txs[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*banking.Transaction, error) {
	if tx, ok := r.txs[id]; ok {
		return tx, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) FindByAccount(_ context.Context, _, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.Transaction], error) {
	items := r.byAccount(accountID)
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeTransactionRepo) FindByAccountSince(_ context.Context, _, accountID uuid.UUID, since time.Time) ([]*banking.Transaction, error) {
	var out []*banking.Transaction
	for _, tx := range r.byAccount(accountID) {
		if !tx.CreatedAt.Before(since) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByAccountBetween(_ context.Context, _, accountID uuid.UUID, from, to time.Time) ([]*banking.Transaction, error) {
	var out []*banking.Transaction
	for _, tx := range r.byAccount(accountID) {
		if !tx.TransactionDate.Before(from) && !tx.TransactionDate.After(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) SumByAccount(_ context.Context, _, accountID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.byAccount(accountID) {
		sum = sum.Add(tx.SignedAmount())
	}
	return sum, nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	if _, ok := r.txs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.txs, id)
	return nil
}

func (r *fakeTransactionRepo) byAccount(accountID uuid.UUID) []*banking.Transaction {
	var out []*banking.Transaction
	for _, id := range r.order {
		tx, ok := r.txs[id]
		if ok && tx.BankAccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

type fakeCardTransactionRepo struct {
	txs map[uuid.UUID]*banking.CardTransaction
}

func newFakeCardTransactionRepo() *fakeCardTransactionRepo {
	return &fakeCardTransactionRepo{txs: make(map[uuid.UUID]*banking.CardTransaction)}
}

func (r *fakeCardTransactionRepo) Save(_ context.Context, tx *banking.CardTransaction) error {
	r.txs[tx.ID] = tx
	return nil
}

func (r *fakeCardTransactionRepo) SaveWithLock(_ context.Context, tx *banking.CardTransaction) error {
	r.txs[tx.ID] = tx
	return nil
}

func (r *fakeCardTransactionRepo) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*banking.CardTransaction, error) {
	if tx, ok := r.txs[id]; ok {
		return tx, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCardTransactionRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*banking.CardTransaction, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *fakeCardTransactionRepo) FindByStatusForTenant(_ context.Context, _ uuid.UUID, status banking.CardTransactionStatus, filter shared.Filter) (shared.Paginated[*banking.CardTransaction], error) {
	var items []*banking.CardTransaction
	for _, tx := range r.txs {
		if tx.Status == status {
			items = append(items, tx)
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeCardTransactionRepo) FindPendingDueBy(_ context.Context, _ uuid.UUID, cutoff time.Time) ([]*banking.CardTransaction, error) {
	var due []*banking.CardTransaction
	for _, tx := range r.txs {
		if tx.Status == banking.CardTransactionStatusPending && !tx.ExpectedSettlementDate.After(cutoff) {
			due = append(due, tx)
		}
	}
	return due, nil
}

type fakeCardFeeConfigRepo struct {
	configs []*banking.CardFeeConfig
}

func newFakeCardFeeConfigRepo() *fakeCardFeeConfigRepo {
	return &fakeCardFeeConfigRepo{}
}

func (r *fakeCardFeeConfigRepo) Save(_ context.Context, cfg *banking.CardFeeConfig) error {
	r.configs = append(r.configs, cfg)
	return nil
}

func (r *fakeCardFeeConfigRepo) FindActiveByCardType(_ context.Context, _ uuid.UUID, cardType banking.CardType) (*banking.CardFeeConfig, error) {
	for i := len(r.configs) - 1; i >= 0; i-- {
		if r.configs[i].CardType == cardType && r.configs[i].IsActive {
			return r.configs[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCardFeeConfigRepo) FindAllForTenant(_ context.Context, _ uuid.UUID) ([]*banking.CardFeeConfig, error) {
	return r.configs, nil
}

func (r *fakeCardFeeConfigRepo) DeactivateByCardType(_ context.Context, _ uuid.UUID, cardType banking.CardType) error {
	for _, cfg := range r.configs {
		if cfg.CardType == cardType && cfg.IsActive {
			cfg.Deactivate()
		}
	}
	return nil
}

type fakeReceivableRepo struct {
	receivables map[uuid.UUID]*ledger.Receivable
	seq         int
}

func newFakeReceivableRepo() *fakeReceivableRepo {
	return &fakeReceivableRepo{receivables: make(map[uuid.UUID]*ledger.Receivable)}
}

func (r *fakeReceivableRepo) Save(_ context.Context, rec *ledger.Receivable) error {
	r.receivables[rec.ID] = rec
	return nil
}

func (r *fakeReceivableRepo) SaveWithLock(_ context.Context, rec *ledger.Receivable) error {
	r.receivables[rec.ID] = rec
	return nil
}

func (r *fakeReceivableRepo) FindByIDForTenant(_ context.Context, _, id uuid.UUID) (*ledger.Receivable, error) {
	if rec, ok := r.receivables[id]; ok {
		return rec, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeReceivableRepo) FindByNumberForTenant(_ context.Context, _ uuid.UUID, number string) (*ledger.Receivable, error) {
	for _, rec := range r.receivables {
		if rec.ReceivableNumber == number {
			return rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeReceivableRepo) FindAllForTenant(_ context.Context, _ uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Receivable], error) {
	items := make([]*ledger.Receivable, 0, len(r.receivables))
	for _, rec := range r.receivables {
		items = append(items, rec)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeReceivableRepo) FindOpenByDebtor(_ context.Context, _, debtorID uuid.UUID) ([]*ledger.Receivable, error) {
	var open []*ledger.Receivable
	for _, rec := range r.receivables {
		if rec.DebtorID == debtorID && rec.IsOpen() {
			open = append(open, rec)
		}
	}
	return open, nil
}

func (r *fakeReceivableRepo) FindDueBefore(_ context.Context, _ uuid.UUID, cutoff time.Time) ([]*ledger.Receivable, error) {
	var due []*ledger.Receivable
	for _, rec := range r.receivables {
		if rec.Status == ledger.ReceivableStatusPending && rec.DueDate.Before(cutoff) {
			due = append(due, rec)
		}
	}
	return due, nil
}

func (r *fakeReceivableRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	if _, ok := r.receivables[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.receivables, id)
	return nil
}

func (r *fakeReceivableRepo) NextNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("REC-%05d", r.seq), nil
}

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }
