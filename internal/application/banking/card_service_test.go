package banking

import (
	"context"
	"testing"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cardFixture struct {
	svc            *CardSettlementService
	cardTxRepo     *fakeCardTransactionRepo
	feeConfigRepo  *fakeCardFeeConfigRepo
	accountRepo    *fakeBankAccountRepo
	txRepo         *fakeTransactionRepo
	receivableRepo *fakeReceivableRepo
	idempotency    *fakeIdempotencyStore
	tenantID       uuid.UUID
}

func newCardFixture() *cardFixture {
	f := &cardFixture{
		cardTxRepo:     newFakeCardTransactionRepo(),
		feeConfigRepo:  newFakeCardFeeConfigRepo(),
		accountRepo:    newFakeBankAccountRepo(),
		txRepo:         newFakeTransactionRepo(),
		receivableRepo: newFakeReceivableRepo(),
		idempotency:    newFakeIdempotencyStore(),
		tenantID:       uuid.New(),
	}
	f.svc = NewCardSettlementService(
		f.cardTxRepo, f.feeConfigRepo, f.accountRepo, f.txRepo, f.receivableRepo,
		f.idempotency, 24*time.Hour,
		stubTxManager{}, zap.NewNop(),
	)
	return f
}

func (f *cardFixture) setFeeConfig(t *testing.T, cardType string, pct float64, lagDays int) *banking.CardFeeConfig {
	t.Helper()
	cfg, err := f.svc.SetFeeConfig(context.Background(), f.tenantID, SetFeeConfigInput{
		CardType:          cardType,
		FeePercentage:     decimal.NewFromFloat(pct),
		SettlementLagDays: lagDays,
	})
	require.NoError(t, err)
	return cfg
}

func (f *cardFixture) addAccount(t *testing.T) *banking.BankAccount {
	t.Helper()
	account, err := banking.NewBankAccount(f.tenantID, "Settlement", "Cielo", banking.AccountTypePayment)
	require.NoError(t, err)
	require.NoError(t, f.accountRepo.Save(context.Background(), account))
	return account
}

func TestSetFeeConfig(t *testing.T) {
	f := newCardFixture()

	first := f.setFeeConfig(t, string(banking.CardTypeCredit), 3.5, 30)
	second := f.setFeeConfig(t, string(banking.CardTypeCredit), 2.9, 30)

	assert.False(t, first.IsActive, "replaced config must be retired")
	assert.True(t, second.IsActive)

	active, err := f.feeConfigRepo.FindActiveByCardType(context.Background(), f.tenantID, banking.CardTypeCredit)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestCaptureSale(t *testing.T) {
	t.Run("freezes fee and computes the settlement date", func(t *testing.T) {
		f := newCardFixture()
		f.setFeeConfig(t, string(banking.CardTypeCredit), 2.5, 1)

		// Friday sale with one day of lag lands on Saturday; the
		// expected date rolls to Monday
		saleDate := time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC)

		cardTx, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeCredit),
			GrossAmount: decimal.NewFromInt(250),
			SaleDate:    saleDate,
		})
		require.NoError(t, err)

		assert.Equal(t, banking.CardTransactionStatusPending, cardTx.Status)
		assert.True(t, cardTx.FeeAmount.Equal(decimal.NewFromFloat(6.25)))
		assert.True(t, cardTx.NetAmount.Equal(decimal.NewFromFloat(243.75)))
		assert.Equal(t, time.Monday, cardTx.ExpectedSettlementDate.Weekday())
		assert.Equal(t, 12, cardTx.ExpectedSettlementDate.Day())
	})

	t.Run("later config change never reprices a captured sale", func(t *testing.T) {
		f := newCardFixture()
		f.setFeeConfig(t, string(banking.CardTypeDebit), 1.5, 1)

		cardTx, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeDebit),
			GrossAmount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		require.True(t, cardTx.FeeAmount.Equal(decimal.NewFromFloat(1.50)))

		f.setFeeConfig(t, string(banking.CardTypeDebit), 5.0, 1)

		assert.True(t, cardTx.FeeAmount.Equal(decimal.NewFromFloat(1.50)))
		assert.True(t, cardTx.FeePercentage.Equal(decimal.NewFromFloat(1.5)))
	})

	t.Run("fails without an active fee config", func(t *testing.T) {
		f := newCardFixture()

		_, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeCredit),
			GrossAmount: decimal.NewFromInt(100),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeConfigurationMissing, domainErr.Code)
	})
}

func TestSettle(t *testing.T) {
	t.Run("deposits the net amount exactly once", func(t *testing.T) {
		f := newCardFixture()
		f.setFeeConfig(t, string(banking.CardTypeCredit), 3.5, 1)
		account := f.addAccount(t)

		cardTx, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeCredit),
			GrossAmount: decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		settled, err := f.svc.Settle(context.Background(), f.tenantID, cardTx.ID, SettleInput{
			BankAccountID:  account.ID,
			IdempotencyKey: "settle-batch-42",
		})
		require.NoError(t, err)

		assert.Equal(t, banking.CardTransactionStatusSettled, settled.Status)
		require.NotNil(t, settled.BankAccountID)
		assert.Equal(t, account.ID, *settled.BankAccountID)
		assert.True(t, account.Balance.Equal(decimal.NewFromFloat(482.50)),
			"the net amount lands, not the gross")
		require.Len(t, f.txRepo.txs, 1)
		for _, tx := range f.txRepo.txs {
			assert.Equal(t, banking.ReferenceTypeCardSettlement, tx.ReferenceType)
		}

		_, err = f.svc.Settle(context.Background(), f.tenantID, cardTx.ID, SettleInput{
			BankAccountID:  account.ID,
			IdempotencyKey: "settle-batch-42",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeIdempotencyViolation, domainErr.Code)
		assert.True(t, account.Balance.Equal(decimal.NewFromFloat(482.50)),
			"the repeated call must not produce a second deposit")
		assert.Len(t, f.txRepo.txs, 1)
	})

	t.Run("retry with a fresh key fails on the settled status", func(t *testing.T) {
		f := newCardFixture()
		f.setFeeConfig(t, string(banking.CardTypeDebit), 1.0, 1)
		account := f.addAccount(t)

		cardTx, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeDebit),
			GrossAmount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)

		_, err = f.svc.Settle(context.Background(), f.tenantID, cardTx.ID, SettleInput{
			BankAccountID:  account.ID,
			IdempotencyKey: "key-one",
		})
		require.NoError(t, err)

		_, err = f.svc.Settle(context.Background(), f.tenantID, cardTx.ID, SettleInput{
			BankAccountID:  account.ID,
			IdempotencyKey: "key-two",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeIdempotencyViolation, domainErr.Code)
		assert.Len(t, f.txRepo.txs, 1)
	})

	t.Run("settlement assigns the bank account on the linked receivable", func(t *testing.T) {
		f := newCardFixture()
		f.setFeeConfig(t, string(banking.CardTypeCredit), 2.0, 1)
		account := f.addAccount(t)

		debtorID := uuid.New()
		receivable, err := ledger.NewReceivable(f.tenantID, "REC-CARD", debtorID, "Acme",
			ledger.SourceTypeSalesOrder, decimal.NewFromInt(300), time.Now().AddDate(0, 1, 0))
		require.NoError(t, err)
		require.NoError(t, f.receivableRepo.Save(context.Background(), receivable))

		cardTx, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeCredit),
			GrossAmount: decimal.NewFromInt(300),
			DebtorID:    &debtorID,
		})
		require.NoError(t, err)
		cardTx.LinkReceivable(receivable.ID)
		require.NoError(t, f.cardTxRepo.Save(context.Background(), cardTx))

		_, err = f.svc.Settle(context.Background(), f.tenantID, cardTx.ID, SettleInput{
			BankAccountID: account.ID,
		})
		require.NoError(t, err)

		require.NotNil(t, receivable.BankAccountID)
		assert.Equal(t, account.ID, *receivable.BankAccountID)
	})

	t.Run("cancelled sale cannot settle", func(t *testing.T) {
		f := newCardFixture()
		f.setFeeConfig(t, string(banking.CardTypeCredit), 2.0, 1)
		account := f.addAccount(t)

		cardTx, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
			CardType:    string(banking.CardTypeCredit),
			GrossAmount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)

		_, err = f.svc.CancelSale(context.Background(), f.tenantID, cardTx.ID)
		require.NoError(t, err)

		_, err = f.svc.Settle(context.Background(), f.tenantID, cardTx.ID, SettleInput{
			BankAccountID: account.ID,
		})
		require.Error(t, err)
		assert.Empty(t, f.txRepo.txs)
	})
}

func TestListDueForSettlement(t *testing.T) {
	f := newCardFixture()
	f.setFeeConfig(t, string(banking.CardTypeCredit), 2.0, 1)

	past, err := f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
		CardType:    string(banking.CardTypeCredit),
		GrossAmount: decimal.NewFromInt(100),
		SaleDate:    time.Now().AddDate(0, 0, -10),
	})
	require.NoError(t, err)

	_, err = f.svc.CaptureSale(context.Background(), f.tenantID, CaptureSaleInput{
		CardType:    string(banking.CardTypeCredit),
		GrossAmount: decimal.NewFromInt(200),
		SaleDate:    time.Now().AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	due, err := f.svc.ListDueForSettlement(context.Background(), f.tenantID, time.Now())
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, past.ID, due[0].ID)
}
