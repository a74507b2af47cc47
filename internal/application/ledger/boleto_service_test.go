package ledger

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

type boletoFixture struct {
	svc            *BoletoService
	debtorRepo     *fakeDebtorRepo
	receivableRepo *fakeReceivableRepo
	boletoRepo     *fakeBoletoRepo
	accountRepo    *fakeBankAccountRepo
	txRepo         *fakeTransactionRepo
	tenantID       uuid.UUID
}

func newBoletoFixture() *boletoFixture {
	f := &boletoFixture{
		debtorRepo:     newFakeDebtorRepo(),
		receivableRepo: newFakeReceivableRepo(),
		boletoRepo:     newFakeBoletoRepo(),
		accountRepo:    newFakeBankAccountRepo(),
		txRepo:         newFakeTransactionRepo(),
		tenantID:       uuid.New(),
	}
	f.svc = NewBoletoService(
		f.debtorRepo, f.receivableRepo, f.boletoRepo,
		f.accountRepo, f.txRepo,
		stubTxManager{}, zap.NewNop(),
	)
	return f
}

func (f *boletoFixture) addDebtor(t *testing.T, limit int64) *ledger.Debtor {
	t.Helper()
	debtor, err := ledger.NewDebtor(f.tenantID, "D-002", "Beta Comercio", ledger.DebtorKindCustomer)
	require.NoError(t, err)
	require.NoError(t, debtor.SetCreditLimit(decimal.NewFromInt(limit)))
	debtor.AvailableCredit = decimal.NewFromInt(limit)
	require.NoError(t, f.debtorRepo.Save(context.Background(), debtor))
	return debtor
}

func (f *boletoFixture) addAccount(t *testing.T) *banking.BankAccount {
	t.Helper()
	account, err := banking.NewBankAccount(f.tenantID, "Operating", "Bradesco", banking.AccountTypeChecking)
	require.NoError(t, err)
	require.NoError(t, f.accountRepo.Save(context.Background(), account))
	return account
}

func TestIssueBoleto(t *testing.T) {
	t.Run("issues boleto with paired receivable counted once", func(t *testing.T) {
		f := newBoletoFixture()
		debtor := f.addDebtor(t, 1000)

		boleto, receivable, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
			DebtorID: debtor.ID,
			Amount:   decimal.NewFromInt(400),
			DueDate:  dueIn(15),
		})
		require.NoError(t, err)

		assert.Equal(t, ledger.BoletoStatusPending, boleto.Status)
		assert.Equal(t, ledger.SourceTypeBoleto, receivable.SourceType)
		require.NotNil(t, boleto.ReceivableID)
		assert.Equal(t, receivable.ID, *boleto.ReceivableID)
		require.NotNil(t, receivable.SourceID)
		assert.Equal(t, boleto.ID, *receivable.SourceID)
		assert.Equal(t, boleto.BoletoNumber, receivable.SourceNumber)

		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(600)),
			"the pair must consume credit once, got %s", debtor.AvailableCredit)
	})

	t.Run("rejects amount above available credit", func(t *testing.T) {
		f := newBoletoFixture()
		debtor := f.addDebtor(t, 300)

		_, _, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
			DebtorID: debtor.ID,
			Amount:   decimal.NewFromInt(400),
			DueDate:  dueIn(15),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeInsufficientCredit, domainErr.Code)
		assert.Empty(t, f.boletoRepo.boletos)
		assert.Empty(t, f.receivableRepo.receivables)
	})
}

func TestRegisterBoletoPayment(t *testing.T) {
	t.Run("full payment settles the pair and deposits the funds", func(t *testing.T) {
		f := newBoletoFixture()
		debtor := f.addDebtor(t, 1000)
		account := f.addAccount(t)

		boleto, receivable, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
			DebtorID: debtor.ID,
			Amount:   decimal.NewFromInt(400),
			DueDate:  dueIn(15),
		})
		require.NoError(t, err)

		boleto, remainder, err := f.svc.RegisterBoletoPayment(context.Background(), f.tenantID, boleto.ID, RegisterBoletoPaymentInput{
			Amount:        decimal.NewFromInt(400),
			BankAccountID: account.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, ledger.BoletoStatusPaid, boleto.Status)
		assert.Nil(t, remainder)
		assert.Equal(t, ledger.ReceivableStatusPaid, receivable.Status)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(400)))
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("partial payment leaves the pair partial and re-issues the remainder", func(t *testing.T) {
		f := newBoletoFixture()
		debtor := f.addDebtor(t, 2000)
		account := f.addAccount(t)

		boleto, receivable, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
			DebtorID: debtor.ID,
			Amount:   decimal.NewFromInt(1335),
			DueDate:  dueIn(15),
		})
		require.NoError(t, err)
		require.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(665)))

		boleto, remainder, err := f.svc.RegisterBoletoPayment(context.Background(), f.tenantID, boleto.ID, RegisterBoletoPaymentInput{
			Amount:        decimal.NewFromInt(1200),
			BankAccountID: account.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, ledger.BoletoStatusPaid, boleto.Status)
		assert.True(t, boleto.PaidAmount.Equal(decimal.NewFromInt(1200)))
		assert.Equal(t, ledger.ReceivableStatusPartial, receivable.Status)
		assert.True(t, receivable.PaidAmount.Equal(decimal.NewFromInt(1200)))

		require.NotNil(t, remainder)
		assert.Equal(t, ledger.SourceTypeBoletoRemainder, remainder.SourceType)
		assert.True(t, remainder.Amount.Equal(decimal.NewFromInt(135)))
		assert.Equal(t, ledger.ReceivableStatusPending, remainder.Status)
		require.NotNil(t, remainder.SourceID)
		assert.Equal(t, boleto.ID, *remainder.SourceID)

		// only the cash actually received hits the bank
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(1200)))

		// exposure does not shrink until the pair settles in full
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(665)),
			"expected 665 available, got %s", debtor.AvailableCredit)
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		f := newBoletoFixture()
		debtor := f.addDebtor(t, 1000)
		account := f.addAccount(t)

		boleto, _, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
			DebtorID: debtor.ID,
			Amount:   decimal.NewFromInt(400),
			DueDate:  dueIn(15),
		})
		require.NoError(t, err)

		_, _, err = f.svc.RegisterBoletoPayment(context.Background(), f.tenantID, boleto.ID, RegisterBoletoPaymentInput{
			Amount:        decimal.NewFromInt(500),
			BankAccountID: account.ID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeValidation, domainErr.Code)
	})

	t.Run("second payment on a settled boleto is rejected", func(t *testing.T) {
		f := newBoletoFixture()
		debtor := f.addDebtor(t, 1000)
		account := f.addAccount(t)

		boleto, _, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
			DebtorID: debtor.ID,
			Amount:   decimal.NewFromInt(400),
			DueDate:  dueIn(15),
		})
		require.NoError(t, err)

		_, _, err = f.svc.RegisterBoletoPayment(context.Background(), f.tenantID, boleto.ID, RegisterBoletoPaymentInput{
			Amount:        decimal.NewFromInt(400),
			BankAccountID: account.ID,
		})
		require.NoError(t, err)

		_, _, err = f.svc.RegisterBoletoPayment(context.Background(), f.tenantID, boleto.ID, RegisterBoletoPaymentInput{
			Amount:        decimal.NewFromInt(400),
			BankAccountID: account.ID,
		})
		require.Error(t, err)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(400)),
			"the rejected payment must not produce a second deposit")
	})
}

func TestCancelBoleto(t *testing.T) {
	f := newBoletoFixture()
	debtor := f.addDebtor(t, 1000)

	boleto, receivable, err := f.svc.IssueBoleto(context.Background(), f.tenantID, IssueBoletoInput{
		DebtorID: debtor.ID,
		Amount:   decimal.NewFromInt(400),
		DueDate:  dueIn(15),
	})
	require.NoError(t, err)
	require.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(600)))

	boleto, err = f.svc.CancelBoleto(context.Background(), f.tenantID, boleto.ID, "issued in error")
	require.NoError(t, err)

	assert.Equal(t, ledger.BoletoStatusCancelled, boleto.Status)
	assert.Equal(t, ledger.ReceivableStatusCancelled, receivable.Status)
	assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(1000)),
		"cancellation must release the pair's exposure")
}

func TestBoletoMarkOverdueSweep(t *testing.T) {
	f := newBoletoFixture()
	debtor := f.addDebtor(t, 10000)

	past, err := ledger.NewBoleto(f.tenantID, "BOL-P1", debtor.ID, decimal.NewFromInt(100), dueIn(-3))
	require.NoError(t, err)
	future, err := ledger.NewBoleto(f.tenantID, "BOL-F1", debtor.ID, decimal.NewFromInt(200), dueIn(3))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, f.boletoRepo.Save(ctx, past))
	require.NoError(t, f.boletoRepo.Save(ctx, future))

	count, err := f.svc.MarkOverdueSweep(ctx, f.tenantID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, ledger.BoletoStatusOverdue, past.Status)
	assert.Equal(t, ledger.BoletoStatusPending, future.Status)
}
