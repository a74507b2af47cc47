package ledger

import (
	"context"
	"errors"
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

type receivableFixture struct {
	svc            *ReceivableService
	debtorRepo     *fakeDebtorRepo
	receivableRepo *fakeReceivableRepo
	boletoRepo     *fakeBoletoRepo
	accountRepo    *fakeBankAccountRepo
	txRepo         *fakeTransactionRepo
	cardTxRepo     *fakeCardTransactionRepo
	feeConfigRepo  *fakeCardFeeConfigRepo
	tenantID       uuid.UUID
}

func newReceivableFixture() *receivableFixture {
	f := &receivableFixture{
		debtorRepo:     newFakeDebtorRepo(),
		receivableRepo: newFakeReceivableRepo(),
		boletoRepo:     newFakeBoletoRepo(),
		accountRepo:    newFakeBankAccountRepo(),
		txRepo:         newFakeTransactionRepo(),
		cardTxRepo:     newFakeCardTransactionRepo(),
		feeConfigRepo:  newFakeCardFeeConfigRepo(),
		tenantID:       uuid.New(),
	}
	f.svc = NewReceivableService(
		f.debtorRepo, f.receivableRepo, f.boletoRepo,
		f.accountRepo, f.txRepo, f.cardTxRepo, f.feeConfigRepo,
		stubTxManager{}, zap.NewNop(),
	)
	return f
}

func (f *receivableFixture) addDebtor(t *testing.T, limit int64) *ledger.Debtor {
	t.Helper()
	debtor, err := ledger.NewDebtor(f.tenantID, "D-001", "Acme Ltda", ledger.DebtorKindCustomer)
	require.NoError(t, err)
	require.NoError(t, debtor.SetCreditLimit(decimal.NewFromInt(limit)))
	debtor.AvailableCredit = decimal.NewFromInt(limit)
	require.NoError(t, f.debtorRepo.Save(context.Background(), debtor))
	return debtor
}

func (f *receivableFixture) addAccount(t *testing.T) *banking.BankAccount {
	t.Helper()
	account, err := banking.NewBankAccount(f.tenantID, "Operating", "Itau", banking.AccountTypeChecking)
	require.NoError(t, err)
	require.NoError(t, f.accountRepo.Save(context.Background(), account))
	return account
}

func dueIn(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}

func TestCreateReceivable(t *testing.T) {
	t.Run("books sale and reduces available credit", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)

		receivable, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(400),
			DueDate:    dueIn(30),
		})

		require.NoError(t, err)
		assert.Equal(t, ledger.ReceivableStatusPending, receivable.Status)
		assert.NotEmpty(t, receivable.ReceivableNumber)
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(600)),
			"available credit should drop by the booked amount, got %s", debtor.AvailableCredit)
	})

	t.Run("rejects amount above available credit", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)

		_, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(1500),
			DueDate:    dueIn(30),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeInsufficientCredit, domainErr.Code)
		assert.Empty(t, f.receivableRepo.receivables)
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("rejects debtor without credit line", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 0)

		_, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(10),
			DueDate:    dueIn(30),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeInsufficientCredit, domainErr.Code)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("partial payments accumulate until paid", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)
		account := f.addAccount(t)

		receivable, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(500),
			DueDate:    dueIn(30),
		})
		require.NoError(t, err)

		receivable, err = f.svc.RecordPayment(context.Background(), f.tenantID, receivable.ID, RecordPaymentInput{
			Amount:        decimal.NewFromInt(200),
			Method:        string(ledger.PaymentMethodPix),
			BankAccountID: &account.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, ledger.ReceivableStatusPartial, receivable.Status)
		assert.True(t, receivable.OutstandingAmount().Equal(decimal.NewFromInt(300)))
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(500)),
			"the full amount counts as exposure until the receivable settles")

		receivable, err = f.svc.RecordPayment(context.Background(), f.tenantID, receivable.ID, RecordPaymentInput{
			Amount:        decimal.NewFromInt(300),
			Method:        string(ledger.PaymentMethodPix),
			BankAccountID: &account.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, ledger.ReceivableStatusPaid, receivable.Status)
		require.NotNil(t, receivable.PaidAt)
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(1000)))

		assert.True(t, account.Balance.Equal(decimal.NewFromInt(500)),
			"both deposits should have landed on the account")
	})

	t.Run("paying a boleto remainder settles the original receivable", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 2000)
		account := f.addAccount(t)
		ctx := context.Background()

		boleto, err := ledger.NewBoleto(f.tenantID, "BOL-9", debtor.ID, decimal.NewFromInt(1335), dueIn(15))
		require.NoError(t, err)
		parent, err := ledger.NewReceivable(f.tenantID, "REC-9", debtor.ID, debtor.Name,
			ledger.SourceTypeBoleto, decimal.NewFromInt(1335), dueIn(15))
		require.NoError(t, err)
		parent.LinkSource(boleto.ID, boleto.BoletoNumber)
		boleto.PairWithReceivable(parent.ID)

		_, err = boleto.RegisterPayment(decimal.NewFromInt(1200), time.Now())
		require.NoError(t, err)
		require.NoError(t, parent.RegisterPayment(decimal.NewFromInt(1200), ledger.PaymentMethodBoleto, time.Now()))

		remainder, err := ledger.NewReceivable(f.tenantID, "REC-10", debtor.ID, debtor.Name,
			ledger.SourceTypeBoletoRemainder, decimal.NewFromInt(135), dueIn(15))
		require.NoError(t, err)
		remainder.LinkSource(boleto.ID, boleto.BoletoNumber)

		require.NoError(t, f.boletoRepo.Save(ctx, boleto))
		require.NoError(t, f.receivableRepo.Save(ctx, parent))
		require.NoError(t, f.receivableRepo.Save(ctx, remainder))

		remainder, err = f.svc.RecordPayment(ctx, f.tenantID, remainder.ID, RecordPaymentInput{
			Amount:        decimal.NewFromInt(135),
			Method:        string(ledger.PaymentMethodPix),
			BankAccountID: &account.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, ledger.ReceivableStatusPaid, remainder.Status)
		assert.Equal(t, ledger.ReceivableStatusPaid, parent.Status,
			"the remainder payment must flow back to the split receivable")
		assert.True(t, parent.PaidAmount.Equal(decimal.NewFromInt(1335)))
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(2000)),
			"full settlement must release the whole exposure, got %s", debtor.AvailableCredit)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(135)))
	})

	t.Run("cash-like payment requires a bank account", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)

		receivable, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeManual),
			Amount:     decimal.NewFromInt(100),
			DueDate:    dueIn(10),
		})
		require.NoError(t, err)

		_, err = f.svc.RecordPayment(context.Background(), f.tenantID, receivable.ID, RecordPaymentInput{
			Amount: decimal.NewFromInt(100),
			Method: string(ledger.PaymentMethodCash),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeValidation, domainErr.Code)
	})

	t.Run("boleto method is rejected on receivables", func(t *testing.T) {
		f := newReceivableFixture()

		_, err := f.svc.RecordPayment(context.Background(), f.tenantID, uuid.New(), RecordPaymentInput{
			Amount: decimal.NewFromInt(100),
			Method: string(ledger.PaymentMethodBoleto),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeValidation, domainErr.Code)
	})

	t.Run("card payment captures a pending settlement with frozen fee", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)

		cfg, err := banking.NewCardFeeConfig(f.tenantID, banking.CardTypeCredit, decimal.NewFromFloat(3.5), 2)
		require.NoError(t, err)
		require.NoError(t, f.feeConfigRepo.Save(context.Background(), cfg))

		receivable, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(500),
			DueDate:    dueIn(30),
		})
		require.NoError(t, err)

		receivable, err = f.svc.RecordPayment(context.Background(), f.tenantID, receivable.ID, RecordPaymentInput{
			Amount:   decimal.NewFromInt(500),
			Method:   string(ledger.PaymentMethodCard),
			CardType: string(banking.CardTypeCredit),
		})
		require.NoError(t, err)

		assert.Equal(t, ledger.ReceivableStatusPaid, receivable.Status)
		require.NotNil(t, receivable.NetAmount)
		assert.True(t, receivable.NetAmount.Equal(decimal.NewFromFloat(482.50)))

		require.Len(t, f.cardTxRepo.txs, 1)
		for _, cardTx := range f.cardTxRepo.txs {
			assert.Equal(t, banking.CardTransactionStatusPending, cardTx.Status)
			assert.True(t, cardTx.FeeAmount.Equal(decimal.NewFromFloat(17.50)))
			assert.True(t, cardTx.NetAmount.Equal(decimal.NewFromFloat(482.50)))
			require.NotNil(t, cardTx.ReceivableID)
			assert.Equal(t, receivable.ID, *cardTx.ReceivableID)
		}

		// no deposit until the acquirer settles
		assert.Empty(t, f.txRepo.txs)
	})

	t.Run("card payment without fee config fails", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)

		receivable, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(500),
			DueDate:    dueIn(30),
		})
		require.NoError(t, err)

		_, err = f.svc.RecordPayment(context.Background(), f.tenantID, receivable.ID, RecordPaymentInput{
			Amount:   decimal.NewFromInt(500),
			Method:   string(ledger.PaymentMethodCard),
			CardType: string(banking.CardTypeDebit),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeConfigurationMissing, domainErr.Code)
	})
}

func TestDeleteReceivable(t *testing.T) {
	t.Run("deleting a paid receivable restores credit clamped to the limit", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 500)
		debtor.AvailableCredit = decimal.NewFromInt(200)

		receivable, err := ledger.NewReceivable(f.tenantID, "REC-PAID", debtor.ID, debtor.Name,
			ledger.SourceTypeSalesOrder, decimal.NewFromInt(800), dueIn(-10))
		require.NoError(t, err)
		require.NoError(t, receivable.RegisterPayment(decimal.NewFromInt(800), ledger.PaymentMethodCash, time.Now()))
		require.NoError(t, f.receivableRepo.Save(context.Background(), receivable))

		require.NoError(t, f.svc.DeleteReceivable(context.Background(), f.tenantID, receivable.ID))

		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(500)),
			"restore must clamp at the current limit, got %s", debtor.AvailableCredit)
		assert.Empty(t, f.receivableRepo.receivables)
	})

	t.Run("deleting an open receivable releases its exposure", func(t *testing.T) {
		f := newReceivableFixture()
		debtor := f.addDebtor(t, 1000)

		receivable, err := f.svc.CreateReceivable(context.Background(), f.tenantID, CreateReceivableInput{
			DebtorID:   debtor.ID,
			SourceType: string(ledger.SourceTypeSalesOrder),
			Amount:     decimal.NewFromInt(300),
			DueDate:    dueIn(30),
		})
		require.NoError(t, err)
		require.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(700)))

		require.NoError(t, f.svc.DeleteReceivable(context.Background(), f.tenantID, receivable.ID))
		assert.True(t, debtor.AvailableCredit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("unknown receivable", func(t *testing.T) {
		f := newReceivableFixture()
		err := f.svc.DeleteReceivable(context.Background(), f.tenantID, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestMarkOverdueSweep(t *testing.T) {
	f := newReceivableFixture()
	debtor := f.addDebtor(t, 10000)

	past1, err := ledger.NewReceivable(f.tenantID, "REC-P1", debtor.ID, debtor.Name,
		ledger.SourceTypeSalesOrder, decimal.NewFromInt(100), dueIn(-5))
	require.NoError(t, err)
	past2, err := ledger.NewReceivable(f.tenantID, "REC-P2", debtor.ID, debtor.Name,
		ledger.SourceTypeSalesOrder, decimal.NewFromInt(200), dueIn(-1))
	require.NoError(t, err)
	future, err := ledger.NewReceivable(f.tenantID, "REC-F1", debtor.ID, debtor.Name,
		ledger.SourceTypeSalesOrder, decimal.NewFromInt(300), dueIn(5))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, f.receivableRepo.Save(ctx, past1))
	require.NoError(t, f.receivableRepo.Save(ctx, past2))
	require.NoError(t, f.receivableRepo.Save(ctx, future))

	count, err := f.svc.MarkOverdueSweep(ctx, f.tenantID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, ledger.ReceivableStatusOverdue, past1.Status)
	assert.Equal(t, ledger.ReceivableStatusOverdue, past2.Status)
	assert.Equal(t, ledger.ReceivableStatusPending, future.Status)

	// the sweep is idempotent
	count, err = f.svc.MarkOverdueSweep(ctx, f.tenantID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
