package banking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *BankAccount {
	t.Helper()
	a, err := NewBankAccount(uuid.New(), "Conta Movimento", "Itaú", AccountTypeChecking)
	require.NoError(t, err)
	return a
}

func newTestTx(t *testing.T, a *BankAccount, txType TransactionType, amount float64) *Transaction {
	t.Helper()
	tx, err := NewTransaction(a.TenantID, a.ID, txType, decimal.NewFromFloat(amount),
		"test entry", ReferenceTypeManual, time.Now())
	require.NoError(t, err)
	return tx
}

func TestBankAccount_Append(t *testing.T) {
	t.Run("income advances balance and stamps snapshot", func(t *testing.T) {
		a := newTestAccount(t)

		tx1 := newTestTx(t, a, TransactionTypeIncome, 1000)
		require.NoError(t, a.Append(tx1))
		assert.Equal(t, "1000.00", a.Balance.StringFixed(2))
		assert.Equal(t, "1000.00", tx1.BalanceAfter.StringFixed(2))

		tx2 := newTestTx(t, a, TransactionTypeExpense, 250.50)
		require.NoError(t, a.Append(tx2))
		assert.Equal(t, "749.50", a.Balance.StringFixed(2))
		assert.Equal(t, "749.50", tx2.BalanceAfter.StringFixed(2))
	})

	t.Run("expense may overdraw the account", func(t *testing.T) {
		a := newTestAccount(t)
		tx := newTestTx(t, a, TransactionTypeExpense, 100)
		require.NoError(t, a.Append(tx))
		assert.Equal(t, "-100.00", a.Balance.StringFixed(2))
	})

	t.Run("rejects transaction for another account", func(t *testing.T) {
		a := newTestAccount(t)
		other := newTestAccount(t)
		tx := newTestTx(t, other, TransactionTypeIncome, 50)
		assert.Error(t, a.Append(tx))
	})

	t.Run("rejects append on inactive account", func(t *testing.T) {
		a := newTestAccount(t)
		a.Deactivate()
		tx := newTestTx(t, a, TransactionTypeIncome, 50)
		assert.Error(t, a.Append(tx))
	})
}

func TestBankAccount_Reverse(t *testing.T) {
	a := newTestAccount(t)

	income := newTestTx(t, a, TransactionTypeIncome, 500)
	require.NoError(t, a.Append(income))
	expense := newTestTx(t, a, TransactionTypeExpense, 120)
	require.NoError(t, a.Append(expense))
	require.Equal(t, "380.00", a.Balance.StringFixed(2))

	require.NoError(t, a.Reverse(expense))
	assert.Equal(t, "500.00", a.Balance.StringFixed(2))

	require.NoError(t, a.Reverse(income))
	assert.Equal(t, "0.00", a.Balance.StringFixed(2))
}

func TestTransaction_SignedAmount(t *testing.T) {
	a := newTestAccount(t)

	income := newTestTx(t, a, TransactionTypeIncome, 75.25)
	assert.Equal(t, "75.25", income.SignedAmount().StringFixed(2))

	expense := newTestTx(t, a, TransactionTypeExpense, 75.25)
	assert.Equal(t, "-75.25", expense.SignedAmount().StringFixed(2))
}

func TestNewTransaction_Validation(t *testing.T) {
	a := newTestAccount(t)

	_, err := NewTransaction(a.TenantID, a.ID, TransactionTypeIncome, decimal.Zero, "x", ReferenceTypeManual, time.Now())
	assert.Error(t, err, "zero amount")

	_, err = NewTransaction(a.TenantID, a.ID, TransactionTypeIncome, decimal.NewFromInt(-5), "x", ReferenceTypeManual, time.Now())
	assert.Error(t, err, "negative amount")

	_, err = NewTransaction(a.TenantID, a.ID, "TRANSFER", decimal.NewFromInt(5), "x", ReferenceTypeManual, time.Now())
	assert.Error(t, err, "bad type")

	_, err = NewTransaction(a.TenantID, a.ID, TransactionTypeIncome, decimal.NewFromInt(5), "", ReferenceTypeManual, time.Now())
	assert.Error(t, err, "empty description")
}
