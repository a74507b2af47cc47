package banking

import (
	"errors"
	"testing"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingCardTx(t *testing.T) *CardTransaction {
	t.Helper()
	gross := decimal.NewFromFloat(323.00)
	pct := decimal.NewFromFloat(3.24)
	fee, net := ComputeFee(gross, pct)
	saleDate := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	tx, err := NewCardTransaction(uuid.New(), CardTypeCredit, gross, pct, fee, net,
		saleDate, ComputeExpectedSettlementDate(saleDate, 30))
	require.NoError(t, err)
	return tx
}

func TestNewCardTransaction(t *testing.T) {
	t.Run("captures pending sale with frozen fee", func(t *testing.T) {
		tx := newPendingCardTx(t)
		assert.Equal(t, CardTransactionStatusPending, tx.Status)
		assert.Equal(t, "10.47", tx.FeeAmount.StringFixed(2))
		assert.Equal(t, "312.53", tx.NetAmount.StringFixed(2))
	})

	t.Run("rejects gross not equal to fee plus net", func(t *testing.T) {
		_, err := NewCardTransaction(uuid.New(), CardTypeCredit,
			decimal.NewFromInt(100), decimal.NewFromInt(3),
			decimal.NewFromInt(3), decimal.NewFromInt(96),
			time.Now(), time.Now())
		assert.Error(t, err)
	})
}

func TestCardTransaction_Settle(t *testing.T) {
	t.Run("settles once", func(t *testing.T) {
		tx := newPendingCardTx(t)
		accountID := uuid.New()
		ledgerTxID := uuid.New()

		require.NoError(t, tx.Settle(accountID, ledgerTxID, time.Now()))
		assert.Equal(t, CardTransactionStatusSettled, tx.Status)
		assert.Equal(t, accountID, *tx.BankAccountID)
		assert.Equal(t, ledgerTxID, *tx.SettlementTransactionID)
		assert.NotNil(t, tx.SettledAt)
	})

	t.Run("second settle is an idempotency violation", func(t *testing.T) {
		tx := newPendingCardTx(t)
		require.NoError(t, tx.Settle(uuid.New(), uuid.New(), time.Now()))

		err := tx.Settle(uuid.New(), uuid.New(), time.Now())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.ErrCodeIdempotencyViolation, domainErr.Code)
	})

	t.Run("cannot settle cancelled sale", func(t *testing.T) {
		tx := newPendingCardTx(t)
		require.NoError(t, tx.Cancel())
		assert.Error(t, tx.Settle(uuid.New(), uuid.New(), time.Now()))
	})
}

func TestNewCardFeeConfig(t *testing.T) {
	t.Run("creates active config", func(t *testing.T) {
		cfg, err := NewCardFeeConfig(uuid.New(), CardTypeDebit, decimal.NewFromFloat(1.99), 1)
		require.NoError(t, err)
		assert.True(t, cfg.IsActive)
		assert.Equal(t, 1, cfg.SettlementLagDays)
	})

	t.Run("rejects out of range percentage", func(t *testing.T) {
		_, err := NewCardFeeConfig(uuid.New(), CardTypeDebit, decimal.NewFromInt(-1), 1)
		assert.Error(t, err)
		_, err = NewCardFeeConfig(uuid.New(), CardTypeDebit, decimal.NewFromInt(101), 1)
		assert.Error(t, err)
	})

	t.Run("rejects negative lag", func(t *testing.T) {
		_, err := NewCardFeeConfig(uuid.New(), CardTypeCredit, decimal.NewFromFloat(3.24), -1)
		assert.Error(t, err)
	})
}
