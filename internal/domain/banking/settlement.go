package banking

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ComputeFee calculates the acquirer fee and net amount for a gross
// card sale. The fee is rounded half up to the currency precision; the
// net is derived as gross minus rounded fee so that fee + net always
// equals gross to the cent.
func ComputeFee(gross, feePercentage decimal.Decimal) (fee, net decimal.Decimal) {
	grossMoney := valueobject.NewMoneyBRL(gross)
	feeMoney := grossMoney.CalculatePercentage(feePercentage).RoundCurrency()
	netMoney := grossMoney.MustSubtract(feeMoney)
	return feeMoney.Amount(), netMoney.Amount()
}

// ComputeExpectedSettlementDate advances the sale date by lagDays
// calendar days, then rolls forward past Saturday and Sunday so the
// expected date always lands on a business day.
func ComputeExpectedSettlementDate(saleDate time.Time, lagDays int) time.Time {
	expected := saleDate.AddDate(0, 0, lagDays)
	for expected.Weekday() == time.Saturday || expected.Weekday() == time.Sunday {
		expected = expected.AddDate(0, 0, 1)
	}
	return expected
}
