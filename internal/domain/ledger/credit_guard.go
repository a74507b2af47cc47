package ledger

import (
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditGuard is the single authority over a debtor's cached
// AvailableCredit. Authorization reads the cache; Recompute rebuilds it
// from open exposure. Keeping the write path in one place is what makes
// the 0 <= available <= limit invariant checkable.
type CreditGuard struct{}

// NewCreditGuard creates a credit guard
func NewCreditGuard() *CreditGuard {
	return &CreditGuard{}
}

// Authorize checks whether a new credit sale of the given amount fits
// within the debtor's available credit. Returns INSUFFICIENT_CREDIT when
// it does not.
func (g *CreditGuard) Authorize(debtor *Debtor, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Authorization amount must be positive")
	}
	if !debtor.IsActive {
		return shared.NewValidationError("Debtor is not active")
	}
	if !debtor.HasCreditLine() {
		return shared.NewDomainError(shared.ErrCodeInsufficientCredit, "Debtor has no credit line")
	}
	if amount.GreaterThan(debtor.AvailableCredit) {
		return shared.NewDomainError(shared.ErrCodeInsufficientCredit,
			"Amount "+amount.StringFixed(2)+" exceeds available credit "+debtor.AvailableCredit.StringFixed(2))
	}
	return nil
}

// Recompute rebuilds the debtor's available credit from open exposure:
// available = clamp(limit - outstanding, 0, limit). Recompute is
// idempotent.
func (g *CreditGuard) Recompute(debtor *Debtor, receivables []*Receivable, boletos []*Boleto) {
	outstanding := g.Exposure(receivables, boletos)

	available := debtor.CreditLimit.Sub(outstanding)
	if available.IsNegative() {
		available = decimal.Zero
	}
	if available.GreaterThan(debtor.CreditLimit) {
		available = debtor.CreditLimit
	}
	debtor.setAvailableCredit(available)
}

// Exposure sums the debtor's open commitments. An open receivable counts
// at its full face amount until it settles completely; a partial payment
// does not release credit. A remainder receivable spawned by a partially
// paid boleto is skipped while the receivable it was split from is still
// open, so the split never counts twice. Open boletos count only when
// not paired with a receivable, since a paired boleto mirrors a
// receivable already counted.
func (g *CreditGuard) Exposure(receivables []*Receivable, boletos []*Boleto) decimal.Decimal {
	openSources := make(map[uuid.UUID]bool)
	for _, r := range receivables {
		if r.IsOpen() && r.SourceType != SourceTypeBoletoRemainder && r.SourceID != nil {
			openSources[*r.SourceID] = true
		}
	}

	outstanding := decimal.Zero
	for _, r := range receivables {
		if !r.IsOpen() {
			continue
		}
		if r.SourceType == SourceTypeBoletoRemainder && r.SourceID != nil && openSources[*r.SourceID] {
			continue
		}
		outstanding = outstanding.Add(r.Amount)
	}
	for _, b := range boletos {
		if b.ReceivableID == nil {
			outstanding = outstanding.Add(b.OutstandingAmount())
		}
	}
	return outstanding
}

// Verify checks the cached available credit against a fresh recompute
// and returns CONSISTENCY_VIOLATION on drift. Used by the audit
// endpoint; it never mutates the debtor.
func (g *CreditGuard) Verify(debtor *Debtor, receivables []*Receivable, boletos []*Boleto) error {
	outstanding := g.Exposure(receivables, boletos)
	expected := debtor.CreditLimit.Sub(outstanding)
	if expected.IsNegative() {
		expected = decimal.Zero
	}
	if expected.GreaterThan(debtor.CreditLimit) {
		expected = debtor.CreditLimit
	}
	if !debtor.AvailableCredit.Equal(expected) {
		return shared.NewConsistencyViolationError(
			"Available credit " + debtor.AvailableCredit.StringFixed(2) +
				" does not match recomputed value " + expected.StringFixed(2) +
				" for debtor " + debtor.Code)
	}
	return nil
}
