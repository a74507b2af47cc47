package reconciliation

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/google/uuid"
)

// MatchToleranceDays is how far the ledger date may drift from the
// statement date for an automatic match.
const MatchToleranceDays = 2

// MatchResult reports one auto-match decision
type MatchResult struct {
	ItemID        uuid.UUID `json:"item_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// AutoMatcher pairs unresolved statement items with ledger transactions.
// A match requires the exact signed amount and a date within the
// tolerance window. An item with more than one surviving candidate is
// left unmatched for manual review; guessing between equals is worse
// than asking.
type AutoMatcher struct{}

// NewAutoMatcher creates an auto matcher
func NewAutoMatcher() *AutoMatcher {
	return &AutoMatcher{}
}

// Match runs the matcher over the session's unresolved items against the
// candidate ledger transactions. Each transaction is consumed by at most
// one item. The session is mutated in place; results list the pairs made.
func (m *AutoMatcher) Match(session *Session, candidates []*banking.Transaction, at time.Time) []MatchResult {
	used := make(map[uuid.UUID]bool)
	var results []MatchResult

	for _, item := range session.Items {
		if item.IsResolved() {
			continue
		}

		var found *banking.Transaction
		ambiguous := false
		for _, tx := range candidates {
			if used[tx.ID] {
				continue
			}
			if !tx.SignedAmount().Equal(item.Amount) {
				continue
			}
			if !withinTolerance(item.Date, tx.TransactionDate) {
				continue
			}
			if found != nil {
				ambiguous = true
				break
			}
			found = tx
		}

		if found == nil || ambiguous {
			continue
		}

		used[found.ID] = true
		item.MatchedTransactionID = &found.ID
		item.ResolvedAt = &at
		results = append(results, MatchResult{ItemID: item.ID, TransactionID: found.ID})
	}

	if len(results) > 0 {
		session.UpdatedAt = time.Now()
		session.IncrementVersion()
	}
	return results
}

func withinTolerance(statementDate, ledgerDate time.Time) bool {
	a := statementDate.Truncate(24 * time.Hour)
	b := ledgerDate.Truncate(24 * time.Hour)
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= MatchToleranceDays*24*time.Hour
}
