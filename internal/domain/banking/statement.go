package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one parsed row of an imported bank statement,
// already normalized: positive amount plus an explicit direction.
type StatementLine struct {
	LineNumber  int             `json:"line_number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
}

// SignedAmount returns the amount with its direction applied
func (l StatementLine) SignedAmount() decimal.Decimal {
	if l.Type == TransactionTypeExpense {
		return l.Amount.Neg()
	}
	return l.Amount
}

// ImportLineResult is the per-line outcome of a statement import. A
// failed line carries the error message; the import continues past it.
type ImportLineResult struct {
	LineNumber    int    `json:"line_number"`
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ImportSummary aggregates an import run
type ImportSummary struct {
	Total    int                `json:"total"`
	Imported int                `json:"imported"`
	Failed   int                `json:"failed"`
	Results  []ImportLineResult `json:"results"`
}

// ConsistencyReport is the outcome of auditing one account: the stored
// balance against the sum of its ledger entries
type ConsistencyReport struct {
	BankAccountID   string          `json:"bank_account_id"`
	AccountName     string          `json:"account_name"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Drift           decimal.Decimal `json:"drift"`
	Consistent      bool            `json:"consistent"`
}
