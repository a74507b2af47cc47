package banking

import (
	"context"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BankAccountService orchestrates bank accounts and their ledger
// entries. Balance changes always happen together with an appended or
// reversed entry, inside one transaction, with the account row locked.
type BankAccountService struct {
	accountRepo banking.BankAccountRepository
	txRepo      banking.TransactionRepository
	txm         shared.TxManager
	logger      *zap.Logger
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(
	accountRepo banking.BankAccountRepository,
	txRepo banking.TransactionRepository,
	txm shared.TxManager,
	logger *zap.Logger,
) *BankAccountService {
	return &BankAccountService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		txm:         txm,
		logger:      logger,
	}
}

// OpenAccountInput contains input for account opening
type OpenAccountInput struct {
	Name           string           `json:"name" binding:"required"`
	BankName       string           `json:"bank_name"`
	AccountType    string           `json:"account_type" binding:"required"`
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
}

// OpenAccount opens a bank account. A non-zero initial balance is
// recorded as an INITIAL_BALANCE ledger entry so balance history starts
// from the ledger, not from a bare field.
func (s *BankAccountService) OpenAccount(ctx context.Context, tenantID uuid.UUID, input OpenAccountInput) (*banking.BankAccount, error) {
	account, err := banking.NewBankAccount(tenantID, input.Name, input.BankName, banking.AccountType(input.AccountType))
	if err != nil {
		return nil, err
	}

	err = s.txm.InTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		if input.InitialBalance == nil || input.InitialBalance.IsZero() {
			return nil
		}

		txType := banking.TransactionTypeIncome
		amount := *input.InitialBalance
		if amount.IsNegative() {
			txType = banking.TransactionTypeExpense
			amount = amount.Neg()
		}
		tx, err := banking.NewTransaction(tenantID, account.ID, txType, amount,
			"Opening balance", banking.ReferenceTypeInitialBalance, time.Now())
		if err != nil {
			return err
		}
		if err := account.Append(tx); err != nil {
			return err
		}
		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}
		return s.accountRepo.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bank account opened",
		zap.String("account_id", account.ID.String()),
		zap.String("name", account.Name),
	)
	return account, nil
}

// GetAccount returns a bank account by ID
func (s *BankAccountService) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	return s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListAccounts lists bank accounts with pagination
func (s *BankAccountService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.BankAccount], error) {
	return s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
}

// AppendTransactionInput contains input for a manual ledger entry
type AppendTransactionInput struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Date        time.Time       `json:"date"`
}

// AppendTransaction appends a manual income or expense entry. The
// account balance advances and the entry gets its BalanceAfter snapshot
// in the same transaction. Overdraft is allowed.
func (s *BankAccountService) AppendTransaction(ctx context.Context, tenantID, accountID uuid.UUID, input AppendTransactionInput) (*banking.Transaction, error) {
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var tx *banking.Transaction
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindByIDForUpdate(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		tx, err = banking.NewTransaction(tenantID, account.ID, banking.TransactionType(input.Type),
			input.Amount, input.Description, banking.ReferenceTypeManual, date)
		if err != nil {
			return err
		}
		if err := account.Append(tx); err != nil {
			return err
		}
		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ReverseTransaction removes a ledger entry and its effect on the
// balance. BalanceAfter snapshots of entries appended later are rebuilt
// so the running history stays consistent.
func (s *BankAccountService) ReverseTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) error {
	return s.txm.InTx(ctx, func(ctx context.Context) error {
		tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		account, err := s.accountRepo.FindByIDForUpdate(ctx, tenantID, tx.BankAccountID)
		if err != nil {
			return err
		}

		if err := account.Reverse(tx); err != nil {
			return err
		}
		if err := s.txRepo.Delete(ctx, tenantID, tx.ID); err != nil {
			return err
		}

		// Rebuild BalanceAfter for everything appended after the
		// reversed entry, starting from the balance it saw before
		later, err := s.txRepo.FindByAccountSince(ctx, tenantID, account.ID, tx.CreatedAt)
		if err != nil {
			return err
		}
		running := tx.BalanceAfter.Sub(tx.SignedAmount())
		for _, t := range later {
			if t.ID == tx.ID {
				continue
			}
			running = running.Add(t.SignedAmount())
			t.BalanceAfter = running
			if err := s.txRepo.Save(ctx, t); err != nil {
				return err
			}
		}

		if err := s.accountRepo.SaveWithLock(ctx, account); err != nil {
			return err
		}

		s.logger.Info("transaction reversed",
			zap.String("transaction_id", transactionID.String()),
			zap.String("account_id", account.ID.String()),
			zap.Int("rebuilt_entries", len(later)),
		)
		return nil
	})
}

// ListTransactions lists an account's ledger entries with pagination
func (s *BankAccountService) ListTransactions(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.Transaction], error) {
	return s.txRepo.FindByAccount(ctx, tenantID, accountID, filter)
}

// CheckConsistency audits one account: the stored balance against the
// signed sum of its ledger entries. Drift is reported, never corrected.
func (s *BankAccountService) CheckConsistency(ctx context.Context, tenantID, accountID uuid.UUID) (*banking.ConsistencyReport, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	computed, err := s.txRepo.SumByAccount(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	drift := account.Balance.Sub(computed)
	report := &banking.ConsistencyReport{
		BankAccountID:   account.ID.String(),
		AccountName:     account.Name,
		StoredBalance:   account.Balance,
		ComputedBalance: computed,
		Drift:           drift,
		Consistent:      drift.IsZero(),
	}
	if !report.Consistent {
		s.logger.Warn("bank account balance drift detected",
			zap.String("account_id", account.ID.String()),
			zap.String("drift", drift.StringFixed(4)),
		)
	}
	return report, nil
}

// ImportStatement imports a bank statement CSV as ledger entries on the
// account. Each line becomes a STATEMENT_IMPORT entry; bad lines are
// reported per line and never abort the rest of the file.
func (s *BankAccountService) ImportStatement(ctx context.Context, tenantID, accountID uuid.UUID, data []byte) (*banking.ImportSummary, error) {
	parsed, err := csvimport.ParseStatement(data)
	if err != nil {
		return nil, err
	}

	summary := &banking.ImportSummary{Total: parsed.Total}
	for _, lineErr := range parsed.Errors {
		summary.Failed++
		summary.Results = append(summary.Results, banking.ImportLineResult{
			LineNumber: lineErr.LineNumber,
			Success:    false,
			Error:      lineErr.Message,
		})
	}

	err = s.txm.InTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindByIDForUpdate(ctx, tenantID, accountID)
		if err != nil {
			return err
		}

		for _, line := range parsed.Lines {
			tx, err := banking.NewTransaction(tenantID, account.ID, line.Type, line.Amount,
				line.Description, banking.ReferenceTypeStatementImport, line.Date)
			if err != nil {
				summary.Failed++
				summary.Results = append(summary.Results, banking.ImportLineResult{
					LineNumber: line.LineNumber,
					Success:    false,
					Error:      err.Error(),
				})
				continue
			}
			if err := account.Append(tx); err != nil {
				return err
			}
			if err := s.txRepo.Save(ctx, tx); err != nil {
				return err
			}
			summary.Imported++
			summary.Results = append(summary.Results, banking.ImportLineResult{
				LineNumber:    line.LineNumber,
				Success:       true,
				TransactionID: tx.ID.String(),
			})
		}

		return s.accountRepo.SaveWithLock(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("statement imported",
		zap.String("account_id", accountID.String()),
		zap.Int("total", summary.Total),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}
