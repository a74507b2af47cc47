package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/reconciliation"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService orchestrates bank reconciliation sessions. One
// session per account runs at a time; closing demands every statement
// item matched or excepted.
type ReconciliationService struct {
	sessionRepo   reconciliation.SessionRepository
	accountRepo   banking.BankAccountRepository
	txRepo        banking.TransactionRepository
	matcher       *reconciliation.AutoMatcher
	toleranceDays int
	txm           shared.TxManager
	logger        *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	sessionRepo reconciliation.SessionRepository,
	accountRepo banking.BankAccountRepository,
	txRepo banking.TransactionRepository,
	toleranceDays int,
	txm shared.TxManager,
	logger *zap.Logger,
) *ReconciliationService {
	if toleranceDays <= 0 {
		toleranceDays = reconciliation.MatchToleranceDays
	}
	return &ReconciliationService{
		sessionRepo:   sessionRepo,
		accountRepo:   accountRepo,
		txRepo:        txRepo,
		matcher:       reconciliation.NewAutoMatcher(),
		toleranceDays: toleranceDays,
		txm:           txm,
		logger:        logger,
	}
}

// StartSessionInput contains input for starting a session
type StartSessionInput struct {
	BankAccountID    uuid.UUID       `json:"bank_account_id" binding:"required"`
	PeriodStart      time.Time       `json:"period_start" binding:"required"`
	PeriodEnd        time.Time       `json:"period_end" binding:"required"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
}

// StartSession opens a reconciliation session for an account and
// period. An account can have only one session in progress.
func (s *ReconciliationService) StartSession(ctx context.Context, tenantID uuid.UUID, input StartSessionInput) (*reconciliation.Session, error) {
	if _, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, input.BankAccountID); err != nil {
		return nil, err
	}

	existing, err := s.sessionRepo.FindInProgressByAccount(ctx, tenantID, input.BankAccountID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("Account already has a reconciliation session in progress")
	}

	session, err := reconciliation.NewSession(tenantID, input.BankAccountID, input.PeriodStart, input.PeriodEnd, input.StatementBalance)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation session started",
		zap.String("session_id", session.ID.String()),
		zap.String("account_id", input.BankAccountID.String()),
	)
	return session, nil
}

// AddItemInput contains input for adding a statement item. A known
// ledger transaction can be supplied up front to match the item in the
// same call.
type AddItemInput struct {
	Date                 time.Time       `json:"date" binding:"required"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount" binding:"required"` // signed
	MatchedTransactionID *uuid.UUID      `json:"matched_transaction_id,omitempty"`
}

// AddItem appends a statement entry to an open session. When the input
// carries a transaction ID the item is matched against it immediately.
func (s *ReconciliationService) AddItem(ctx context.Context, tenantID, sessionID uuid.UUID, input AddItemInput) (*reconciliation.Item, error) {
	var item *reconciliation.Item
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		item, err = session.AddItem(input.Date, input.Description, input.Amount)
		if err != nil {
			return err
		}
		if input.MatchedTransactionID != nil {
			if _, err := s.txRepo.FindByIDForTenant(ctx, tenantID, *input.MatchedTransactionID); err != nil {
				return err
			}
			if err := session.MatchItem(item.ID, *input.MatchedTransactionID, nil, time.Now()); err != nil {
				return err
			}
		}
		return s.sessionRepo.Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AutoMatch runs automatic matching over the session's unresolved
// items. Candidates are the account's ledger entries within the period
// widened by the tolerance window; a candidate is consumed by at most
// one item and ambiguous items stay unresolved for manual review.
func (s *ReconciliationService) AutoMatch(ctx context.Context, tenantID, sessionID uuid.UUID) ([]reconciliation.MatchResult, error) {
	var results []reconciliation.MatchResult
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		if session.Status != reconciliation.SessionStatusInProgress {
			return shared.NewValidationError("Cannot match items on a completed session")
		}

		margin := time.Duration(s.toleranceDays) * 24 * time.Hour
		candidates, err := s.txRepo.FindByAccountBetween(ctx, tenantID, session.BankAccountID,
			session.PeriodStart.Add(-margin), session.PeriodEnd.Add(margin))
		if err != nil {
			return err
		}

		results = s.matcher.Match(session, candidates, time.Now())
		if len(results) == 0 {
			return nil
		}
		return s.sessionRepo.SaveWithLock(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("auto match completed",
		zap.String("session_id", sessionID.String()),
		zap.Int("matched", len(results)),
	)
	return results, nil
}

// MatchItem manually links a statement item to a ledger transaction
func (s *ReconciliationService) MatchItem(ctx context.Context, tenantID, sessionID, itemID, transactionID uuid.UUID, by *uuid.UUID) (*reconciliation.Session, error) {
	var session *reconciliation.Session
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		if _, err := s.txRepo.FindByIDForTenant(ctx, tenantID, transactionID); err != nil {
			return err
		}
		if err := session.MatchItem(itemID, transactionID, by, time.Now()); err != nil {
			return err
		}
		return s.sessionRepo.SaveWithLock(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// MarkException flags a statement item as an exception with a reason
func (s *ReconciliationService) MarkException(ctx context.Context, tenantID, sessionID, itemID uuid.UUID, reason string, by *uuid.UUID) (*reconciliation.Session, error) {
	var session *reconciliation.Session
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		if err := session.MarkException(itemID, reason, by, time.Now()); err != nil {
			return err
		}
		return s.sessionRepo.SaveWithLock(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CloseSession completes a session. Closing with unresolved items is
// rejected; closing twice is an idempotency violation.
func (s *ReconciliationService) CloseSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*reconciliation.Session, error) {
	var session *reconciliation.Session
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		if err := session.Close(time.Now()); err != nil {
			return err
		}
		return s.sessionRepo.SaveWithLock(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation session closed",
		zap.String("session_id", sessionID.String()),
		zap.Int("items", len(session.Items)),
	)
	return session, nil
}

// GetSession returns a session with its items
func (s *ReconciliationService) GetSession(ctx context.Context, tenantID, id uuid.UUID) (*reconciliation.Session, error) {
	return s.sessionRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListSessions lists sessions with pagination
func (s *ReconciliationService) ListSessions(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*reconciliation.Session], error) {
	return s.sessionRepo.FindAllForTenant(ctx, tenantID, filter)
}
