package ledger

import (
	"context"
	"errors"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtorService provides application-level debtor and credit line operations
type DebtorService struct {
	debtorRepo     ledger.DebtorRepository
	receivableRepo ledger.ReceivableRepository
	boletoRepo     ledger.BoletoRepository
	guard          *ledger.CreditGuard
	txm            shared.TxManager
}

// NewDebtorService creates a new DebtorService
func NewDebtorService(
	debtorRepo ledger.DebtorRepository,
	receivableRepo ledger.ReceivableRepository,
	boletoRepo ledger.BoletoRepository,
	txm shared.TxManager,
) *DebtorService {
	return &DebtorService{
		debtorRepo:     debtorRepo,
		receivableRepo: receivableRepo,
		boletoRepo:     boletoRepo,
		guard:          ledger.NewCreditGuard(),
		txm:            txm,
	}
}

// CreateDebtorInput contains input for debtor creation
type CreateDebtorInput struct {
	Code        string           `json:"code" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Kind        string           `json:"kind" binding:"required"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
}

// CreateDebtor creates a debtor, optionally with an initial credit line
func (s *DebtorService) CreateDebtor(ctx context.Context, tenantID uuid.UUID, input CreateDebtorInput) (*ledger.Debtor, error) {
	existing, err := s.debtorRepo.FindByCodeForTenant(ctx, tenantID, input.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("Debtor code " + input.Code + " is already in use")
	}

	debtor, err := ledger.NewDebtor(tenantID, input.Code, input.Name, ledger.DebtorKind(input.Kind))
	if err != nil {
		return nil, err
	}

	if input.CreditLimit != nil {
		if err := debtor.SetCreditLimit(*input.CreditLimit); err != nil {
			return nil, err
		}
		// No exposure exists yet, the full limit is available
		s.guard.Recompute(debtor, nil, nil)
	}

	if err := s.debtorRepo.Save(ctx, debtor); err != nil {
		return nil, err
	}
	return debtor, nil
}

// GetDebtor returns a debtor by ID
func (s *DebtorService) GetDebtor(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Debtor, error) {
	return s.debtorRepo.FindByIDForTenant(ctx, tenantID, id)
}

// ListDebtors lists debtors with pagination
func (s *DebtorService) ListDebtors(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Debtor], error) {
	return s.debtorRepo.FindAllForTenant(ctx, tenantID, filter)
}

// SetCreditLimit changes a debtor's credit limit and rebuilds the
// available-credit cache from open exposure in the same transaction
func (s *DebtorService) SetCreditLimit(ctx context.Context, tenantID, debtorID uuid.UUID, limit decimal.Decimal) (*ledger.Debtor, error) {
	var debtor *ledger.Debtor
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		debtor, err = s.debtorRepo.FindByIDForUpdate(ctx, tenantID, debtorID)
		if err != nil {
			return err
		}
		if err := debtor.SetCreditLimit(limit); err != nil {
			return err
		}
		if err := s.recompute(ctx, debtor); err != nil {
			return err
		}
		return s.debtorRepo.SaveWithLock(ctx, debtor)
	})
	if err != nil {
		return nil, err
	}
	return debtor, nil
}

// SetActive activates or deactivates a debtor
func (s *DebtorService) SetActive(ctx context.Context, tenantID, debtorID uuid.UUID, active bool) (*ledger.Debtor, error) {
	debtor, err := s.debtorRepo.FindByIDForTenant(ctx, tenantID, debtorID)
	if err != nil {
		return nil, err
	}
	if active {
		debtor.Activate()
	} else {
		debtor.Deactivate()
	}
	if err := s.debtorRepo.SaveWithLock(ctx, debtor); err != nil {
		return nil, err
	}
	return debtor, nil
}

// CreditAudit is the outcome of verifying one debtor's cached credit
type CreditAudit struct {
	DebtorID        uuid.UUID       `json:"debtor_id"`
	DebtorCode      string          `json:"debtor_code"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	Exposure        decimal.Decimal `json:"exposure"`
	Consistent      bool            `json:"consistent"`
	Detail          string          `json:"detail,omitempty"`
}

// VerifyCredit checks the cached available credit against a fresh
// recompute without mutating the debtor. Drift is reported, not fixed.
func (s *DebtorService) VerifyCredit(ctx context.Context, tenantID, debtorID uuid.UUID) (*CreditAudit, error) {
	debtor, err := s.debtorRepo.FindByIDForTenant(ctx, tenantID, debtorID)
	if err != nil {
		return nil, err
	}
	receivables, err := s.receivableRepo.FindOpenByDebtor(ctx, tenantID, debtorID)
	if err != nil {
		return nil, err
	}
	boletos, err := s.boletoRepo.FindOpenByDebtor(ctx, tenantID, debtorID)
	if err != nil {
		return nil, err
	}

	audit := &CreditAudit{
		DebtorID:        debtor.ID,
		DebtorCode:      debtor.Code,
		CreditLimit:     debtor.CreditLimit,
		AvailableCredit: debtor.AvailableCredit,
		Exposure:        s.guard.Exposure(receivables, boletos),
		Consistent:      true,
	}
	if err := s.guard.Verify(debtor, receivables, boletos); err != nil {
		audit.Consistent = false
		audit.Detail = err.Error()
	}
	return audit, nil
}

// RecomputeCredit rebuilds a debtor's available credit from open exposure
func (s *DebtorService) RecomputeCredit(ctx context.Context, tenantID, debtorID uuid.UUID) (*ledger.Debtor, error) {
	var debtor *ledger.Debtor
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		var err error
		debtor, err = s.debtorRepo.FindByIDForUpdate(ctx, tenantID, debtorID)
		if err != nil {
			return err
		}
		if err := s.recompute(ctx, debtor); err != nil {
			return err
		}
		return s.debtorRepo.SaveWithLock(ctx, debtor)
	})
	if err != nil {
		return nil, err
	}
	return debtor, nil
}

// recompute loads the debtor's open exposure and rebuilds the cache.
// Must run inside the caller's transaction.
func (s *DebtorService) recompute(ctx context.Context, debtor *ledger.Debtor) error {
	receivables, err := s.receivableRepo.FindOpenByDebtor(ctx, debtor.TenantID, debtor.ID)
	if err != nil {
		return err
	}
	boletos, err := s.boletoRepo.FindOpenByDebtor(ctx, debtor.TenantID, debtor.ID)
	if err != nil {
		return err
	}
	s.guard.Recompute(debtor, receivables, boletos)
	return nil
}
