package ledger

import (
	"context"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
)

// DebtorRepository defines the persistence interface for debtors
type DebtorRepository interface {
	Save(ctx context.Context, debtor *Debtor) error
	// SaveWithLock persists using the aggregate version for optimistic
	// concurrency control
	SaveWithLock(ctx context.Context, debtor *Debtor) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Debtor, error)
	// FindByIDForUpdate locks the debtor row for the duration of the
	// surrounding transaction. Only meaningful inside TxManager.InTx.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Debtor, error)
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Debtor, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Debtor], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ReceivableRepository defines the persistence interface for receivables
type ReceivableRepository interface {
	Save(ctx context.Context, receivable *Receivable) error
	SaveWithLock(ctx context.Context, receivable *Receivable) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Receivable, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Receivable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Receivable], error)
	// FindOpenByDebtor returns receivables still counting as exposure
	FindOpenByDebtor(ctx context.Context, tenantID, debtorID uuid.UUID) ([]*Receivable, error)
	// FindDueBefore returns pending receivables whose due date has passed
	FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*Receivable, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// BoletoRepository defines the persistence interface for boletos
type BoletoRepository interface {
	Save(ctx context.Context, boleto *Boleto) error
	SaveWithLock(ctx context.Context, boleto *Boleto) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Boleto, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Boleto, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Boleto], error)
	FindOpenByDebtor(ctx context.Context, tenantID, debtorID uuid.UUID) ([]*Boleto, error)
	FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*Boleto, error)
	FindByReceivableID(ctx context.Context, tenantID, receivableID uuid.UUID) (*Boleto, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
