package reconciliation

import (
	"context"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionRepository defines the persistence interface for reconciliation
// sessions. Items are persisted as part of the session aggregate.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	SaveWithLock(ctx context.Context, session *Session) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Session, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Session], error)
	FindInProgressByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*Session, error)
}
