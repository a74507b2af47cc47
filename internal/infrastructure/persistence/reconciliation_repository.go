package persistence

import (
	"context"
	"errors"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/reconciliation"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReconciliationRepository implements reconciliation.SessionRepository
// using GORM. Items persist with the session aggregate.
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// Save creates or updates a session together with its items
func (r *GormReconciliationRepository) Save(ctx context.Context, session *reconciliation.Session) error {
	model := models.ReconciliationSessionModelFromDomain(session)
	return dbFromContext(ctx, r.db).WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// SaveWithLock saves with optimistic locking on the aggregate version.
// Items are replaced wholesale since they belong to the aggregate.
func (r *GormReconciliationRepository) SaveWithLock(ctx context.Context, session *reconciliation.Session) error {
	model := models.ReconciliationSessionModelFromDomain(session)
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	result := db.Model(&models.ReconciliationSessionModel{}).
		Omit(clause.Associations).
		Where("id = ? AND version = ?", session.ID, session.Version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	for i := range model.Items {
		model.Items[i].SessionID = session.ID
		if err := db.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByIDForTenant finds a session with its items
func (r *GormReconciliationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reconciliation.Session, error) {
	var model models.ReconciliationSessionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all sessions for a tenant with pagination.
// Items are not loaded in listings.
func (r *GormReconciliationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*reconciliation.Session], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.ReconciliationSessionModel{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*reconciliation.Session]{}, err
	}

	var sessionModels []models.ReconciliationSessionModel
	if err := applyFilter(base, filter).Find(&sessionModels).Error; err != nil {
		return shared.Paginated[*reconciliation.Session]{}, err
	}

	sessions := make([]*reconciliation.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = sessionModels[i].ToDomain()
	}
	return shared.NewPaginated(sessions, total, filter.Page, filter.PageSize), nil
}

// FindInProgressByAccount finds the open session of an account, if any
func (r *GormReconciliationRepository) FindInProgressByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*reconciliation.Session, error) {
	var model models.ReconciliationSessionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, created_at ASC")
		}).
		Where("tenant_id = ? AND bank_account_id = ? AND status = ?",
			tenantID, accountID, reconciliation.SessionStatusInProgress).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ reconciliation.SessionRepository = (*GormReconciliationRepository)(nil)
