package persistence

import (
	"context"
	"errors"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDebtorRepository implements ledger.DebtorRepository using GORM
type GormDebtorRepository struct {
	db *gorm.DB
}

// NewGormDebtorRepository creates a new GormDebtorRepository
func NewGormDebtorRepository(db *gorm.DB) *GormDebtorRepository {
	return &GormDebtorRepository{db: db}
}

// Save creates or updates a debtor
func (r *GormDebtorRepository) Save(ctx context.Context, debtor *ledger.Debtor) error {
	model := models.DebtorModelFromDomain(debtor)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the aggregate version
func (r *GormDebtorRepository) SaveWithLock(ctx context.Context, debtor *ledger.Debtor) error {
	model := models.DebtorModelFromDomain(debtor)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", debtor.ID, debtor.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a debtor by ID for a specific tenant
func (r *GormDebtorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Debtor, error) {
	var model models.DebtorModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the debtor row for the surrounding transaction
func (r *GormDebtorRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Debtor, error) {
	var model models.DebtorModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCodeForTenant finds a debtor by its code
func (r *GormDebtorRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Debtor, error) {
	var model models.DebtorModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all debtors for a tenant with pagination
func (r *GormDebtorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Debtor], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.DebtorModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*ledger.Debtor]{}, err
	}

	var debtorModels []models.DebtorModel
	if err := applyFilter(base, filter).Find(&debtorModels).Error; err != nil {
		return shared.Paginated[*ledger.Debtor]{}, err
	}

	debtors := make([]*ledger.Debtor, len(debtorModels))
	for i := range debtorModels {
		debtors[i] = debtorModels[i].ToDomain()
	}
	return shared.NewPaginated(debtors, total, filter.Page, filter.PageSize), nil
}

// Delete removes a debtor
func (r *GormDebtorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.DebtorModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ ledger.DebtorRepository = (*GormDebtorRepository)(nil)
