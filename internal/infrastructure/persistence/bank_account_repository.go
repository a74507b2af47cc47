package persistence

import (
	"context"
	"errors"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBankAccountRepository implements banking.BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// Save creates or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, account *banking.BankAccount) error {
	model := models.BankAccountModelFromDomain(account)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the aggregate version
func (r *GormBankAccountRepository) SaveWithLock(ctx context.Context, account *banking.BankAccount) error {
	model := models.BankAccountModelFromDomain(account)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a bank account by ID for a specific tenant
func (r *GormBankAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	var model models.BankAccountModel
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

// FindByIDForUpdate locks the account row for the surrounding transaction
func (r *GormBankAccountRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	var model models.BankAccountModel
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

// FindAllForTenant finds all bank accounts for a tenant with pagination
func (r *GormBankAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.BankAccount], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.BankAccountModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("name ILIKE ? OR bank_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.BankAccount]{}, err
	}

	var accountModels []models.BankAccountModel
	if err := applyFilter(base, filter).Find(&accountModels).Error; err != nil {
		return shared.Paginated[*banking.BankAccount]{}, err
	}

	accounts := make([]*banking.BankAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return shared.NewPaginated(accounts, total, filter.Page, filter.PageSize), nil
}

var _ banking.BankAccountRepository = (*GormBankAccountRepository)(nil)
