package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCardTransactionRepository implements banking.CardTransactionRepository
// using GORM
type GormCardTransactionRepository struct {
	db *gorm.DB
}

// NewGormCardTransactionRepository creates a new GormCardTransactionRepository
func NewGormCardTransactionRepository(db *gorm.DB) *GormCardTransactionRepository {
	return &GormCardTransactionRepository{db: db}
}

// Save creates or updates a card transaction
func (r *GormCardTransactionRepository) Save(ctx context.Context, tx *banking.CardTransaction) error {
	model := models.CardTransactionModelFromDomain(tx)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the aggregate version
func (r *GormCardTransactionRepository) SaveWithLock(ctx context.Context, tx *banking.CardTransaction) error {
	model := models.CardTransactionModelFromDomain(tx)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", tx.ID, tx.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a card transaction by ID for a specific tenant
func (r *GormCardTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.CardTransaction, error) {
	var model models.CardTransactionModel
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

// FindByIDForUpdate locks the row so concurrent settlement attempts serialize
func (r *GormCardTransactionRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*banking.CardTransaction, error) {
	var model models.CardTransactionModel
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

// FindByStatusForTenant finds card transactions by status with pagination
func (r *GormCardTransactionRepository) FindByStatusForTenant(ctx context.Context, tenantID uuid.UUID, status banking.CardTransactionStatus, filter shared.Filter) (shared.Paginated[*banking.CardTransaction], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.CardTransactionModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.CardTransaction]{}, err
	}

	var txModels []models.CardTransactionModel
	if err := applyFilter(base, filter).Find(&txModels).Error; err != nil {
		return shared.Paginated[*banking.CardTransaction]{}, err
	}

	txs := make([]*banking.CardTransaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return shared.NewPaginated(txs, total, filter.Page, filter.PageSize), nil
}

// FindPendingDueBy returns pending card transactions expected to settle on
// or before the cutoff date
func (r *GormCardTransactionRepository) FindPendingDueBy(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*banking.CardTransaction, error) {
	var txModels []models.CardTransactionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND expected_settlement_date <= ?",
			tenantID, banking.CardTransactionStatusPending, cutoff).
		Order("expected_settlement_date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	txs := make([]*banking.CardTransaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return txs, nil
}

var _ banking.CardTransactionRepository = (*GormCardTransactionRepository)(nil)

// GormCardFeeConfigRepository implements banking.CardFeeConfigRepository
// using GORM
type GormCardFeeConfigRepository struct {
	db *gorm.DB
}

// NewGormCardFeeConfigRepository creates a new GormCardFeeConfigRepository
func NewGormCardFeeConfigRepository(db *gorm.DB) *GormCardFeeConfigRepository {
	return &GormCardFeeConfigRepository{db: db}
}

// Save creates or updates a fee configuration
func (r *GormCardFeeConfigRepository) Save(ctx context.Context, cfg *banking.CardFeeConfig) error {
	model := models.CardFeeConfigModelFromDomain(cfg)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// FindActiveByCardType finds the active fee configuration for a card type
func (r *GormCardFeeConfigRepository) FindActiveByCardType(ctx context.Context, tenantID uuid.UUID, cardType banking.CardType) (*banking.CardFeeConfig, error) {
	var model models.CardFeeConfigModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND card_type = ? AND is_active = ?", tenantID, cardType, true).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns every fee configuration of the tenant,
// active and retired
func (r *GormCardFeeConfigRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*banking.CardFeeConfig, error) {
	var cfgModels []models.CardFeeConfigModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("card_type ASC, created_at DESC").
		Find(&cfgModels).Error; err != nil {
		return nil, err
	}
	cfgs := make([]*banking.CardFeeConfig, len(cfgModels))
	for i := range cfgModels {
		cfgs[i] = cfgModels[i].ToDomain()
	}
	return cfgs, nil
}

// DeactivateByCardType retires any active configuration for the card type
func (r *GormCardFeeConfigRepository) DeactivateByCardType(ctx context.Context, tenantID uuid.UUID, cardType banking.CardType) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.CardFeeConfigModel{}).
		Where("tenant_id = ? AND card_type = ? AND is_active = ?", tenantID, cardType, true).
		Update("is_active", false).Error
}

var _ banking.CardFeeConfigRepository = (*GormCardFeeConfigRepository)(nil)
