package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements banking.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save creates or updates a ledger entry
func (r *GormTransactionRepository) Save(ctx context.Context, tx *banking.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// FindByIDForTenant finds a ledger entry by ID for a specific tenant
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.Transaction, error) {
	var model models.TransactionModel
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

// FindByAccount finds all ledger entries of an account with pagination
func (r *GormTransactionRepository) FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.Transaction], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.TransactionModel{}).
		Where("tenant_id = ? AND bank_account_id = ?", tenantID, accountID)

	if filter.Search != "" {
		base = base.Where("description ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.Transaction]{}, err
	}

	var txModels []models.TransactionModel
	if err := applyFilter(base, filter).Find(&txModels).Error; err != nil {
		return shared.Paginated[*banking.Transaction]{}, err
	}

	txs := make([]*banking.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return shared.NewPaginated(txs, total, filter.Page, filter.PageSize), nil
}

// FindByAccountSince returns entries appended at or after the given point,
// in append order
func (r *GormTransactionRepository) FindByAccountSince(ctx context.Context, tenantID, accountID uuid.UUID, since time.Time) ([]*banking.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND bank_account_id = ? AND created_at >= ?", tenantID, accountID, since).
		Order("created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	txs := make([]*banking.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return txs, nil
}

// FindByAccountBetween returns entries dated within the window, in append order
func (r *GormTransactionRepository) FindByAccountBetween(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]*banking.Transaction, error) {
	var txModels []models.TransactionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND bank_account_id = ? AND transaction_date >= ? AND transaction_date <= ?",
			tenantID, accountID, from, to).
		Order("transaction_date ASC, created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	txs := make([]*banking.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return txs, nil
}

// SumByAccount returns the signed sum of all entries of the account.
// Income counts positive, expense negative.
func (r *GormTransactionRepository) SumByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0) AS total", banking.TransactionTypeIncome).
		Where("tenant_id = ? AND bank_account_id = ?", tenantID, accountID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Delete removes a ledger entry
func (r *GormTransactionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.TransactionModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ banking.TransactionRepository = (*GormTransactionRepository)(nil)
