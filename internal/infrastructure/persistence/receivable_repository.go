package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var openReceivableStatuses = []ledger.ReceivableStatus{
	ledger.ReceivableStatusPending,
	ledger.ReceivableStatusOverdue,
	ledger.ReceivableStatusPartial,
}

// GormReceivableRepository implements ledger.ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// Save creates or updates a receivable
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *ledger.Receivable) error {
	model := models.ReceivableModelFromDomain(receivable)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the aggregate version
func (r *GormReceivableRepository) SaveWithLock(ctx context.Context, receivable *ledger.Receivable) error {
	model := models.ReceivableModelFromDomain(receivable)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", receivable.ID, receivable.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a receivable by ID for a specific tenant
func (r *GormReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Receivable, error) {
	var model models.ReceivableModel
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

// FindByNumberForTenant finds a receivable by its number
func (r *GormReceivableRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.Receivable, error) {
	var model models.ReceivableModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND receivable_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all receivables for a tenant with pagination
func (r *GormReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Receivable], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.ReceivableModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where("receivable_number ILIKE ? OR debtor_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*ledger.Receivable]{}, err
	}

	var receivableModels []models.ReceivableModel
	if err := applyFilter(base, filter).Find(&receivableModels).Error; err != nil {
		return shared.Paginated[*ledger.Receivable]{}, err
	}

	receivables := make([]*ledger.Receivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = receivableModels[i].ToDomain()
	}
	return shared.NewPaginated(receivables, total, filter.Page, filter.PageSize), nil
}

// FindOpenByDebtor returns receivables still counting as credit exposure
func (r *GormReceivableRepository) FindOpenByDebtor(ctx context.Context, tenantID, debtorID uuid.UUID) ([]*ledger.Receivable, error) {
	var receivableModels []models.ReceivableModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND debtor_id = ? AND status IN ?", tenantID, debtorID, openReceivableStatuses).
		Order("created_at ASC").
		Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	receivables := make([]*ledger.Receivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = receivableModels[i].ToDomain()
	}
	return receivables, nil
}

// FindDueBefore returns pending receivables whose due date has passed
func (r *GormReceivableRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*ledger.Receivable, error) {
	var receivableModels []models.ReceivableModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, ledger.ReceivableStatusPending, cutoff).
		Order("due_date ASC").
		Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	receivables := make([]*ledger.Receivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = receivableModels[i].ToDomain()
	}
	return receivables, nil
}

// Delete removes a receivable
func (r *GormReceivableRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.ReceivableModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextNumber generates the next receivable number.
// Format: REC-YYYYMMDD-XXXXX
func (r *GormReceivableRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, dbFromContext(ctx, r.db), &models.ReceivableModel{}, "receivable_number", "REC", tenantID)
}

// nextDocumentNumber generates a date-prefixed sequential document number
// scoped to the tenant
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model any, column, prefix string, tenantID uuid.UUID) (string, error) {
	date := time.Now().Format("20060102")
	fullPrefix := fmt.Sprintf("%s-%s-", prefix, date)

	var maxNumber string
	if err := db.WithContext(ctx).
		Model(model).
		Select(column).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, fullPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", fullPrefix, nextNum), nil
}

var _ ledger.ReceivableRepository = (*GormReceivableRepository)(nil)
