package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var openBoletoStatuses = []ledger.BoletoStatus{
	ledger.BoletoStatusPending,
	ledger.BoletoStatusOverdue,
}

// GormBoletoRepository implements ledger.BoletoRepository using GORM
type GormBoletoRepository struct {
	db *gorm.DB
}

// NewGormBoletoRepository creates a new GormBoletoRepository
func NewGormBoletoRepository(db *gorm.DB) *GormBoletoRepository {
	return &GormBoletoRepository{db: db}
}

// Save creates or updates a boleto
func (r *GormBoletoRepository) Save(ctx context.Context, boleto *ledger.Boleto) error {
	model := models.BoletoModelFromDomain(boleto)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking on the aggregate version
func (r *GormBoletoRepository) SaveWithLock(ctx context.Context, boleto *ledger.Boleto) error {
	model := models.BoletoModelFromDomain(boleto)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", boleto.ID, boleto.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByIDForTenant finds a boleto by ID for a specific tenant
func (r *GormBoletoRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Boleto, error) {
	var model models.BoletoModel
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

// FindByNumberForTenant finds a boleto by its number
func (r *GormBoletoRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.Boleto, error) {
	var model models.BoletoModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND boleto_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all boletos for a tenant with pagination
func (r *GormBoletoRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*ledger.Boleto], error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	base := db.Model(&models.BoletoModel{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		base = base.Where("boleto_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*ledger.Boleto]{}, err
	}

	var boletoModels []models.BoletoModel
	if err := applyFilter(base, filter).Find(&boletoModels).Error; err != nil {
		return shared.Paginated[*ledger.Boleto]{}, err
	}

	boletos := make([]*ledger.Boleto, len(boletoModels))
	for i := range boletoModels {
		boletos[i] = boletoModels[i].ToDomain()
	}
	return shared.NewPaginated(boletos, total, filter.Page, filter.PageSize), nil
}

// FindOpenByDebtor returns boletos still open for collection
func (r *GormBoletoRepository) FindOpenByDebtor(ctx context.Context, tenantID, debtorID uuid.UUID) ([]*ledger.Boleto, error) {
	var boletoModels []models.BoletoModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND debtor_id = ? AND status IN ?", tenantID, debtorID, openBoletoStatuses).
		Order("created_at ASC").
		Find(&boletoModels).Error; err != nil {
		return nil, err
	}
	boletos := make([]*ledger.Boleto, len(boletoModels))
	for i := range boletoModels {
		boletos[i] = boletoModels[i].ToDomain()
	}
	return boletos, nil
}

// FindDueBefore returns pending boletos whose due date has passed
func (r *GormBoletoRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*ledger.Boleto, error) {
	var boletoModels []models.BoletoModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, ledger.BoletoStatusPending, cutoff).
		Order("due_date ASC").
		Find(&boletoModels).Error; err != nil {
		return nil, err
	}
	boletos := make([]*ledger.Boleto, len(boletoModels))
	for i := range boletoModels {
		boletos[i] = boletoModels[i].ToDomain()
	}
	return boletos, nil
}

// FindByReceivableID finds the boleto paired with a receivable
func (r *GormBoletoRepository) FindByReceivableID(ctx context.Context, tenantID, receivableID uuid.UUID) (*ledger.Boleto, error) {
	var model models.BoletoModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("tenant_id = ? AND receivable_id = ?", tenantID, receivableID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// NextNumber generates the next boleto number.
// Format: BOL-YYYYMMDD-XXXXX
func (r *GormBoletoRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, dbFromContext(ctx, r.db), &models.BoletoModel{}, "boleto_number", "BOL", tenantID)
}

var _ ledger.BoletoRepository = (*GormBoletoRepository)(nil)
