package models

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/reconciliation"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationSessionModel is the persistence model for the
// reconciliation Session aggregate root. Items load with the session.
type ReconciliationSessionModel struct {
	TenantAggregateModel
	BankAccountID    uuid.UUID                    `gorm:"type:uuid;not null;index"`
	PeriodStart      time.Time                    `gorm:"not null"`
	PeriodEnd        time.Time                    `gorm:"not null"`
	StatementBalance decimal.Decimal              `gorm:"type:decimal(18,4);not null;default:0"`
	Status           reconciliation.SessionStatus `gorm:"type:varchar(20);not null;default:'IN_PROGRESS';index"`
	CompletedAt      *time.Time
	Items            []ReconciliationItemModel `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for GORM
func (ReconciliationSessionModel) TableName() string {
	return "reconciliation_sessions"
}

// ReconciliationItemModel is the persistence model for statement items
// within a reconciliation session.
type ReconciliationItemModel struct {
	BaseModel
	SessionID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date                 time.Time       `gorm:"not null"`
	Description          string          `gorm:"type:text"`
	Amount               decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MatchedTransactionID *uuid.UUID      `gorm:"type:uuid;index"`
	IsException          bool            `gorm:"not null;default:false"`
	ExceptionReason      string          `gorm:"type:varchar(500)"`
	ResolvedBy           *uuid.UUID      `gorm:"type:uuid"`
	ResolvedAt           *time.Time
}

// TableName returns the table name for GORM
func (ReconciliationItemModel) TableName() string {
	return "reconciliation_items"
}

// ToDomain converts the persistence model to a domain Session
func (m *ReconciliationSessionModel) ToDomain() *reconciliation.Session {
	items := make([]*reconciliation.Item, len(m.Items))
	for i, im := range m.Items {
		items[i] = im.ToDomain()
	}
	s := &reconciliation.Session{
		BankAccountID:    m.BankAccountID,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		StatementBalance: m.StatementBalance,
		Status:           m.Status,
		CompletedAt:      m.CompletedAt,
		Items:            items,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Session
func (m *ReconciliationSessionModel) FromDomain(s *reconciliation.Session) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.BankAccountID = s.BankAccountID
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.StatementBalance = s.StatementBalance
	m.Status = s.Status
	m.CompletedAt = s.CompletedAt
	m.Items = make([]ReconciliationItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i].FromDomain(item)
	}
}

// ReconciliationSessionModelFromDomain creates a persistence model from
// a domain Session
func ReconciliationSessionModelFromDomain(s *reconciliation.Session) *ReconciliationSessionModel {
	m := &ReconciliationSessionModel{}
	m.FromDomain(s)
	return m
}

// ToDomain converts the persistence model to a domain Item
func (m *ReconciliationItemModel) ToDomain() *reconciliation.Item {
	return &reconciliation.Item{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		SessionID:            m.SessionID,
		Date:                 m.Date,
		Description:          m.Description,
		Amount:               m.Amount,
		MatchedTransactionID: m.MatchedTransactionID,
		IsException:          m.IsException,
		ExceptionReason:      m.ExceptionReason,
		ResolvedBy:           m.ResolvedBy,
		ResolvedAt:           m.ResolvedAt,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ReconciliationItemModel) FromDomain(i *reconciliation.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.SessionID = i.SessionID
	m.Date = i.Date
	m.Description = i.Description
	m.Amount = i.Amount
	m.MatchedTransactionID = i.MatchedTransactionID
	m.IsException = i.IsException
	m.ExceptionReason = i.ExceptionReason
	m.ResolvedBy = i.ResolvedBy
	m.ResolvedAt = i.ResolvedAt
}
