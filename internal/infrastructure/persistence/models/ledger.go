package models

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtorModel is the persistence model for the Debtor aggregate root.
type DebtorModel struct {
	TenantAggregateModel
	Code            string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_debtor_tenant_code,priority:2"`
	Name            string            `gorm:"type:varchar(200);not null"`
	Kind            ledger.DebtorKind `gorm:"type:varchar(20);not null;index"`
	CreditLimit     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableCredit decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive        bool              `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (DebtorModel) TableName() string {
	return "debtors"
}

// ToDomain converts the persistence model to a domain Debtor
func (m *DebtorModel) ToDomain() *ledger.Debtor {
	d := &ledger.Debtor{
		Code:            m.Code,
		Name:            m.Name,
		Kind:            m.Kind,
		CreditLimit:     m.CreditLimit,
		AvailableCredit: m.AvailableCredit,
		IsActive:        m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Debtor
func (m *DebtorModel) FromDomain(d *ledger.Debtor) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Code = d.Code
	m.Name = d.Name
	m.Kind = d.Kind
	m.CreditLimit = d.CreditLimit
	m.AvailableCredit = d.AvailableCredit
	m.IsActive = d.IsActive
}

// DebtorModelFromDomain creates a persistence model from a domain Debtor
func DebtorModelFromDomain(d *ledger.Debtor) *DebtorModel {
	m := &DebtorModel{}
	m.FromDomain(d)
	return m
}

// ReceivableModel is the persistence model for the Receivable aggregate root.
type ReceivableModel struct {
	TenantAggregateModel
	ReceivableNumber string                      `gorm:"type:varchar(50);not null;uniqueIndex:idx_receivable_tenant_number,priority:2"`
	DebtorID         uuid.UUID                   `gorm:"type:uuid;not null;index"`
	DebtorName       string                      `gorm:"type:varchar(200);not null"`
	SourceType       ledger.ReceivableSourceType `gorm:"type:varchar(30);not null;index"`
	SourceID         *uuid.UUID                  `gorm:"type:uuid;index"`
	SourceNumber     string                      `gorm:"type:varchar(50)"`
	Description      string                      `gorm:"type:text"`
	Amount           decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	PaidAmount       decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	NetAmount        *decimal.Decimal            `gorm:"type:decimal(18,4)"`
	Status           ledger.ReceivableStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentMethod    *ledger.PaymentMethod       `gorm:"type:varchar(20)"`
	BankAccountID    *uuid.UUID                  `gorm:"type:uuid;index"`
	DueDate          time.Time                   `gorm:"not null;index"`
	PaidAt           *time.Time
	CancelReason     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ReceivableModel) TableName() string {
	return "receivables"
}

// ToDomain converts the persistence model to a domain Receivable
func (m *ReceivableModel) ToDomain() *ledger.Receivable {
	r := &ledger.Receivable{
		ReceivableNumber: m.ReceivableNumber,
		DebtorID:         m.DebtorID,
		DebtorName:       m.DebtorName,
		SourceType:       m.SourceType,
		SourceID:         m.SourceID,
		SourceNumber:     m.SourceNumber,
		Description:      m.Description,
		Amount:           m.Amount,
		PaidAmount:       m.PaidAmount,
		NetAmount:        m.NetAmount,
		Status:           m.Status,
		PaymentMethod:    m.PaymentMethod,
		BankAccountID:    m.BankAccountID,
		DueDate:          m.DueDate,
		PaidAt:           m.PaidAt,
		CancelReason:     m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Receivable
func (m *ReceivableModel) FromDomain(r *ledger.Receivable) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.ReceivableNumber = r.ReceivableNumber
	m.DebtorID = r.DebtorID
	m.DebtorName = r.DebtorName
	m.SourceType = r.SourceType
	m.SourceID = r.SourceID
	m.SourceNumber = r.SourceNumber
	m.Description = r.Description
	m.Amount = r.Amount
	m.PaidAmount = r.PaidAmount
	m.NetAmount = r.NetAmount
	m.Status = r.Status
	m.PaymentMethod = r.PaymentMethod
	m.BankAccountID = r.BankAccountID
	m.DueDate = r.DueDate
	m.PaidAt = r.PaidAt
	m.CancelReason = r.CancelReason
}

// ReceivableModelFromDomain creates a persistence model from a domain Receivable
func ReceivableModelFromDomain(r *ledger.Receivable) *ReceivableModel {
	m := &ReceivableModel{}
	m.FromDomain(r)
	return m
}

// BoletoModel is the persistence model for the Boleto aggregate root.
type BoletoModel struct {
	TenantAggregateModel
	BoletoNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_boleto_tenant_number,priority:2"`
	DebtorID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	ReceivableID  *uuid.UUID          `gorm:"type:uuid;index"`
	Amount        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DueDate       time.Time           `gorm:"not null;index"`
	Status        ledger.BoletoStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt        *time.Time
	BankAccountID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BoletoModel) TableName() string {
	return "boletos"
}

// ToDomain converts the persistence model to a domain Boleto
func (m *BoletoModel) ToDomain() *ledger.Boleto {
	b := &ledger.Boleto{
		BoletoNumber:  m.BoletoNumber,
		DebtorID:      m.DebtorID,
		ReceivableID:  m.ReceivableID,
		Amount:        m.Amount,
		PaidAmount:    m.PaidAmount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaidAt:        m.PaidAt,
		BankAccountID: m.BankAccountID,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain Boleto
func (m *BoletoModel) FromDomain(b *ledger.Boleto) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.BoletoNumber = b.BoletoNumber
	m.DebtorID = b.DebtorID
	m.ReceivableID = b.ReceivableID
	m.Amount = b.Amount
	m.PaidAmount = b.PaidAmount
	m.DueDate = b.DueDate
	m.Status = b.Status
	m.PaidAt = b.PaidAt
	m.BankAccountID = b.BankAccountID
}

// BoletoModelFromDomain creates a persistence model from a domain Boleto
func BoletoModelFromDomain(b *ledger.Boleto) *BoletoModel {
	m := &BoletoModel{}
	m.FromDomain(b)
	return m
}
