package models

import (
	"time"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/banking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountModel is the persistence model for the BankAccount aggregate root.
type BankAccountModel struct {
	TenantAggregateModel
	Name        string              `gorm:"type:varchar(200);not null"`
	BankName    string              `gorm:"type:varchar(200)"`
	AccountType banking.AccountType `gorm:"type:varchar(20);not null"`
	Balance     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive    bool                `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount
func (m *BankAccountModel) ToDomain() *banking.BankAccount {
	a := &banking.BankAccount{
		Name:        m.Name,
		BankName:    m.BankName,
		AccountType: m.AccountType,
		Balance:     m.Balance,
		IsActive:    m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain BankAccount
func (m *BankAccountModel) FromDomain(a *banking.BankAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Name = a.Name
	m.BankName = a.BankName
	m.AccountType = a.AccountType
	m.Balance = a.Balance
	m.IsActive = a.IsActive
}

// BankAccountModelFromDomain creates a persistence model from a domain BankAccount
func BankAccountModelFromDomain(a *banking.BankAccount) *BankAccountModel {
	m := &BankAccountModel{}
	m.FromDomain(a)
	return m
}

// TransactionModel is the persistence model for bank account ledger entries.
type TransactionModel struct {
	TenantAggregateModel
	BankAccountID   uuid.UUID               `gorm:"type:uuid;not null;index:idx_tx_account_date,priority:1"`
	Type            banking.TransactionType `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Description     string                  `gorm:"type:text;not null"`
	ReferenceType   banking.ReferenceType   `gorm:"type:varchar(30);not null;index"`
	ReferenceID     *uuid.UUID              `gorm:"type:uuid;index"`
	TransactionDate time.Time               `gorm:"not null;index:idx_tx_account_date,priority:2"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "bank_transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *banking.Transaction {
	t := &banking.Transaction{
		BankAccountID:   m.BankAccountID,
		Type:            m.Type,
		Amount:          m.Amount,
		BalanceAfter:    m.BalanceAfter,
		Description:     m.Description,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		TransactionDate: m.TransactionDate,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(t *banking.Transaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.BankAccountID = t.BankAccountID
	m.Type = t.Type
	m.Amount = t.Amount
	m.BalanceAfter = t.BalanceAfter
	m.Description = t.Description
	m.ReferenceType = t.ReferenceType
	m.ReferenceID = t.ReferenceID
	m.TransactionDate = t.TransactionDate
}

// TransactionModelFromDomain creates a persistence model from a domain Transaction
func TransactionModelFromDomain(t *banking.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// CardTransactionModel is the persistence model for card sales.
type CardTransactionModel struct {
	TenantAggregateModel
	DebtorID                *uuid.UUID                    `gorm:"type:uuid;index"`
	ReceivableID            *uuid.UUID                    `gorm:"type:uuid;index"`
	CardType                banking.CardType              `gorm:"type:varchar(10);not null;index"`
	GrossAmount             decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	FeePercentage           decimal.Decimal               `gorm:"type:decimal(8,4);not null"`
	FeeAmount               decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	NetAmount               decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	Status                  banking.CardTransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	SaleDate                time.Time                     `gorm:"not null;index"`
	ExpectedSettlementDate  time.Time                     `gorm:"not null;index"`
	SettledAt               *time.Time
	BankAccountID           *uuid.UUID `gorm:"type:uuid"`
	SettlementTransactionID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CardTransactionModel) TableName() string {
	return "card_transactions"
}

// ToDomain converts the persistence model to a domain CardTransaction
func (m *CardTransactionModel) ToDomain() *banking.CardTransaction {
	c := &banking.CardTransaction{
		DebtorID:                m.DebtorID,
		ReceivableID:            m.ReceivableID,
		CardType:                m.CardType,
		GrossAmount:             m.GrossAmount,
		FeePercentage:           m.FeePercentage,
		FeeAmount:               m.FeeAmount,
		NetAmount:               m.NetAmount,
		Status:                  m.Status,
		SaleDate:                m.SaleDate,
		ExpectedSettlementDate:  m.ExpectedSettlementDate,
		SettledAt:               m.SettledAt,
		BankAccountID:           m.BankAccountID,
		SettlementTransactionID: m.SettlementTransactionID,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain CardTransaction
func (m *CardTransactionModel) FromDomain(c *banking.CardTransaction) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.DebtorID = c.DebtorID
	m.ReceivableID = c.ReceivableID
	m.CardType = c.CardType
	m.GrossAmount = c.GrossAmount
	m.FeePercentage = c.FeePercentage
	m.FeeAmount = c.FeeAmount
	m.NetAmount = c.NetAmount
	m.Status = c.Status
	m.SaleDate = c.SaleDate
	m.ExpectedSettlementDate = c.ExpectedSettlementDate
	m.SettledAt = c.SettledAt
	m.BankAccountID = c.BankAccountID
	m.SettlementTransactionID = c.SettlementTransactionID
}

// CardTransactionModelFromDomain creates a persistence model from a
// domain CardTransaction
func CardTransactionModelFromDomain(c *banking.CardTransaction) *CardTransactionModel {
	m := &CardTransactionModel{}
	m.FromDomain(c)
	return m
}

// CardFeeConfigModel is the persistence model for card fee configurations.
type CardFeeConfigModel struct {
	TenantAggregateModel
	CardType          banking.CardType `gorm:"type:varchar(10);not null;index:idx_fee_tenant_type,priority:2"`
	FeePercentage     decimal.Decimal  `gorm:"type:decimal(8,4);not null"`
	SettlementLagDays int              `gorm:"not null;default:0"`
	IsActive          bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CardFeeConfigModel) TableName() string {
	return "card_fee_configs"
}

// ToDomain converts the persistence model to a domain CardFeeConfig
func (m *CardFeeConfigModel) ToDomain() *banking.CardFeeConfig {
	c := &banking.CardFeeConfig{
		CardType:          m.CardType,
		FeePercentage:     m.FeePercentage,
		SettlementLagDays: m.SettlementLagDays,
		IsActive:          m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain CardFeeConfig
func (m *CardFeeConfigModel) FromDomain(c *banking.CardFeeConfig) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.CardType = c.CardType
	m.FeePercentage = c.FeePercentage
	m.SettlementLagDays = c.SettlementLagDays
	m.IsActive = c.IsActive
}

// CardFeeConfigModelFromDomain creates a persistence model from a
// domain CardFeeConfig
func CardFeeConfigModelFromDomain(c *banking.CardFeeConfig) *CardFeeConfigModel {
	m := &CardFeeConfigModel{}
	m.FromDomain(c)
	return m
}
