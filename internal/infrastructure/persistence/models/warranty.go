package models

import (
	"time"

	"github.com/butcetakip/backend/internal/domain/warranty"
)

// WarrantyItemModel is the persistence model for tracked renewals
type WarrantyItemModel struct {
	BaseModel
	Type               string `gorm:"type:varchar(32);not null;index"`
	Name               string `gorm:"type:varchar(255);not null"`
	Location           string `gorm:"type:varchar(255)"`
	StartDate          *time.Time
	EndDate            *time.Time `gorm:"index"`
	Note               string     `gorm:"type:text"`
	Domain             string     `gorm:"type:varchar(255)"`
	Issuer             string     `gorm:"type:varchar(255)"`
	RenewalResponsible string     `gorm:"type:varchar(255)"`
	ReminderDays       int        `gorm:"not null;default:30"`
	IsActive           bool       `gorm:"not null;default:true;index"`
}

// TableName specifies the table name
func (WarrantyItemModel) TableName() string {
	return "warranty_items"
}

// ToDomain converts the model to a domain entity
func (m *WarrantyItemModel) ToDomain() *warranty.Item {
	return &warranty.Item{
		BaseEntity:         m.BaseModel.ToDomain(),
		Type:               warranty.ItemType(m.Type),
		Name:               m.Name,
		Location:           m.Location,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		Note:               m.Note,
		Domain:             m.Domain,
		Issuer:             m.Issuer,
		RenewalResponsible: m.RenewalResponsible,
		ReminderDays:       m.ReminderDays,
		IsActive:           m.IsActive,
	}
}

// WarrantyItemModelFromDomain converts a domain entity to the model
func WarrantyItemModelFromDomain(i *warranty.Item) *WarrantyItemModel {
	m := &WarrantyItemModel{
		Type:               string(i.Type),
		Name:               i.Name,
		Location:           i.Location,
		StartDate:          i.StartDate,
		EndDate:            i.EndDate,
		Note:               i.Note,
		Domain:             i.Domain,
		Issuer:             i.Issuer,
		RenewalResponsible: i.RenewalResponsible,
		ReminderDays:       i.ReminderDays,
		IsActive:           i.IsActive,
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}
