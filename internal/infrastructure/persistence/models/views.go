package models

import (
	"github.com/butcetakip/backend/internal/domain/views"
	"github.com/google/uuid"
)

// SavedViewModel is the persistence model for user-scoped grid views
type SavedViewModel struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_saved_views_user_key,unique"`
	Key     string    `gorm:"type:varchar(64);not null;index:idx_saved_views_user_key,unique"`
	Payload []byte    `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name
func (SavedViewModel) TableName() string {
	return "saved_views"
}

// ToDomain converts the model to a domain entity
func (m *SavedViewModel) ToDomain() *views.SavedView {
	return &views.SavedView{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Key:        m.Key,
		Payload:    m.Payload,
	}
}

// SavedViewModelFromDomain converts a domain entity to the model
func SavedViewModelFromDomain(v *views.SavedView) *SavedViewModel {
	m := &SavedViewModel{
		UserID:  v.UserID,
		Key:     v.Key,
		Payload: v.Payload,
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}
