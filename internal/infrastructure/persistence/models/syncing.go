package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wcorders/backend/internal/domain/syncing"
)

// CredentialsModel is the persistence model for the Credentials domain entity.
type CredentialsModel struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreURL       string    `gorm:"type:varchar(255);not null"`
	ConsumerKey    string    `gorm:"type:varchar(255);not null"`
	ConsumerSecret string    `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CredentialsModel) TableName() string {
	return "store_credentials"
}

// ToDomain converts the persistence model to a domain Credentials entity.
func (m *CredentialsModel) ToDomain() *syncing.Credentials {
	return &syncing.Credentials{
		BaseEntity:     m.BaseModel.ToDomain(),
		UserID:         m.UserID,
		StoreURL:       m.StoreURL,
		ConsumerKey:    m.ConsumerKey,
		ConsumerSecret: m.ConsumerSecret,
	}
}

// FromDomain populates the persistence model from a domain Credentials entity.
func (m *CredentialsModel) FromDomain(c *syncing.Credentials) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.StoreURL = c.StoreURL
	m.ConsumerKey = c.ConsumerKey
	m.ConsumerSecret = c.ConsumerSecret
}

// CredentialsModelFromDomain creates a new persistence model from a domain Credentials entity.
func CredentialsModelFromDomain(c *syncing.Credentials) *CredentialsModel {
	m := &CredentialsModel{}
	m.FromDomain(c)
	return m
}

// WatermarkModel is the persistence model for the Watermark domain entity.
type WatermarkModel struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	LastSyncTime time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WatermarkModel) TableName() string {
	return "sync_watermarks"
}

// ToDomain converts the persistence model to a domain Watermark entity.
func (m *WatermarkModel) ToDomain() *syncing.Watermark {
	return &syncing.Watermark{
		BaseEntity:   m.BaseModel.ToDomain(),
		UserID:       m.UserID,
		LastSyncTime: m.LastSyncTime,
	}
}

// FromDomain populates the persistence model from a domain Watermark entity.
func (m *WatermarkModel) FromDomain(w *syncing.Watermark) {
	m.FromDomainBaseEntity(w.BaseEntity)
	m.UserID = w.UserID
	m.LastSyncTime = w.LastSyncTime
}

// WatermarkModelFromDomain creates a new persistence model from a domain Watermark entity.
func WatermarkModelFromDomain(w *syncing.Watermark) *WatermarkModel {
	m := &WatermarkModel{}
	m.FromDomain(w)
	return m
}
