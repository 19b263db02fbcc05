// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ondesc/backend/internal/domain/entity"
)

// ClientModel represents the clients table in the database.
type ClientModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"type:varchar(255);not null"`
	AccountID     string         `gorm:"type:varchar(15);not null;uniqueIndex"`
	Phone         string         `gorm:"type:varchar(30)"`
	Tariff        *float64       `gorm:"type:decimal(10,4)"`
	Percent       *float64       `gorm:"type:decimal(5,2)"`
	DueDateConfig string         `gorm:"type:varchar(10)"`
	Status        string         `gorm:"type:varchar(20);not null;default:'PENDENTE';index"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the ClientModel.
func (ClientModel) TableName() string {
	return "clients"
}

// ToEntity converts a ClientModel to a domain Client entity.
func (m *ClientModel) ToEntity() *entity.Client {
	return &entity.Client{
		ID:            m.ID,
		Name:          m.Name,
		AccountID:     m.AccountID,
		Phone:         m.Phone,
		Tariff:        m.Tariff,
		Percent:       m.Percent,
		DueDateConfig: m.DueDateConfig,
		Status:        entity.NormalizeClientStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ClientFromEntity creates a ClientModel from a domain Client entity.
func ClientFromEntity(client *entity.Client) *ClientModel {
	return &ClientModel{
		ID:            client.ID,
		Name:          client.Name,
		AccountID:     client.AccountID,
		Phone:         client.Phone,
		Tariff:        client.Tariff,
		Percent:       client.Percent,
		DueDateConfig: client.DueDateConfig,
		Status:        string(client.Status),
		CreatedAt:     client.CreatedAt,
		UpdatedAt:     client.UpdatedAt,
	}
}
