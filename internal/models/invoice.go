package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice is a row of the invoices table. Amount is stored in cents.
type Invoice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Amount     int64          `gorm:"not null" json:"amount"`
	Status     string         `gorm:"type:varchar(255);not null;index" json:"status"`
	Date       datatypes.Date `gorm:"not null" json:"date"`
	Customer   *Customer      `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
}
