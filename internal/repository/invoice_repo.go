package repository

import (
	"context"
	"strings"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// InvoiceChanges holds the mutable columns written by an update.
type InvoiceChanges struct {
	CustomerID string
	Amount     int64
	Status     string
	Date       datatypes.Date
}

// Insert writes a single invoice row.
func (r *InvoiceRepository) Insert(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// Update overwrites the mutable columns of the invoice with the given id.
// Zero matching rows is not an error.
func (r *InvoiceRepository) Update(ctx context.Context, id string, changes InvoiceChanges) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_id": changes.CustomerID,
			"amount":      changes.Amount,
			"status":      changes.Status,
			"date":        changes.Date,
		}).Error
}

// Delete removes the invoice row outright. Deleting a missing id is a no-op.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Invoice{}).Error
}

// GetByID fetches a single invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

type InvoiceFilter struct {
	Query    string
	Statuses []string
	Limit    int
	Offset   int
}

// SearchInvoices lists invoices newest first, matching the query against the
// customer name and email, and returns the total count before paging.
func (r *InvoiceRepository) SearchInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dbQuery := r.filtered(ctx, f).Order("invoices.date DESC")
	if f.Limit > 0 {
		dbQuery = dbQuery.Limit(f.Limit).Offset(f.Offset)
	}
	err := dbQuery.Find(&invoices).Error
	return invoices, total, err
}

func (r *InvoiceRepository) filtered(ctx context.Context, f InvoiceFilter) *gorm.DB {
	dbQuery := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Joins("Customer")

	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		dbQuery = dbQuery.Where(`LOWER("Customer"."name") LIKE ? OR LOWER("Customer"."email") LIKE ?`, like, like)
	}
	if len(f.Statuses) > 0 {
		dbQuery = dbQuery.Where("invoices.status IN ?", f.Statuses)
	}
	return dbQuery
}
