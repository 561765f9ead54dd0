package invoices

import (
	"context"
	"time"

	"invoice-dashboard-backend/internal/metrics"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// ListingPath is the invoice listing view. Every successful write invalidates
// it, and create/update send the caller there.
const ListingPath = "/dashboard/invoices"

const (
	MsgCreateInvalid = "Missing fields. Failed to create an invoice"
	MsgUpdateInvalid = "Missing fields. Failed to update the invoice"
	msgCreateFailed  = "Database error: failed to create an invoice"
	msgUpdateFailed  = "Database error: failed to update the invoice"
	msgDeleteFailed  = "Database error: failed to delete an invoice"
)

type InvoiceStore interface {
	Insert(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, id string, changes repository.InvoiceChanges) error
	Delete(ctx context.Context, id string) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// Writer validates invoice forms and writes them with one statement each.
// It holds no per-request state and is safe for concurrent use.
type Writer struct {
	store       InvoiceStore
	invalidator Invalidator
	metrics     metrics.InvoiceMetrics
	log         zerolog.Logger
	validator   *validator.Validate
	now         func() time.Time
	newID       func() uuid.UUID
}

func NewWriter(store InvoiceStore, invalidator Invalidator, m metrics.InvoiceMetrics, log zerolog.Logger) *Writer {
	return &Writer{
		store:       store,
		invalidator: invalidator,
		metrics:     m,
		log:         log.With().Str("component", "invoice_writer").Logger(),
		validator:   newValidator(),
		now:         time.Now,
		newID:       uuid.New,
	}
}

// Create inserts a new invoice dated today and redirects to the listing.
func (w *Writer) Create(ctx context.Context, form Form) (Outcome, error) {
	input, err := w.validate(form, MsgCreateInvalid)
	if err != nil {
		return w.rejected("create", err)
	}

	invoice := &models.Invoice{
		ID:         w.newID(),
		CustomerID: input.CustomerID,
		Amount:     input.AmountInCents,
		Status:     input.Status,
		Date:       w.today(),
	}
	if err := w.store.Insert(ctx, invoice); err != nil {
		return w.failed(ctx, "create", msgCreateFailed, err)
	}

	w.log.Info().Str("invoice_id", invoice.ID.String()).Int64("amount", invoice.Amount).Msg("invoice created")
	w.revalidate(ctx)
	w.metrics.ObserveAction("create", metrics.OutcomeSuccess)
	return redirectTo(ListingPath), nil
}

// Update overwrites the invoice's fields, re-stamping its date to today.
func (w *Writer) Update(ctx context.Context, id string, form Form) (Outcome, error) {
	input, err := w.validate(form, MsgUpdateInvalid)
	if err != nil {
		return w.rejected("update", err)
	}

	err = w.store.Update(ctx, id, repository.InvoiceChanges{
		CustomerID: input.CustomerID,
		Amount:     input.AmountInCents,
		Status:     input.Status,
		Date:       w.today(),
	})
	if err != nil {
		return w.failed(ctx, "update", msgUpdateFailed, err)
	}

	w.log.Info().Str("invoice_id", id).Int64("amount", input.AmountInCents).Msg("invoice updated")
	w.revalidate(ctx)
	w.metrics.ObserveAction("update", metrics.OutcomeSuccess)
	return redirectTo(ListingPath), nil
}

// Delete removes the invoice. The id is not checked, and deleting an id that
// does not exist completes normally.
func (w *Writer) Delete(ctx context.Context, id string) (Outcome, error) {
	if err := w.store.Delete(ctx, id); err != nil {
		return w.failed(ctx, "delete", msgDeleteFailed, err)
	}

	w.log.Info().Str("invoice_id", id).Msg("invoice deleted")
	w.revalidate(ctx)
	w.metrics.ObserveAction("delete", metrics.OutcomeSuccess)
	return completed(), nil
}

func (w *Writer) today() datatypes.Date {
	y, m, d := w.now().UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (w *Writer) rejected(action string, err error) (Outcome, error) {
	w.log.Debug().Err(err).Str("action", action).Msg("invoice form rejected")
	w.metrics.ObserveAction(action, metrics.OutcomeInvalid)
	return Outcome{}, err
}

func (w *Writer) failed(ctx context.Context, action, message string, cause error) (Outcome, error) {
	w.log.Error().Ctx(ctx).Err(cause).Str("action", action).Msg("invoice statement failed")
	w.metrics.ObserveAction(action, metrics.OutcomeDBError)
	return Outcome{}, &PersistenceError{Op: action, Message: message}
}

// revalidate drops the cached listing. The row is already written, so a
// failure here only leaves the cache stale until its TTL.
func (w *Writer) revalidate(ctx context.Context) {
	if err := w.invalidator.Invalidate(ctx, ListingPath); err != nil {
		w.log.Warn().Err(err).Str("path", ListingPath).Msg("failed to invalidate page cache")
	}
}
