package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/services/invoices"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const ItemsPerPage = 6

type InvoiceActions interface {
	Create(ctx context.Context, form invoices.Form) (invoices.Outcome, error)
	Update(ctx context.Context, id string, form invoices.Form) (invoices.Outcome, error)
	Delete(ctx context.Context, id string) (invoices.Outcome, error)
}

type InvoiceReader interface {
	SearchInvoices(ctx context.Context, f repository.InvoiceFilter) ([]models.Invoice, int64, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
}

type CustomerReader interface {
	List(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

type InvoiceHandler struct {
	actions   InvoiceActions
	invoices  InvoiceReader
	customers CustomerReader
	log       zerolog.Logger
}

func NewInvoiceHandler(actions InvoiceActions, invoices InvoiceReader, customers CustomerReader, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		actions:   actions,
		invoices:  invoices,
		customers: customers,
		log:       log,
	}
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var form invoices.Form
	if err := c.ShouldBind(&form); err != nil {
		h.respond(c, invoices.Outcome{}, invoices.PayloadError(invoices.MsgCreateInvalid, err))
		return
	}

	outcome, err := h.actions.Create(c.Request.Context(), form)
	h.respond(c, outcome, err)
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var form invoices.Form
	if err := c.ShouldBind(&form); err != nil {
		h.respond(c, invoices.Outcome{}, invoices.PayloadError(invoices.MsgUpdateInvalid, err))
		return
	}

	outcome, err := h.actions.Update(c.Request.Context(), c.Param("id"), form)
	h.respond(c, outcome, err)
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	outcome, err := h.actions.Delete(c.Request.Context(), c.Param("id"))
	h.respond(c, outcome, err)
}

// respond maps an action result onto HTTP. Redirects are 303 See Other.
func (h *InvoiceHandler) respond(c *gin.Context, outcome invoices.Outcome, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		var verr *invoices.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, invoices.StateFromError(err))
		return
	}

	switch outcome.Kind {
	case invoices.Redirect:
		c.Redirect(http.StatusSeeOther, outcome.Location)
	default:
		c.JSON(http.StatusOK, gin.H{})
	}
}

// ListInvoices serves the dashboard table: ?query= matches customer name or
// email, ?status= filters (repeatable or comma separated), ?page= is 1-based.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var statuses []string
	for _, s := range c.QueryArray("status") {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, part)
			}
		}
	}

	items, total, err := h.invoices.SearchInvoices(c.Request.Context(), repository.InvoiceFilter{
		Query:    strings.TrimSpace(c.Query("query")),
		Statuses: statuses,
		Limit:    ItemsPerPage,
		Offset:   (page - 1) * ItemsPerPage,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to fetch invoices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	if items == nil {
		items = []models.Invoice{}
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":    items,
		"total":       total,
		"page":        page,
		"total_pages": (total + ItemsPerPage - 1) / ItemsPerPage,
	})
}

// GetInvoice loads an invoice for the edit form with its customer attached.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	invoice, err := h.invoices.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		h.log.Error().Err(err).Str("invoice_id", c.Param("id")).Msg("failed to fetch invoice")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}

	customer, err := h.customers.GetByID(ctx, invoice.CustomerID)
	switch {
	case err == nil:
		invoice.Customer = customer
	case !errors.Is(err, gorm.ErrRecordNotFound):
		h.log.Error().Err(err).Str("customer_id", invoice.CustomerID).Msg("failed to fetch customer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to fetch customers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}
