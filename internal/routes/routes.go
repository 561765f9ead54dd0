package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/cache"
	handler "invoice-dashboard-backend/internal/handlers"
	"invoice-dashboard-backend/internal/metrics"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/services/invoices"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, pageCache *cache.PageCache, registry *prometheus.Registry, log zerolog.Logger) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	writer := invoices.NewWriter(
		invoiceRepo,
		pageCache,
		metrics.NewInvoiceMetrics(registry),
		log,
	)

	invoiceHandler := handler.NewInvoiceHandler(writer, invoiceRepo, customerRepo, log)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	dashboard := r.Group("/dashboard")

	// Invoice form actions
	inv := dashboard.Group("/invoices")
	{
		inv.GET("", pageCache.Middleware(), invoiceHandler.ListInvoices)
		inv.POST("", invoiceHandler.CreateInvoice)
		inv.GET("/:id/edit", invoiceHandler.GetInvoice)
		inv.POST("/:id", invoiceHandler.UpdateInvoice)
		inv.PUT("/:id", invoiceHandler.UpdateInvoice)
		inv.POST("/:id/delete", invoiceHandler.DeleteInvoice)
		inv.DELETE("/:id", invoiceHandler.DeleteInvoice)
	}

	dashboard.GET("/customers", invoiceHandler.ListCustomers)
}
