package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"invoice-dashboard-backend/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	r := gin.New()
	pageCache := cache.NewPageCache(cache.NewMemoryStore(), time.Minute, zerolog.Nop())
	RegisterRoutes(r, db, pageCache, prometheus.NewRegistry(), zerolog.Nop())
	return r, mock
}

func expectListing(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`SELECT .* FROM "invoices" LEFT JOIN "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"}))
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateInvalidatesListing(t *testing.T) {
	r, mock := newTestServer(t)

	expectListing(mock)
	w := do(r, httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(cache.HeaderCache))

	w = do(r, httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil))
	assert.Equal(t, "HIT", w.Header().Get(cache.HeaderCache))

	mock.ExpectExec(`INSERT INTO "invoices"`).
		WithArgs(sqlmock.AnyArg(), "c1", int64(1250), "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	form := url.Values{"customerId": {"c1"}, "amount": {"12.50"}, "status": {"pending"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/invoices", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = do(r, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/invoices", w.Header().Get("Location"))

	expectListing(mock)
	w = do(r, httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil))
	assert.Equal(t, "MISS", w.Header().Get(cache.HeaderCache))

	assert.NoError(t, mock.ExpectationsWereMet())

	w = do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `invoice_actions_total{action="create",outcome="success"} 1`)
}

func TestUpdateValidationMakesNoStatement(t *testing.T) {
	r, mock := newTestServer(t)

	form := url.Values{"customerId": {"c2"}, "amount": {"0"}, "status": {"paid"}}
	req := httptest.NewRequest(http.MethodPut, "/dashboard/invoices/inv1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{
		"errors": {"amount": ["Please enter an amount greater than $0"]},
		"message": "Missing fields. Failed to update the invoice"
	}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteViaFormPost(t *testing.T) {
	r, mock := newTestServer(t)

	mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
		WithArgs("inv1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := do(r, httptest.NewRequest(http.MethodPost, "/dashboard/invoices/inv1/delete", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreFailure(t *testing.T) {
	r, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO "invoices"`).WillReturnError(assert.AnError)

	form := url.Values{"customerId": {"c1"}, "amount": {"12.50"}, "status": {"pending"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/invoices", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.JSONEq(t, `{"message":"Database error: failed to create an invoice"}`, w.Body.String())
}
