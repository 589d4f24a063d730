package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldbook/internal/classify"
	"goldbook/internal/service"
	"goldbook/internal/store"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	income := classify.Taxonomy{
		"Sales": {"QTR Making Charges": {Values: []string{"QTR MAKING"}}},
	}
	expense := classify.Taxonomy{
		"Operations": {"Utilities": {Values: []string{"DEWA"}, Key: "FIXED"}},
	}
	svc := service.New(store.New(), classify.NewResolver(income, expense), service.Options{
		DefaultGoldRate: 390,
		Now:             func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) },
	})
	return NewRouter(NewHandler(svc), zerolog.Nop())
}

const salesBody = `{
	"rows": [{
		"invoice_number": "S1001",
		"date": "2025-01-15",
		"customer": "C042",
		"item_code": "18BRA",
		"purity": 0.755,
		"unit_quantity": 1,
		"gross_weight": 25.0,
		"pure_weight": 18.875,
		"making_rate": 12.0,
		"making_value": 300.0
	}]
}`

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, testRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestIngestSalesAndReport(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/ingest/sales", salesBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ingest struct {
		BatchID string `json:"batch_id"`
		Records int    `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingest))
	assert.NotEmpty(t, ingest.BatchID)
	assert.Equal(t, 1, ingest.Records)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/sales", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reports/monthly?gold_rate=0", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Items []struct {
			Month       string `json:"month"`
			TotalIncome string `json:"total_income"`
			Position    string `json:"position"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Items, 1)
	assert.Equal(t, "2025-01", report.Items[0].Month)
	assert.Equal(t, "300", report.Items[0].TotalIncome)
	assert.Equal(t, "Profit", report.Items[0].Position)
}

func TestIngestSalesSchemaViolation(t *testing.T) {
	body := strings.Replace(salesBody, `"rows":`, `"mapping": {"x": "nope"}, "rows":`, 1)
	rec := doRequest(t, testRouter(t), http.MethodPost, "/api/v1/ingest/sales", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestIngestSalesUnknownPurity(t *testing.T) {
	body := strings.Replace(salesBody, "0.755", "0.50", 1)
	rec := doRequest(t, testRouter(t), http.MethodPost, "/api/v1/ingest/sales", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIngestSalesEmptyRows(t *testing.T) {
	rec := doRequest(t, testRouter(t), http.MethodPost, "/api/v1/ingest/sales", `{"rows": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerBadQtrParam(t *testing.T) {
	rec := doRequest(t, testRouter(t), http.MethodGet, "/api/v1/ledger?qtr=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyReportsAreEmptyLists(t *testing.T) {
	router := testRouter(t)
	for _, target := range []string{
		"/api/v1/reports/monthly",
		"/api/v1/reports/costs/fixed",
		"/api/v1/reports/costs/variable",
		"/api/v1/reports/sales/monthly",
		"/api/v1/reports/sales/categories",
	} {
		rec := doRequest(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"count":0`, target)
	}
}
