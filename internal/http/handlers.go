package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"goldbook/internal/classify"
	"goldbook/internal/pipeline"
	"goldbook/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type ingestSalesRequest struct {
	Rows    []map[string]any  `json:"rows"`
	Mapping map[string]string `json:"mapping"`
}

func (h *Handler) IngestSales(w http.ResponseWriter, r *http.Request) {
	var req ingestSalesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "rows are required")
		return
	}

	result, err := h.svc.IngestSales(req.Rows, req.Mapping)
	if err != nil {
		writeError(w, ingestStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) IngestPOS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	transactions, _, err := r.FormFile("transactions")
	if err != nil {
		writeError(w, http.StatusBadRequest, "transactions field is required")
		return
	}
	defer transactions.Close()

	var accounts io.Reader
	if file, _, err := r.FormFile("accounts"); err == nil {
		defer file.Close()
		accounts = file
	}

	result, err := h.svc.IngestPOS(transactions, accounts)
	if err != nil {
		writeError(w, ingestStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) IngestQuarterly(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.svc.IngestQuarterly(file)
	if err != nil {
		writeError(w, ingestStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) IngestCashbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	var suppliers []string
	if raw := strings.TrimSpace(r.FormValue("suppliers")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				suppliers = append(suppliers, name)
			}
		}
	}

	count, err := h.svc.IngestCashbook(file, suppliers)
	if err != nil {
		writeError(w, ingestStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": count})
}

func (h *Handler) ListSales(w http.ResponseWriter, _ *http.Request) {
	items := h.svc.Sales()
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	var quarterly *bool
	if raw := strings.TrimSpace(r.URL.Query().Get("qtr")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "qtr must be true or false")
			return
		}
		quarterly = &value
	}
	items := h.svc.Ledger(quarterly)
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var goldRate *float64
	if raw := strings.TrimSpace(query.Get("gold_rate")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			writeError(w, http.StatusBadRequest, "gold_rate must be a non-negative number")
			return
		}
		goldRate = &value
	}
	includeQtr, err := parseOptionalBool(query.Get("include_qtr"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "include_qtr must be true or false")
		return
	}

	rows := h.svc.MonthlyReport(goldRate, includeQtr)
	writeJSON(w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}

func (h *Handler) FixedCostReport(w http.ResponseWriter, r *http.Request) {
	elapsed, err := parseOptionalInt(r.URL.Query().Get("elapsed_months"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows := h.svc.FixedCostReport(elapsed)
	writeJSON(w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}

func (h *Handler) VariableCostReport(w http.ResponseWriter, _ *http.Request) {
	rows := h.svc.VariableCostReport()
	writeJSON(w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}

func (h *Handler) SalesByMonth(w http.ResponseWriter, r *http.Request) {
	includeQtr, err := parseOptionalBool(r.URL.Query().Get("include_qtr"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "include_qtr must be true or false")
		return
	}
	rows := h.svc.SalesByMonth(includeQtr)
	writeJSON(w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}

func (h *Handler) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	includeQtr, err := parseOptionalBool(r.URL.Query().Get("include_qtr"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "include_qtr must be true or false")
		return
	}
	rows := h.svc.SalesByCategory(includeQtr)
	writeJSON(w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}

// ingestStatus maps ingestion failures onto HTTP statuses: schema rejections
// are bad requests, purity classification failures are unprocessable data,
// anything else is a malformed upload.
func ingestStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrSchema):
		return http.StatusBadRequest
	case errors.Is(err, classify.ErrNoPurityBand), errors.Is(err, classify.ErrAmbiguousPurityBand):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func parseOptionalInt(raw string, defaultValue int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid integer", raw)
	}
	return value, nil
}

func parseOptionalBool(raw string, defaultValue bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
