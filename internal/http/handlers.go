package http

import (
	"fmt"
	"net/http"

	"duitku/internal/core"
	"duitku/internal/report"
	"duitku/internal/services"
)

const (
	msgAdded       = "Transaksi berhasil ditambahkan! 🎉"
	msgUpdated     = "Transaksi berhasil diperbarui! ✨"
	msgDeleted     = "Transaksi berhasil dihapus! 🗑️"
	msgCleared     = "Semua data berhasil dihapus! 🧹"
	msgExported    = "Data berhasil diekspor! 📄"
	msgExportEmpty = "Tidak ada data untuk diekspor."
	msgImported    = "Data berhasil diimpor! 🚀"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "ready"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	key := fmt.Sprintf("dashboard:v%d", s.version.Load())
	if cached, ok := s.dashboardCache.Get(key); ok {
		writeData(w, cached)
		return
	}
	dashboard := toDashboardJSON(s.service.View().Dashboard)
	s.dashboardCache.Set(key, dashboard)
	writeData(w, dashboard)
}

// handleHistory applies the query parameters as the session's view state
// before rendering, so a later request without parameters sees the same
// filter.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	typeFilter := query.Get("type")
	search := query.Get("search")
	page := queryPage(r)

	key := fmt.Sprintf("history:v%d:%s:%s:%d", s.version.Load(), typeFilter, search, page)
	if cached, ok := s.historyCache.Get(key); ok {
		writeData(w, cached)
		return
	}

	s.service.SetFilter(typeFilter, search)
	result := s.service.SetPage(page)
	history := toHistoryJSON(result.History)
	s.historyCache.Set(key, history)
	writeData(w, history)
}

// handleReport serves range totals and chart series. Preset periods resolve
// relative to the server clock; period=custom requires start and end dates.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period := report.Period(query.Get("period"))
	if period == "" {
		period = report.PeriodMonthly
	}

	var custom report.Range
	if period == report.PeriodCustom {
		start, err := core.ParseDate(query.Get("start"))
		if err != nil {
			writeError(w, &core.ValidationError{Field: "start", Reason: err})
			return
		}
		end, err := core.ParseDate(query.Get("end"))
		if err != nil {
			writeError(w, &core.ValidationError{Field: "end", Reason: err})
			return
		}
		custom = report.Range{Start: start, End: end}
	}

	key := fmt.Sprintf("report:v%d:%s:%s:%s", s.version.Load(), period, custom.Start.ISO(), custom.End.ISO())
	if cached, ok := s.reportCache.Get(key); ok {
		writeData(w, cached)
		return
	}

	rep, err := s.service.Report(period, custom)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := toReportJSON(rep)
	s.reportCache.Set(key, resp)
	writeData(w, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	tx, err := parseTransaction(req)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.service.AddTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidate()
	writeSuccess(w, NotificationSuccess, msgAdded, toViewJSON(result))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	patch, err := parsePatch(req)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.service.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidate()
	writeSuccess(w, NotificationSuccess, msgUpdated, toViewJSON(result))
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	token, err := s.service.RequestDelete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]string{"token": token})
}

func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	result, err := s.service.ConfirmDelete(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidate()
	writeSuccess(w, NotificationSuccess, msgDeleted, toViewJSON(result))
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	token := s.service.RequestClear()
	writeData(w, map[string]string{"token": token})
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	result, err := s.service.ConfirmClear(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidate()
	writeSuccess(w, NotificationSuccess, msgCleared, toViewJSON(result))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	txs := s.service.ExportAll()
	records := make([]transactionJSON, 0, len(txs))
	for i := range txs {
		records = append(records, *toTransactionJSON(&txs[i]))
	}

	if len(records) == 0 {
		writeSuccess(w, NotificationInfo, msgExportEmpty, records)
		return
	}
	writeSuccess(w, NotificationSuccess, msgExported, records)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload []transactionJSON
	if err := decodeBody(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	txs := make([]core.Transaction, 0, len(payload))
	for _, rec := range payload {
		date, err := core.ParseDate(rec.Date)
		if err != nil {
			writeError(w, &core.ValidationError{Field: "date", Reason: err})
			return
		}
		txs = append(txs, core.Transaction{
			ID:          rec.ID,
			Type:        core.Type(rec.Type),
			Amount:      core.Money{Rupiah: rec.Amount},
			Category:    rec.Category,
			Date:        date,
			Description: rec.Description,
		})
	}

	result, err := s.service.Import(r.Context(), txs)
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidate()
	writeSuccess(w, NotificationSuccess, msgImported, toViewJSON(result))
}

func toViewJSON(result services.Result) viewJSON {
	return viewJSON{
		Transaction: toTransactionJSON(result.Transaction),
		Dashboard:   toDashboardJSON(result.Dashboard),
		History:     toHistoryJSON(result.History),
	}
}
