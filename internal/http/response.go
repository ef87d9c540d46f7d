// Package http exposes the ledger as a JSON API. Handlers translate wire
// payloads into facade calls and facade results into response envelopes;
// no ledger logic lives here.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"duitku/internal/core"
	"duitku/internal/ledger"
	"duitku/internal/report"
)

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// Notification is the toast the UI shows after an operation.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type apiResponse struct {
	Success      bool          `json:"success"`
	Notification *Notification `json:"notification,omitempty"`
	Error        string        `json:"error,omitempty"`
	Field        string        `json:"field,omitempty"`
	Data         any           `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

func writeSuccess(w http.ResponseWriter, notifType NotificationType, message string, data any) {
	writeJSON(w, http.StatusOK, apiResponse{
		Success:      true,
		Notification: &Notification{Type: string(notifType), Message: message},
		Data:         data,
	})
}

// writeError maps the ledger error taxonomy onto HTTP statuses: validation
// failures are 422, missing IDs are 404, unknown confirmation tokens are
// 409, anything else is a 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	field := ""

	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusUnprocessableEntity
		field = vErr.Field
	case core.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrUnknownConfirmation):
		status = http.StatusConflict
	}

	writeJSON(w, status, apiResponse{
		Success:      false,
		Error:        err.Error(),
		Field:        field,
		Notification: &Notification{Type: string(NotificationError), Message: err.Error()},
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{
		Success:      false,
		Error:        message,
		Notification: &Notification{Type: string(NotificationError), Message: message},
	})
}

// Wire DTOs. The report structs stay JSON-agnostic; the shapes below are
// the API contract.

type changeJSON struct {
	Percent   float64 `json:"percent"`
	Sign      string  `json:"sign"`
	Favorable bool    `json:"favorable"`
	Label     string  `json:"label"`
}

type recentJSON struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
}

type dashboardJSON struct {
	Balance        int64        `json:"balance"`
	BalanceDisplay string       `json:"balanceDisplay"`
	MonthlyIncome  int64        `json:"monthlyIncome"`
	MonthlyExpense int64        `json:"monthlyExpense"`
	TotalCount     int          `json:"totalCount"`
	Recent         []recentJSON `json:"recent"`
	BalanceChange  changeJSON   `json:"balanceChange"`
	IncomeChange   changeJSON   `json:"incomeChange"`
	ExpenseChange  changeJSON   `json:"expenseChange"`
}

type historyRowJSON struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	TypeLabel   string `json:"typeLabel"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type historyJSON struct {
	Rows         []historyRowJSON `json:"rows"`
	TotalMatched int              `json:"totalMatched"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
	RangeStart   int              `json:"rangeStart"`
	RangeEnd     int              `json:"rangeEnd"`
	Footer       string           `json:"footer"`
}

type monthPointJSON struct {
	Label   string `json:"label"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

type categorySliceJSON struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Total    int64  `json:"total"`
}

type reportJSON struct {
	Period         string              `json:"period"`
	Start          string              `json:"start"`
	End            string              `json:"end"`
	Income         int64               `json:"income"`
	Expense        int64               `json:"expense"`
	Net            int64               `json:"net"`
	IncomeDisplay  string              `json:"incomeDisplay"`
	ExpenseDisplay string              `json:"expenseDisplay"`
	NetDisplay     string              `json:"netDisplay"`
	Months         []monthPointJSON    `json:"months"`
	Categories     []categorySliceJSON `json:"categories"`
}

type transactionJSON struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type viewJSON struct {
	Transaction *transactionJSON `json:"transaction,omitempty"`
	Dashboard   dashboardJSON    `json:"dashboard"`
	History     historyJSON      `json:"history"`
}

func toChangeJSON(c report.ChangeStat) changeJSON {
	return changeJSON{
		Percent:   c.Percent,
		Sign:      string(c.Sign),
		Favorable: c.Favorable,
		Label:     c.Label,
	}
}

func toDashboardJSON(d report.Dashboard) dashboardJSON {
	recent := make([]recentJSON, 0, len(d.Recent))
	for _, r := range d.Recent {
		recent = append(recent, recentJSON{
			ID:       r.ID,
			Type:     string(r.Type),
			Category: r.Category,
			Date:     r.Date,
			Amount:   r.Amount,
		})
	}
	return dashboardJSON{
		Balance:        d.Balance,
		BalanceDisplay: d.BalanceDisplay,
		MonthlyIncome:  d.MonthlyIncome,
		MonthlyExpense: d.MonthlyExpense,
		TotalCount:     d.TotalCount,
		Recent:         recent,
		BalanceChange:  toChangeJSON(d.BalanceChange),
		IncomeChange:   toChangeJSON(d.IncomeChange),
		ExpenseChange:  toChangeJSON(d.ExpenseChange),
	}
}

func toHistoryJSON(p report.Page) historyJSON {
	rows := make([]historyRowJSON, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, historyRowJSON{
			ID:          r.ID,
			Date:        r.Date,
			Type:        string(r.Type),
			TypeLabel:   r.TypeLabel,
			Category:    r.Category,
			Amount:      r.Amount,
			Description: r.Description,
		})
	}
	return historyJSON{
		Rows:         rows,
		TotalMatched: p.TotalMatched,
		Page:         p.Number,
		TotalPages:   p.TotalPages,
		RangeStart:   p.RangeStart,
		RangeEnd:     p.RangeEnd,
		Footer:       p.Footer,
	}
}

func toReportJSON(rep report.Report) reportJSON {
	months := make([]monthPointJSON, 0, len(rep.Months))
	for _, p := range rep.Months {
		months = append(months, monthPointJSON{Label: p.Label, Income: p.Income, Expense: p.Expense})
	}
	categories := make([]categorySliceJSON, 0, len(rep.Categories))
	for _, c := range rep.Categories {
		categories = append(categories, categorySliceJSON{Category: c.Category, Name: c.Name, Total: c.Total})
	}
	return reportJSON{
		Period:         string(rep.Period),
		Start:          rep.Start.ISO(),
		End:            rep.End.ISO(),
		Income:         rep.Income,
		Expense:        rep.Expense,
		Net:            rep.Net,
		IncomeDisplay:  rep.IncomeDisplay,
		ExpenseDisplay: rep.ExpenseDisplay,
		NetDisplay:     rep.NetDisplay,
		Months:         months,
		Categories:     categories,
	}
}

func toTransactionJSON(tx *core.Transaction) *transactionJSON {
	if tx == nil {
		return nil
	}
	return &transactionJSON{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.Rupiah,
		Category:    tx.Category,
		Date:        tx.Date.ISO(),
		Description: tx.Description,
	}
}
