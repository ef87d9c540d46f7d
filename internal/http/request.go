package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"duitku/internal/core"
	"duitku/internal/ledger"
)

// maxBodySize caps request bodies. Import payloads are the largest we
// accept; 2 MiB is far beyond any realistic ledger.
const maxBodySize = 2 << 20

// transactionRequest is the wire form of a create payload. Amount accepts
// either a JSON number or a display string like "100.000".
type transactionRequest struct {
	Type        string          `json:"type"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// updateRequest carries only the fields present in the payload; absent
// fields keep their stored values. Type is rejected elsewhere: it cannot
// change after creation.
type updateRequest struct {
	Type        *string         `json:"type"`
	Amount      json.RawMessage `json:"amount"`
	Category    *string         `json:"category"`
	Date        *string         `json:"date"`
	Description *string         `json:"description"`
}

type confirmRequest struct {
	Token string `json:"token"`
}

func decodeBody(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// parseAmount accepts a bare JSON number or a quoted string in either raw
// ("100000") or grouped display ("100.000") form.
func parseAmount(raw json.RawMessage) (int64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, errors.New("amount is required")
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("malformed amount: %w", err)
		}
		return core.ParseAmount(s)
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", trimmed)
	}
	return n, nil
}

func parseTransaction(req transactionRequest) (core.Transaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "amount", Reason: err}
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "date", Reason: err}
	}
	return core.Transaction{
		Type:        core.Type(strings.TrimSpace(req.Type)),
		Amount:      core.Money{Rupiah: amount},
		Category:    strings.TrimSpace(req.Category),
		Date:        date,
		Description: strings.TrimSpace(req.Description),
	}, nil
}

func parsePatch(req updateRequest) (ledger.Patch, error) {
	if req.Type != nil {
		return ledger.Patch{}, &core.ValidationError{Field: "type", Reason: core.ErrTypeImmutable}
	}

	var patch ledger.Patch
	if len(req.Amount) > 0 {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return ledger.Patch{}, &core.ValidationError{Field: "amount", Reason: err}
		}
		patch.Amount = &core.Money{Rupiah: amount}
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		patch.Category = &category
	}
	if req.Date != nil {
		date, err := core.ParseDate(*req.Date)
		if err != nil {
			return ledger.Patch{}, &core.ValidationError{Field: "date", Reason: err}
		}
		patch.Date = &date
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		patch.Description = &description
	}
	return patch, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid transaction id %q", raw)
	}
	return id, nil
}

func queryPage(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// extractClientIP resolves the caller address, trusting proxy headers in
// order before falling back to the socket peer.
func extractClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.Index(forwarded, ","); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}
