package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
	applog "kakeibo/internal/log"
)

type (
	calendarResponse struct {
		Month string           `json:"month"`
		Days  map[string]int64 `json:"days"`
		Net   int64            `json:"net"`
	}

	reportResponse struct {
		Month           string             `json:"month"`
		Breakdown       ledger.Breakdown   `json:"breakdown"`
		Totals          ledger.MonthTotals `json:"totals"`
		PerDayAllowance int64              `json:"perDayAllowance"`
	}

	entriesResponse struct {
		From   string             `json:"from"`
		To     string             `json:"to"`
		Type   ledger.TypeFilter  `json:"type"`
		Groups []ledger.DateGroup `json:"groups"`
	}

	upsertRequest struct {
		ID         string `json:"id"`
		Date       string `json:"date"`
		Amount     int64  `json:"amount"`
		Type       string `json:"type"`
		CategoryID string `json:"categoryId"`
		Memo       string `json:"memo"`
	}

	upsertResponse struct {
		Date  string     `json:"date"`
		Entry core.Entry `json:"entry"`
	}
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories())
}

// handleCalendar serves the per-day signed totals the calendar screen
// annotates day cells with, plus the month's net total.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}

	snap := s.svc.Snapshot()
	resp := calendarResponse{Month: month, Days: map[string]int64{}}
	for _, date := range snap.Dates() {
		if core.MonthOf(date) != month {
			continue
		}
		total := ledger.DailyTotal(snap, date)
		resp.Days[date] = total
		resp.Net += total
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}

	if series, found := s.seriesCache.Get(month); found {
		s.logger.DebugContext(r.Context(), "Series cache hit", applog.FieldMonth, month)
		writeJSON(w, http.StatusOK, series)
		return
	}

	series := ledger.MonthlySeries(s.svc.Snapshot(), month)
	s.seriesCache.Set(month, series)
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	typ := core.EntryType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ == "" {
		typ = core.Expense
	}
	if !typ.IsValid() {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	key := month + "|" + string(typ)
	if report, found := s.reportCache.Get(key); found {
		s.logger.DebugContext(r.Context(), "Report cache hit", applog.FieldMonth, month, applog.FieldEntryType, string(typ))
		writeJSON(w, http.StatusOK, report)
		return
	}

	snap := s.svc.Snapshot()
	totals := ledger.Totals(snap, month)
	report := reportResponse{
		Month:           month,
		Breakdown:       ledger.CategoryBreakdown(snap, month, typ),
		Totals:          totals,
		PerDayAllowance: ledger.Allowance(totals.Balance, month, time.Now()),
	}
	s.reportCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

// handleListEntries serves the search screen: entries in an inclusive
// date range, filtered by type, grouped by date with signed totals.
// The range defaults to the current month.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := strings.TrimSpace(q.Get("from"))
	if from == "" {
		from = first.Format(core.DateLayout)
	}
	to := strings.TrimSpace(q.Get("to"))
	if to == "" {
		to = first.AddDate(0, 1, -1).Format(core.DateLayout)
	}

	filter := ledger.TypeFilter(strings.TrimSpace(q.Get("type")))
	if filter == "" {
		filter = ledger.FilterAll
	}
	if !filter.IsValid() {
		writeError(w, http.StatusBadRequest, "type must be all, income or expense")
		return
	}

	entries, err := ledger.Filter(ledger.Flatten(s.svc.Snapshot()), from, to, filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		return
	}

	groups := ledger.GroupByDate(entries)
	if groups == nil {
		groups = []ledger.DateGroup{}
	}
	writeJSON(w, http.StatusOK, entriesResponse{From: from, To: to, Type: filter, Groups: groups})
}

func (s *Server) handleUpsertEntry(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	entry := core.Entry{
		ID:         strings.TrimSpace(req.ID),
		Amount:     req.Amount,
		Type:       core.EntryType(strings.TrimSpace(req.Type)),
		CategoryID: strings.TrimSpace(req.CategoryID),
		Memo:       strings.TrimSpace(req.Memo),
	}
	if entry.Type == "" {
		entry.Type = core.Expense
	}

	saved, err := s.svc.UpsertEntry(r.Context(), strings.TrimSpace(req.Date), entry)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}

	s.invalidateMonth(core.MonthOf(req.Date))
	writeJSON(w, http.StatusCreated, upsertResponse{Date: strings.TrimSpace(req.Date), Entry: saved})
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	entryID := r.PathValue("id")

	if err := s.svc.RemoveEntry(r.Context(), date, entryID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no entry "+entryID+" on "+date)
			return
		}
		s.writeMutationError(w, r, err)
		return
	}

	s.invalidateMonth(core.MonthOf(date))
	w.WriteHeader(http.StatusNoContent)
}

// writeMutationError maps mutation failures to status codes: user input
// problems are 422 with the validation message, storage problems are
// 500.
func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *ledger.PersistenceError
	if errors.As(err, &perr) {
		s.logger.ErrorContext(r.Context(), "Ledger write failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "could not save changes, reload and try again")
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

func (s *Server) invalidateMonth(month string) {
	s.seriesCache.Delete(month)
	s.reportCache.Delete(month + "|" + string(core.Income))
	s.reportCache.Delete(month + "|" + string(core.Expense))
}

// monthParam reads and validates the month query parameter, defaulting
// to the current month.
func (s *Server) monthParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = time.Now().Format(core.MonthLayout)
	}
	if !core.ValidMonth(month) {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return "", false
	}
	return month, true
}
