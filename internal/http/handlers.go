package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"tally/internal/core"
	"tally/internal/exchange"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	report, err := s.service.Report(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	e.ID = 0

	created, err := s.service.CreateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	e, err := s.service.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	var e core.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	e.ID = id

	if err := s.service.UpdateExpense(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	if err := s.service.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	report, err := s.service.Report(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	g, err := core.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	totals, err := s.service.PeriodReport(r.Context(), f, g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	totals, err := s.service.CategoryReport(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	format, err := exportFormat(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	switch format {
	case exchange.FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	}

	if _, err := s.service.Export(r.Context(), f, format, w); err != nil {
		// Headers are already out; a truncated body is the only signal left.
		slog.ErrorContext(r.Context(), "Export failed mid-stream", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format, err := exportFormat(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	count, err := s.service.Import(r.Context(), r.Body, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": count})
}

func exportFormat(r *http.Request) (exchange.Format, error) {
	switch v := r.URL.Query().Get("format"); v {
	case "", string(exchange.FormatCSV):
		return exchange.FormatCSV, nil
	case string(exchange.FormatXLSX):
		return exchange.FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv or xlsx)", v)
	}
}
