package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"tally/internal/core"
	"tally/internal/exchange"
	"tally/internal/storage"
)

type errorResponse struct {
	Error string              `json:"error"`
	Rows  []importRowResponse `json:"rows,omitempty"`
}

type importRowResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: missing records are
// 404, invalid field values are 422, rejected import files are 400 with
// per-row detail, anything else is 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		if ie, ok := exchange.AsImportError(err); ok {
			resp := errorResponse{Error: "import rejected"}
			for _, re := range ie.Rows {
				resp.Rows = append(resp.Rows, importRowResponse{Row: re.Row, Message: re.Err.Error()})
			}
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// filterFromQuery builds a filter from the shared query parameters:
// start, end, category, min, max, q.
func filterFromQuery(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	return core.ParseFilter(
		q.Get("start"),
		q.Get("end"),
		q.Get("category"),
		q.Get("min"),
		q.Get("max"),
		q.Get("q"),
	)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
