package handlers

import (
	"net/http"
	"time"
)

// Summary totals the caller's expenses over an optional inclusive date range
// given as from/to query parameters.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r)

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			writeError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			return
		}
	}
	if from != "" && to != "" && from > to {
		writeError(w, http.StatusBadRequest, "Range start must not be after range end")
		return
	}

	summary, err := h.db.SummarizeExpenses(userID, from, to)
	if err != nil {
		serverError(w, "Summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
