package reports

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/audit"
	"PokerClubBooks/internal/runlog"
)

// HistoryHandler serves the CREATE/UPDATE operation history, newest first,
// with optional table, operation and date-range filters.
func HistoryHandler(pool *pgxpool.Pool) http.HandlerFunc {
	recorder := audit.NewRecorder(pool)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		q := r.URL.Query()

		filter := audit.HistoryFilter{
			TableName: q.Get("table_name"),
			Operation: strings.ToUpper(q.Get("operation_type")),
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		lookback, start, end, err := api.DateRangeParams(q)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if lookback != nil || start != nil || end != nil {
			s, e, err := api.ParseDateRange(q)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			filter.Start, filter.End = &s, &e
		}

		entries, err := recorder.History(r.Context(), filter)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []audit.Entry{}
		}
		api.RespondWithData(w, entries, len(entries))
	}
}

// IngestRunsHandler serves recent mailbox scan summaries from memory.
func IngestRunsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		n := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				n = parsed
			}
		}
		runs := runlog.Global().Recent(n)
		api.RespondWithData(w, runs, len(runs))
	}
}
