package reports

import (
	"database/sql"
	"net/http"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/reportcalc"
)

// AggregatedHandler serves per-player profit/tip totals for a window.
func AggregatedHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}

		start, end, err := api.ParseDateRange(r.URL.Query())
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		rows, err := fetchGameRows(r.Context(), db, start, end)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		totals := reportcalc.AggregatePlayers(rows)
		api.RespondWithData(w, totals, len(totals))
	}
}
