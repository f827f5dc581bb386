package reports

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/dealpercent"
	"PokerClubBooks/internal/reportcalc"
)

// PlayerHistoryHandler serves per-player aggregates plus the raw rows behind
// them for a comma-separated list of player ids. The date window is optional
// here; without one the whole history is returned.
func PlayerHistoryHandler(pool *pgxpool.Pool, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		ctx := r.Context()
		q := r.URL.Query()

		raw := q.Get("player_ids")
		if raw == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrPlayerIDsRequired)
			return
		}
		var playerIDs []string
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				playerIDs = append(playerIDs, id)
			}
		}

		lookback, start, end, err := api.DateRangeParams(q)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if lookback != nil || (start != nil && end != nil) {
			s, e, err := api.ParseDateRange(q)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			start, end = &s, &e
		} else {
			start, end = nil, nil
		}

		records, err := fetchGameRecords(ctx, db, playerIDs, start, end)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(records) == 0 {
			api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"aggregated":         []reportcalc.PlayerTotals{},
				"individual_records": []GameRecord{},
				"aggregated_count":   0,
				"individual_count":   0,
			})
			return
		}

		rows := make([]reportcalc.GameRow, len(records))
		for i, rec := range records {
			rows[i] = reportcalc.GameRow{
				PlayerID:   rec.PlayerID,
				PlayerName: rec.PlayerName,
				Profit:     rec.Profit,
				Tips:       rec.Tips,
			}
		}

		playerAgents, numericIDs, err := fetchPlayerAgents(ctx, db)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		cache := dealpercent.BuildCache(ctx, pool)
		aggregated := reportcalc.ApplyAgentSplits(reportcalc.AggregatePlayers(rows), playerAgents, numericIDs, cache)

		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"aggregated":         aggregated,
			"individual_records": records,
			"aggregated_count":   len(aggregated),
			"individual_count":   len(records),
		})
	}
}
