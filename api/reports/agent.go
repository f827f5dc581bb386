package reports

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/dealpercent"
	"PokerClubBooks/internal/reportcalc"
)

// AgentWindow aggregates one window and applies the commission split to
// every player. The telegram bot and both agent endpoints share it.
func AgentWindow(ctx context.Context, pool *pgxpool.Pool, db *sql.DB, start, end time.Time) ([]reportcalc.PlayerTotals, []reportcalc.AgentSummary, error) {
	rows, err := fetchGameRows(ctx, db, start, end)
	if err != nil {
		return nil, nil, err
	}
	playerAgents, numericIDs, err := fetchPlayerAgents(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	agentNames, err := fetchAgentNames(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	cache := dealpercent.BuildCache(ctx, pool)
	split := reportcalc.ApplyAgentSplits(reportcalc.AggregatePlayers(rows), playerAgents, numericIDs, cache)
	return split, reportcalc.SummarizeAgents(split, agentNames), nil
}

// FilterByAgent keeps only the players belonging to one agent.
func FilterByAgent(split []reportcalc.PlayerTotals, agentID int64) []reportcalc.PlayerTotals {
	out := []reportcalc.PlayerTotals{}
	for _, pt := range split {
		if pt.AgentID != nil && *pt.AgentID == agentID {
			out = append(out, pt)
		}
	}
	return out
}

// AgentReportHandler serves agent-level commission rollups for a window,
// optionally narrowed to one agent.
func AgentReportHandler(pool *pgxpool.Pool, db *sql.DB) http.HandlerFunc {
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

		_, summaries, err := AgentWindow(r.Context(), pool, db, start, end)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if v := r.URL.Query().Get("agent_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "invalid agent_id: "+v)
				return
			}
			filtered := []reportcalc.AgentSummary{}
			for _, s := range summaries {
				if s.AgentID == id {
					filtered = append(filtered, s)
				}
			}
			summaries = filtered
		}
		api.RespondWithData(w, summaries, len(summaries))
	}
}

// DetailedAgentReportHandler serves player-level splits for a window,
// optionally narrowed to one agent.
func DetailedAgentReportHandler(pool *pgxpool.Pool, db *sql.DB) http.HandlerFunc {
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

		split, _, err := AgentWindow(r.Context(), pool, db, start, end)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if v := r.URL.Query().Get("agent_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "invalid agent_id: "+v)
				return
			}
			split = FilterByAgent(split, id)
		}
		api.RespondWithData(w, split, len(split))
	}
}
