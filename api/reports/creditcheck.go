package reports

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/reportcalc"
	"PokerClubBooks/internal/timeutil"
)

// CreditCheckHandler reports every player's standing against their credit
// line over the current week (since the last Thursday boundary). Pass
// only_breached=true to get just the players over their line.
func CreditCheckHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}

		now := time.Now().In(timeutil.ClubLocation())
		start, end := timeutil.CurrentWeekRange(now)

		query := `SELECT p.player_id, p.player_name,
				COALESCE(p.credit_limit, 0), COALESCE(p.weekly_credit_adjustment, 0),
				COALESCE(SUM(g.profit), 0)
			FROM ` + constants.TablePlayers + ` p
			LEFT JOIN ` + constants.TableGames + ` g
				ON g.player_id = p.player_id::text
				AND g.date_started >= $1 AND g.date_ended <= $2
			GROUP BY p.player_id, p.player_name, p.credit_limit, p.weekly_credit_adjustment
			ORDER BY p.player_id`
		rows, err := db.QueryContext(r.Context(), query, start, end)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		onlyBreached := r.URL.Query().Get("only_breached") == "true"
		standings := []reportcalc.CreditStanding{}
		for rows.Next() {
			var s reportcalc.CreditStanding
			var limit, adj, profit float64
			if err := rows.Scan(&s.PlayerID, &s.PlayerName, &limit, &adj, &profit); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			s.CreditLimit = decimal.NewFromFloat(limit)
			s.WeeklyAdjustment = decimal.NewFromFloat(adj)
			s.WindowProfit = decimal.NewFromFloat(profit)
			s.Breached = reportcalc.CreditBreached(s.WindowProfit, s.CreditLimit, s.WeeklyAdjustment)
			if onlyBreached && !s.Breached {
				continue
			}
			standings = append(standings, s)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithData(w, standings, len(standings))
	}
}
