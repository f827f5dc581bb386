package games

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
)

// GameData is one games row as served to clients.
type GameData struct {
	ID          int64      `json:"id"`
	Rank        int        `json:"rank"`
	GameCode    string     `json:"game_code"`
	ClubCode    string     `json:"club_code"`
	PlayerID    string     `json:"player_id"`
	PlayerName  string     `json:"player_name"`
	DateStarted *time.Time `json:"date_started"`
	DateEnded   *time.Time `json:"date_ended"`
	GameType    string     `json:"game_type"`
	BigBlind    float64    `json:"big_blind"`
	Profit      float64    `json:"profit"`
	Tips        float64    `json:"tips"`
	BuyIn       float64    `json:"buy_in"`
	TotalTips   float64    `json:"total_tips"`
	Hands       int        `json:"hands"`
}

// DataHandler serves raw game rows for a date window, optionally narrowed to
// one club.
func DataHandler(db *pgxpool.Pool) http.HandlerFunc {
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

		rows, err := FetchGames(r.Context(), db, start, end, r.URL.Query().Get("club_code"))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithData(w, rows, len(rows))
	}
}

// FetchGames returns games whose session falls inside [start, end], filtered
// to clubCode when non-empty. The export handler shares this query.
func FetchGames(ctx context.Context, db *pgxpool.Pool, start, end time.Time, clubCode string) ([]GameData, error) {
	query := `SELECT id, rank, game_code, club_code, player_id, player_name,
			date_started, date_ended, game_type, big_blind, profit, tips, buy_in, total_tips, hands
		FROM ` + constants.TableGames + `
		WHERE date_started >= $1 AND date_ended <= $2`
	args := []interface{}{start, end}
	if clubCode != "" {
		query += ` AND club_code = $3`
		args = append(args, clubCode)
	}
	query += ` ORDER BY date_started, game_code, rank`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameData{}
	for rows.Next() {
		var g GameData
		if err := rows.Scan(&g.ID, &g.Rank, &g.GameCode, &g.ClubCode, &g.PlayerID, &g.PlayerName,
			&g.DateStarted, &g.DateEnded, &g.GameType, &g.BigBlind, &g.Profit, &g.Tips, &g.BuyIn, &g.TotalTips, &g.Hands); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
