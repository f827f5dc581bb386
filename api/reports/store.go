package reports

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/lib/pq"

	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/reportcalc"
)

// GameRecord is one raw games row served by the player-history endpoint.
type GameRecord struct {
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

// fetchGameRows returns the slim per-row view the aggregations consume.
func fetchGameRows(ctx context.Context, db *sql.DB, start, end time.Time) ([]reportcalc.GameRow, error) {
	query := `SELECT player_id, player_name, profit, tips FROM ` + constants.TableGames + `
		WHERE date_started >= $1 AND date_ended <= $2`
	rows, err := db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reportcalc.GameRow
	for rows.Next() {
		var g reportcalc.GameRow
		if err := rows.Scan(&g.PlayerID, &g.PlayerName, &g.Profit, &g.Tips); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// fetchGameRecords returns full rows for the given players, optionally
// narrowed to a window.
func fetchGameRecords(ctx context.Context, db *sql.DB, playerIDs []string, start, end *time.Time) ([]GameRecord, error) {
	query := `SELECT id, rank, game_code, club_code, player_id, player_name,
			date_started, date_ended, game_type, big_blind, profit, tips, buy_in, total_tips, hands
		FROM ` + constants.TableGames + ` WHERE player_id = ANY($1)`
	args := []interface{}{pq.Array(playerIDs)}
	if start != nil && end != nil {
		query += ` AND date_started >= $2 AND date_ended <= $3`
		args = append(args, *start, *end)
	}
	query += ` ORDER BY date_started, game_code, rank`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var g GameRecord
		var started, ended sql.NullTime
		if err := rows.Scan(&g.ID, &g.Rank, &g.GameCode, &g.ClubCode, &g.PlayerID, &g.PlayerName,
			&started, &ended, &g.GameType, &g.BigBlind, &g.Profit, &g.Tips, &g.BuyIn, &g.TotalTips, &g.Hands); err != nil {
			return nil, err
		}
		if started.Valid {
			g.DateStarted = &started.Time
		}
		if ended.Valid {
			g.DateEnded = &ended.Time
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// fetchPlayerAgents maps the string player ids used in game rows to their
// owning agent and back to the numeric id the rules engine keys on.
func fetchPlayerAgents(ctx context.Context, db *sql.DB) (map[string]int64, map[string]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT player_id, agent_id FROM `+constants.TablePlayers)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	playerAgents := map[string]int64{}
	numericIDs := map[string]int64{}
	for rows.Next() {
		var playerID int64
		var agentID sql.NullInt64
		if err := rows.Scan(&playerID, &agentID); err != nil {
			return nil, nil, err
		}
		key := strconv.FormatInt(playerID, 10)
		numericIDs[key] = playerID
		if agentID.Valid {
			playerAgents[key] = agentID.Int64
		}
	}
	return playerAgents, numericIDs, rows.Err()
}

func fetchAgentNames(ctx context.Context, db *sql.DB) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT agent_id, agent_name FROM `+constants.TableAgents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := map[int64]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
