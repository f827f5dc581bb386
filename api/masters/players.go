package masters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/audit"
)

// Player is one players row; AgentName is joined in for list responses.
type Player struct {
	PlayerID         int64    `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	AgentID          *int64   `json:"agent_id"`
	AgentName        *string  `json:"agent_name"`
	CreditLimit      *float64 `json:"credit_limit"`
	WeeklyAdjustment *float64 `json:"weekly_credit_adjustment"`
	IsBlocked        bool     `json:"is_blocked"`
	CommChannel      *string  `json:"comm_channel"`
	Notes            *string  `json:"notes"`
	PaymentMethods   *string  `json:"payment_methods"`
}

// UpsertPlayerRequest creates a player when player_id is absent and updates
// the named fields when it is present. A provided agent_id must exist.
type UpsertPlayerRequest struct {
	PlayerID         *int64   `json:"player_id"`
	PlayerName       *string  `json:"player_name"`
	AgentID          *int64   `json:"agent_id"`
	CreditLimit      *float64 `json:"credit_limit"`
	WeeklyAdjustment *float64 `json:"weekly_credit_adjustment"`
	IsBlocked        *bool    `json:"is_blocked"`
	CommChannel      *string  `json:"comm_channel"`
	Notes            *string  `json:"notes"`
	PaymentMethods   *string  `json:"payment_methods"`
}

func (req *UpsertPlayerRequest) fields() *updateSet {
	u := &updateSet{}
	if req.PlayerName != nil {
		u.add("player_name", *req.PlayerName)
	}
	if req.AgentID != nil {
		u.add("agent_id", *req.AgentID)
	}
	if req.CreditLimit != nil {
		u.add("credit_limit", *req.CreditLimit)
	}
	if req.WeeklyAdjustment != nil {
		u.add("weekly_credit_adjustment", *req.WeeklyAdjustment)
	}
	if req.IsBlocked != nil {
		u.add("is_blocked", *req.IsBlocked)
	}
	if req.CommChannel != nil {
		u.add("comm_channel", *req.CommChannel)
	}
	if req.Notes != nil {
		u.add("notes", *req.Notes)
	}
	if req.PaymentMethods != nil {
		u.add("payment_methods", *req.PaymentMethods)
	}
	return u
}

func UpsertPlayerHandler(db *pgxpool.Pool) http.HandlerFunc {
	recorder := audit.NewRecorder(db)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req UpsertPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		fields := req.fields()

		if req.AgentID != nil {
			var exists bool
			err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+constants.TableAgents+` WHERE agent_id = $1)`, *req.AgentID).Scan(&exists)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !exists {
				api.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Agent with ID %d not found", *req.AgentID))
				return
			}
		}

		userEmail := ""
		if user := api.GetUserFromCtx(ctx); user != nil {
			userEmail = user.Email
		}

		if req.PlayerID != nil {
			var exists bool
			err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+constants.TablePlayers+` WHERE player_id = $1)`, *req.PlayerID).Scan(&exists)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !exists {
				api.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Player with ID %d not found", *req.PlayerID))
				return
			}
			if fields.empty() {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
				return
			}

			query, args := fields.updateQuery(constants.TablePlayers, "player_id", *req.PlayerID)
			if _, err := db.Exec(ctx, query, args...); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}

			player, err := fetchPlayer(ctx, db, *req.PlayerID)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			recorder.LogOperation(ctx, userEmail, constants.OpUpdate, constants.TablePlayers,
				strconv.FormatInt(*req.PlayerID, 10), map[string]interface{}{"updated_fields": req})
			api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"data":    player,
				"message": "Player updated successfully",
			})
			return
		}

		if req.PlayerName == nil || *req.PlayerName == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrPlayerNameRequired)
			return
		}

		query, args := fields.insertQuery(constants.TablePlayers, "player_id")
		var id int64
		if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		player, err := fetchPlayer(ctx, db, id)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		recorder.LogOperation(ctx, userEmail, constants.OpCreate, constants.TablePlayers,
			strconv.FormatInt(id, 10), map[string]interface{}{"created_data": player})
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"data":    player,
			"message": "Player created successfully",
		})
	}
}

const playerSelect = `SELECT p.player_id, p.player_name, p.agent_id, a.agent_name,
		p.credit_limit, p.weekly_credit_adjustment, COALESCE(p.is_blocked, false),
		p.comm_channel, p.notes, p.payment_methods
	FROM ` + constants.TablePlayers + ` p
	LEFT JOIN ` + constants.TableAgents + ` a ON a.agent_id = p.agent_id`

func ListPlayersHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		rows, err := db.Query(r.Context(), playerSelect+` ORDER BY p.player_id`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		players := []Player{}
		for rows.Next() {
			var p Player
			if err := rows.Scan(&p.PlayerID, &p.PlayerName, &p.AgentID, &p.AgentName,
				&p.CreditLimit, &p.WeeklyAdjustment, &p.IsBlocked,
				&p.CommChannel, &p.Notes, &p.PaymentMethods); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			players = append(players, p)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithData(w, players, len(players))
	}
}

func fetchPlayer(ctx context.Context, db *pgxpool.Pool, id int64) (Player, error) {
	var p Player
	err := db.QueryRow(ctx, playerSelect+` WHERE p.player_id = $1`, id).
		Scan(&p.PlayerID, &p.PlayerName, &p.AgentID, &p.AgentName,
			&p.CreditLimit, &p.WeeklyAdjustment, &p.IsBlocked,
			&p.CommChannel, &p.Notes, &p.PaymentMethods)
	return p, err
}
