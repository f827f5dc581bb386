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

// Agent is one agents row.
type Agent struct {
	AgentID        int64   `json:"agent_id"`
	AgentName      string  `json:"agent_name"`
	DealPercent    float64 `json:"deal_percent"`
	CommChannel    *string `json:"comm_channel"`
	Notes          *string `json:"notes"`
	PaymentMethods *string `json:"payment_methods"`
}

// UpsertAgentRequest creates an agent when agent_id is absent and updates
// the named fields when it is present.
type UpsertAgentRequest struct {
	AgentID        *int64   `json:"agent_id"`
	AgentName      *string  `json:"agent_name"`
	DealPercent    *float64 `json:"deal_percent"`
	CommChannel    *string  `json:"comm_channel"`
	Notes          *string  `json:"notes"`
	PaymentMethods *string  `json:"payment_methods"`
}

func (req *UpsertAgentRequest) fields() *updateSet {
	u := &updateSet{}
	if req.AgentName != nil {
		u.add("agent_name", *req.AgentName)
	}
	if req.DealPercent != nil {
		u.add("deal_percent", *req.DealPercent)
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

func UpsertAgentHandler(db *pgxpool.Pool) http.HandlerFunc {
	recorder := audit.NewRecorder(db)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req UpsertAgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		fields := req.fields()

		userEmail := ""
		if user := api.GetUserFromCtx(ctx); user != nil {
			userEmail = user.Email
		}

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
			if fields.empty() {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
				return
			}

			query, args := fields.updateQuery(constants.TableAgents, "agent_id", *req.AgentID)
			if _, err := db.Exec(ctx, query, args...); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}

			agent, err := fetchAgent(ctx, db, *req.AgentID)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			recorder.LogOperation(ctx, userEmail, constants.OpUpdate, constants.TableAgents,
				strconv.FormatInt(*req.AgentID, 10), map[string]interface{}{"updated_fields": req})
			api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"data":    agent,
				"message": "Agent updated successfully",
			})
			return
		}

		if req.AgentName == nil || *req.AgentName == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrAgentNameRequired)
			return
		}

		query, args := fields.insertQuery(constants.TableAgents, "agent_id")
		var id int64
		if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		agent, err := fetchAgent(ctx, db, id)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		recorder.LogOperation(ctx, userEmail, constants.OpCreate, constants.TableAgents,
			strconv.FormatInt(id, 10), map[string]interface{}{"created_data": agent})
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"data":    agent,
			"message": "Agent created successfully",
		})
	}
}

func ListAgentsHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		rows, err := db.Query(r.Context(), `SELECT agent_id, agent_name, COALESCE(deal_percent, 0),
			comm_channel, notes, payment_methods FROM `+constants.TableAgents+` ORDER BY agent_id`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		agents := []Agent{}
		for rows.Next() {
			var a Agent
			if err := rows.Scan(&a.AgentID, &a.AgentName, &a.DealPercent, &a.CommChannel, &a.Notes, &a.PaymentMethods); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			agents = append(agents, a)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithData(w, agents, len(agents))
	}
}

func fetchAgent(ctx context.Context, db *pgxpool.Pool, id int64) (Agent, error) {
	var a Agent
	err := db.QueryRow(ctx, `SELECT agent_id, agent_name, COALESCE(deal_percent, 0),
		comm_channel, notes, payment_methods FROM `+constants.TableAgents+` WHERE agent_id = $1`, id).
		Scan(&a.AgentID, &a.AgentName, &a.DealPercent, &a.CommChannel, &a.Notes, &a.PaymentMethods)
	return a, err
}
