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

// DealRule is one tiered commission rule. A null player_id means the rule
// covers the agent's whole book; threshold is the minimum tip total the
// rule's rate applies from.
type DealRule struct {
	RuleID      int64   `json:"rule_id"`
	AgentID     int64   `json:"agent_id"`
	PlayerID    *int64  `json:"player_id"`
	Threshold   float64 `json:"threshold"`
	DealPercent float64 `json:"deal_percent"`
}

type UpsertDealRuleRequest struct {
	RuleID      *int64   `json:"rule_id"`
	AgentID     *int64   `json:"agent_id"`
	PlayerID    *int64   `json:"player_id"`
	Threshold   *float64 `json:"threshold"`
	DealPercent *float64 `json:"deal_percent"`
}

func (req *UpsertDealRuleRequest) fields() *updateSet {
	u := &updateSet{}
	if req.AgentID != nil {
		u.add("agent_id", *req.AgentID)
	}
	if req.PlayerID != nil {
		u.add("player_id", *req.PlayerID)
	}
	if req.Threshold != nil {
		u.add("threshold", *req.Threshold)
	}
	if req.DealPercent != nil {
		u.add("deal_percent", *req.DealPercent)
	}
	return u
}

func UpsertDealRuleHandler(db *pgxpool.Pool) http.HandlerFunc {
	recorder := audit.NewRecorder(db)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req UpsertDealRuleRequest
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

		if req.RuleID != nil {
			var exists bool
			err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+constants.TableDealRules+` WHERE rule_id = $1)`, *req.RuleID).Scan(&exists)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !exists {
				api.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Deal rule with ID %d not found", *req.RuleID))
				return
			}
			if fields.empty() {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
				return
			}

			query, args := fields.updateQuery(constants.TableDealRules, "rule_id", *req.RuleID)
			if _, err := db.Exec(ctx, query, args...); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}

			rule, err := fetchDealRule(ctx, db, *req.RuleID)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			recorder.LogOperation(ctx, userEmail, constants.OpUpdate, constants.TableDealRules,
				strconv.FormatInt(*req.RuleID, 10), map[string]interface{}{"updated_fields": req})
			api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"data":    rule,
				"message": "Deal rule updated successfully",
			})
			return
		}

		if req.AgentID == nil || req.Threshold == nil || req.DealPercent == nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}

		query, args := fields.insertQuery(constants.TableDealRules, "rule_id")
		var id int64
		if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		rule, err := fetchDealRule(ctx, db, id)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		recorder.LogOperation(ctx, userEmail, constants.OpCreate, constants.TableDealRules,
			strconv.FormatInt(id, 10), map[string]interface{}{"created_data": rule})
		api.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"data":    rule,
			"message": "Deal rule created successfully",
		})
	}
}

func ListDealRulesHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		rows, err := db.Query(r.Context(), `SELECT rule_id, agent_id, player_id, threshold, deal_percent
			FROM `+constants.TableDealRules+` ORDER BY agent_id, threshold DESC`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		rules := []DealRule{}
		for rows.Next() {
			var rule DealRule
			if err := rows.Scan(&rule.RuleID, &rule.AgentID, &rule.PlayerID, &rule.Threshold, &rule.DealPercent); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			rules = append(rules, rule)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithData(w, rules, len(rules))
	}
}

func fetchDealRule(ctx context.Context, db *pgxpool.Pool, id int64) (DealRule, error) {
	var rule DealRule
	err := db.QueryRow(ctx, `SELECT rule_id, agent_id, player_id, threshold, deal_percent
		FROM `+constants.TableDealRules+` WHERE rule_id = $1`, id).
		Scan(&rule.RuleID, &rule.AgentID, &rule.PlayerID, &rule.Threshold, &rule.DealPercent)
	return rule, err
}
