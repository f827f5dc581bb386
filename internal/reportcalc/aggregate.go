package reportcalc

import (
	"sort"

	"PokerClubBooks/internal/dealpercent"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GameRow is the slice of a games record the aggregations need.
type GameRow struct {
	PlayerID   string
	PlayerName string
	Profit     float64
	Tips       float64
}

// PlayerTotals is one player's aggregate over a window, with the agent split
// applied when the player belongs to an agent.
type PlayerTotals struct {
	PlayerID     string          `json:"player_id"`
	PlayerName   string          `json:"player_name"`
	AgentID      *int64          `json:"agent_id,omitempty"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalTips    decimal.Decimal `json:"total_tips"`
	GameCount    int             `json:"game_count"`
	DealRate     decimal.Decimal `json:"deal_rate"`
	// DealRate scaled to 0-100 for rendering only.
	DealRateDisplay decimal.Decimal `json:"deal_percent_display"`
	AgentTips       decimal.Decimal `json:"agent_tips"`
	TakehomeTips    decimal.Decimal `json:"takehome_tips"`
}

// AggregatePlayers folds raw game rows into per-player totals, ordered by
// player id for stable output.
func AggregatePlayers(rows []GameRow) []PlayerTotals {
	byPlayer := make(map[string]*PlayerTotals)
	for _, row := range rows {
		pt, ok := byPlayer[row.PlayerID]
		if !ok {
			pt = &PlayerTotals{PlayerID: row.PlayerID, PlayerName: row.PlayerName}
			byPlayer[row.PlayerID] = pt
		}
		pt.TotalProfit = pt.TotalProfit.Add(decimal.NewFromFloat(row.Profit))
		pt.TotalTips = pt.TotalTips.Add(decimal.NewFromFloat(row.Tips))
		pt.GameCount++
	}

	totals := make([]PlayerTotals, 0, len(byPlayer))
	for _, pt := range byPlayer {
		totals = append(totals, *pt)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].PlayerID < totals[j].PlayerID })
	return totals
}

// ApplyAgentSplits resolves each player's deal rate against the cache and
// fills the agent/takehome split. playerAgents maps player_id to the owning
// agent; players without an agent keep a zero split.
func ApplyAgentSplits(totals []PlayerTotals, playerAgents map[string]int64, playerNumericIDs map[string]int64, cache *dealpercent.Cache) []PlayerTotals {
	out := make([]PlayerTotals, len(totals))
	for i, pt := range totals {
		agentID, hasAgent := playerAgents[pt.PlayerID]
		if !hasAgent {
			pt.TakehomeTips = pt.TotalTips
			out[i] = pt
			continue
		}
		id := agentID
		pt.AgentID = &id

		var playerRef *int64
		if numeric, ok := playerNumericIDs[pt.PlayerID]; ok {
			n := numeric
			playerRef = &n
		}
		pt.DealRate = cache.Resolve(agentID, playerRef, pt.TotalTips)
		pt.DealRateDisplay = pt.DealRate.Mul(hundred)
		pt.AgentTips = pt.TotalTips.Mul(pt.DealRate).Round(2)
		pt.TakehomeTips = pt.TotalTips.Sub(pt.AgentTips).Round(2)
		out[i] = pt
	}
	return out
}

// AgentSummary is an agent's commission rollup over a window.
type AgentSummary struct {
	AgentID     int64           `json:"agent_id"`
	AgentName   string          `json:"agent_name"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	TotalTips   decimal.Decimal `json:"total_tips"`
	AgentTips   decimal.Decimal `json:"agent_tips"`
	GameCount   int             `json:"game_count"`
	PlayerCount int             `json:"player_count"`
}

// SummarizeAgents rolls split player totals up to their agents. Players
// without an agent are left out.
func SummarizeAgents(totals []PlayerTotals, agentNames map[int64]string) []AgentSummary {
	byAgent := make(map[int64]*AgentSummary)
	for _, pt := range totals {
		if pt.AgentID == nil {
			continue
		}
		s, ok := byAgent[*pt.AgentID]
		if !ok {
			s = &AgentSummary{AgentID: *pt.AgentID, AgentName: agentNames[*pt.AgentID]}
			byAgent[*pt.AgentID] = s
		}
		s.TotalProfit = s.TotalProfit.Add(pt.TotalProfit)
		s.TotalTips = s.TotalTips.Add(pt.TotalTips)
		s.AgentTips = s.AgentTips.Add(pt.AgentTips)
		s.GameCount += pt.GameCount
		s.PlayerCount++
	}

	summaries := make([]AgentSummary, 0, len(byAgent))
	for _, s := range byAgent {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].AgentID < summaries[j].AgentID })
	return summaries
}
