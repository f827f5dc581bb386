package dealpercent

import (
	"context"
	"log"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Rates are fractions in [0, 1] everywhere; multiply by 100 only when
// rendering for people.

// Rule is one row of the tiered deal-percent table. A nil PlayerID scopes
// the rule to the whole agent.
type Rule struct {
	AgentID   int64
	PlayerID  *int64
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

type tier struct {
	threshold decimal.Decimal
	rate      decimal.Decimal
}

type agentPlayerKey struct {
	agentID  int64
	playerID int64
}

// Cache is the in-memory rule lookup built once per resolution batch and
// passed through to every row. Never rebuild it per row.
type Cache struct {
	playerTiers map[agentPlayerKey][]tier
	agentTiers  map[int64][]tier
	defaults    map[int64]decimal.Decimal
}

// NewCache organizes rules and agent defaults for resolution. Tiers are kept
// sorted by (threshold desc, rate desc): the first satisfied tier wins, and
// between equal thresholds the higher rate wins, deterministically.
func NewCache(rules []Rule, defaults map[int64]decimal.Decimal) *Cache {
	c := &Cache{
		playerTiers: make(map[agentPlayerKey][]tier),
		agentTiers:  make(map[int64][]tier),
		defaults:    make(map[int64]decimal.Decimal, len(defaults)),
	}
	for id, rate := range defaults {
		c.defaults[id] = rate
	}
	for _, r := range rules {
		t := tier{threshold: r.Threshold, rate: r.Rate}
		if r.PlayerID != nil {
			key := agentPlayerKey{agentID: r.AgentID, playerID: *r.PlayerID}
			c.playerTiers[key] = append(c.playerTiers[key], t)
		} else {
			c.agentTiers[r.AgentID] = append(c.agentTiers[r.AgentID], t)
		}
	}
	for key := range c.playerTiers {
		sortTiers(c.playerTiers[key])
	}
	for id := range c.agentTiers {
		sortTiers(c.agentTiers[id])
	}
	return c
}

func sortTiers(tiers []tier) {
	sort.Slice(tiers, func(i, j int) bool {
		if !tiers[i].threshold.Equal(tiers[j].threshold) {
			return tiers[i].threshold.GreaterThan(tiers[j].threshold)
		}
		return tiers[i].rate.GreaterThan(tiers[j].rate)
	})
}

// BuildCache loads all rules and agent defaults in two full scans. Store
// errors degrade to an empty cache with a logged warning rather than failing
// the caller's whole report.
func BuildCache(ctx context.Context, db *pgxpool.Pool) *Cache {
	var rules []Rule
	rows, err := db.Query(ctx,
		`SELECT agent_id, player_id, threshold, deal_percent FROM agent_deal_percent_rules`)
	if err != nil {
		log.Printf("[ERROR] could not fetch deal_percent rules, resolving with empty cache: %v", err)
	} else {
		for rows.Next() {
			var (
				agentID   int64
				playerID  *int64
				threshold float64
				rate      float64
			)
			if err := rows.Scan(&agentID, &playerID, &threshold, &rate); err != nil {
				continue
			}
			rules = append(rules, Rule{
				AgentID:   agentID,
				PlayerID:  playerID,
				Threshold: decimal.NewFromFloat(threshold),
				Rate:      decimal.NewFromFloat(rate),
			})
		}
		rows.Close()
	}

	defaults := make(map[int64]decimal.Decimal)
	agentRows, err := db.Query(ctx, `SELECT agent_id, deal_percent FROM agents`)
	if err != nil {
		log.Printf("[ERROR] could not fetch agent defaults, resolving with empty cache: %v", err)
	} else {
		for agentRows.Next() {
			var (
				agentID int64
				rate    float64
			)
			if err := agentRows.Scan(&agentID, &rate); err != nil {
				continue
			}
			defaults[agentID] = decimal.NewFromFloat(rate)
		}
		agentRows.Close()
	}

	return NewCache(rules, defaults)
}

// Resolve returns the deal rate for this agent/player/amount. Precedence:
// player-scoped tiers, then agent-scoped tiers, then the agent default,
// then zero. Within a scope the largest satisfied threshold wins.
func (c *Cache) Resolve(agentID int64, playerID *int64, amount decimal.Decimal) decimal.Decimal {
	if playerID != nil {
		if rate, ok := firstSatisfied(c.playerTiers[agentPlayerKey{agentID: agentID, playerID: *playerID}], amount); ok {
			return rate
		}
	}
	if rate, ok := firstSatisfied(c.agentTiers[agentID], amount); ok {
		return rate
	}
	if rate, ok := c.defaults[agentID]; ok {
		return rate
	}
	return decimal.Zero
}

func firstSatisfied(tiers []tier, amount decimal.Decimal) (decimal.Decimal, bool) {
	for _, t := range tiers {
		if amount.GreaterThanOrEqual(t.threshold) {
			return t.rate, true
		}
	}
	return decimal.Decimal{}, false
}
