package dealpercent

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func playerRef(id int64) *int64 { return &id }

func precedenceCache() *Cache {
	// Agent 1: default 0.5, agent tier {100 -> 0.6}, player 7 tier {500 -> 0.7}.
	rules := []Rule{
		{AgentID: 1, Threshold: dec(100), Rate: dec(0.6)},
		{AgentID: 1, PlayerID: playerRef(7), Threshold: dec(500), Rate: dec(0.7)},
	}
	return NewCache(rules, map[int64]decimal.Decimal{1: dec(0.5)})
}

func TestResolvePrecedence(t *testing.T) {
	c := precedenceCache()
	cases := []struct {
		playerID *int64
		amount   float64
		want     float64
	}{
		{playerRef(7), 50, 0.5},   // nothing satisfied, agent default
		{playerRef(7), 150, 0.6},  // agent tier satisfied, player tier not
		{playerRef(7), 600, 0.7},  // player tier wins over agent tier
		{playerRef(8), 600, 0.6},  // other player falls through to agent tier
		{nil, 600, 0.6},           // no player given
	}
	for i, tc := range cases {
		got := c.Resolve(1, tc.playerID, dec(tc.amount))
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("case %d: got %s, want %v", i, got, tc.want)
		}
	}
}

func TestResolveLargestSatisfiedThreshold(t *testing.T) {
	rules := []Rule{
		{AgentID: 2, Threshold: dec(0), Rate: dec(0.3)},
		{AgentID: 2, Threshold: dec(1000), Rate: dec(0.4)},
		{AgentID: 2, Threshold: dec(5000), Rate: dec(0.5)},
	}
	c := NewCache(rules, nil)

	if got := c.Resolve(2, nil, dec(1200)); !got.Equal(dec(0.4)) {
		t.Fatalf("closest-from-below must win, got %s", got)
	}
	if got := c.Resolve(2, nil, dec(5000)); !got.Equal(dec(0.5)) {
		t.Fatalf("threshold is inclusive, got %s", got)
	}
}

func TestResolveEqualThresholdTieBreak(t *testing.T) {
	rules := []Rule{
		{AgentID: 3, Threshold: dec(100), Rate: dec(0.4)},
		{AgentID: 3, Threshold: dec(100), Rate: dec(0.6)},
	}
	c := NewCache(rules, nil)
	if got := c.Resolve(3, nil, dec(200)); !got.Equal(dec(0.6)) {
		t.Fatalf("equal thresholds resolve to the higher rate, got %s", got)
	}
}

func TestResolveUnknownAgentIsZero(t *testing.T) {
	c := NewCache(nil, nil)
	if got := c.Resolve(99, nil, dec(100)); !got.IsZero() {
		t.Fatalf("unknown agent must resolve to 0, got %s", got)
	}
}

func TestResolveDefaultOnlyAgent(t *testing.T) {
	c := NewCache(nil, map[int64]decimal.Decimal{4: dec(0.45)})
	if got := c.Resolve(4, playerRef(1), dec(0)); !got.Equal(dec(0.45)) {
		t.Fatalf("flat default expected, got %s", got)
	}
}
