package reportcalc

import "github.com/shopspring/decimal"

// CreditStanding reports one player's position against their credit line
// over the current week window.
type CreditStanding struct {
	PlayerID         int64           `json:"player_id"`
	PlayerName       string          `json:"player_name"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	WeeklyAdjustment decimal.Decimal `json:"weekly_credit_adjustment"`
	WindowProfit     decimal.Decimal `json:"window_profit"`
	Breached         bool            `json:"breached"`
}

// CreditBreached: a player breaches when cumulative window profit drops below
// the negative of their effective credit line (limit plus this week's
// adjustment).
func CreditBreached(windowProfit, creditLimit, weeklyAdjustment decimal.Decimal) bool {
	line := creditLimit.Add(weeklyAdjustment)
	return windowProfit.LessThan(line.Neg())
}
