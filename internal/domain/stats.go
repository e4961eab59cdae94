package domain

// DailyStats aggregates trade outcomes for one calendar day. Derived on
// read from a bounded recent window, never stored.
type DailyStats struct {
	Date        string  `json:"date"`
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winrate"`
	PnL         float64 `json:"pnl"`
}

// SignalStats aggregates WIN/LOSS outcomes of external signals.
type SignalStats struct {
	Total     int     `json:"total"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Pending   int     `json:"pending"`
	WinRate   float64 `json:"win_rate"`
	TotalPips float64 `json:"total_pips"`
}

// WinRate computes wins/(wins+losses) as a percentage, defined as 0 when
// nothing is decided yet.
func WinRate(wins, losses int) float64 {
	decided := wins + losses
	if decided == 0 {
		return 0
	}
	return float64(wins) / float64(decided) * 100
}
