package dto

// BetView é a visão de uma aposta na tela de histórico
type BetView struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	BetType   string          `json:"bet_type"` // "single" | "combo"
	FixtureID *int64          `json:"fixture_id,omitempty"`
	Stake     float64         `json:"stake"`
	Odds      float64         `json:"odds"`
	Market    string          `json:"market,omitempty"`
	Selection string          `json:"selection,omitempty"`
	Status    string          `json:"status"`
	Payout    float64         `json:"payout"`
	CreatedAt string          `json:"created_at"`
	Legs      []SelectionView `json:"legs,omitempty"`
}

// SelectionView é uma perna de combinada na visão de histórico
type SelectionView struct {
	ID        int64   `json:"id"`
	FixtureID int64   `json:"fixture_id"`
	Market    string  `json:"market"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`
	Status    string  `json:"status"`
}
