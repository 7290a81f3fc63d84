package events

import "time"

// Evento emitido pelo settlement-worker após liquidar uma aposta.
// Kind distingue apostas simples ("single") de combinadas ("combo").
type BetSettled struct {
	BetID  int64     `json:"bet_id"`
	UserID string    `json:"user_id"`
	Kind   string    `json:"kind"`   // "single" | "combo"
	Status string    `json:"status"` // "won" | "lost"
	Payout float64   `json:"payout"`
	Ts     time.Time `json:"ts"`
}
