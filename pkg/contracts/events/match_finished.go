package events

import "time"

// Evento publicado no tópico "match_finished" quando o poller detecta
// uma partida encerrada (FT, AET ou PEN) em uma das ligas acompanhadas.
type MatchFinished struct {
	FixtureID int64     `json:"fixture_id"`
	LeagueID  int64     `json:"league_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Status    string    `json:"status"` // "FT" | "AET" | "PEN"
	Score     string    `json:"score"`  // placar formatado, ex: "2-1 (fulltime) | 3-2 AET"
	Ts        time.Time `json:"ts"`
}
