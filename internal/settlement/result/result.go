package result

import "fmt"

// Outcome é o resultado de uma partida (ou de um tempo dela)
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

// MatchStatus indica como a partida terminou
type MatchStatus string

const (
	StatusFT  MatchStatus = "FT"  // tempo regulamentar
	StatusAET MatchStatus = "AET" // prorrogação
	StatusPEN MatchStatus = "PEN" // pênaltis
)

// MatchResult é o fato canônico de uma partida encerrada, imutável depois de criado.
// HomeGoals/AwayGoals são SEMPRE os gols do tempo regulamentar (90 min): o mercado
// "Match Winner" e todos os mercados de tempo integral usam só o regulamentar,
// mesmo quando a partida foi para prorrogação ou pênaltis.
type MatchResult struct {
	FixtureID int64 `json:"fixture_id"`

	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`

	HalftimeHome    *int     `json:"halftime_home,omitempty"`
	HalftimeAway    *int     `json:"halftime_away,omitempty"`
	HalftimeOutcome *Outcome `json:"halftime_outcome,omitempty"`

	// Derivados: regulamentar − primeiro tempo, por lado. Nulos sem dado de intervalo.
	SecondHalfHome *int `json:"second_half_home,omitempty"`
	SecondHalfAway *int `json:"second_half_away,omitempty"`

	Outcome Outcome `json:"outcome"`

	// Vazio quando o status do provider não é FT/AET/PEN
	MatchStatus MatchStatus `json:"match_status,omitempty"`

	PenaltyHome *int `json:"penalty_home,omitempty"`
	PenaltyAway *int `json:"penalty_away,omitempty"`

	// Gols agregados (podem incluir prorrogação), usados só pelos mercados
	// de classificação em confrontos de ida e volta
	FinalGoalsHome int `json:"final_goals_home"`
	FinalGoalsAway int `json:"final_goals_away"`

	HomeTeam string `json:"home_team,omitempty"`
	AwayTeam string `json:"away_team,omitempty"`
	LeagueID int64  `json:"league_id,omitempty"`
}

// CompareGoals resolve o vencedor de um placar
func CompareGoals(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case home < away:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// FormatExtended monta o placar legível respeitando o contexto AET/PEN.
// A ordem das partes (regulamentar, total AET, placar de pênaltis) é fixa:
// telas de histórico e notícias dependem desse formato.
func (r *MatchResult) FormatExtended() string {
	full := fmt.Sprintf("%d-%d", r.HomeGoals, r.AwayGoals)

	switch r.MatchStatus {
	case StatusAET:
		return r.formatWithExtraTime(full)
	case StatusPEN:
		s := r.formatWithExtraTime(full)
		if r.PenaltyHome != nil && r.PenaltyAway != nil {
			return fmt.Sprintf("%s (%d-%d)", s, *r.PenaltyHome, *r.PenaltyAway)
		}
		return s
	default:
		return full
	}
}

// formatWithExtraTime acrescenta o total pós-prorrogação quando ele difere
// do placar regulamentar; caso contrário degrada para o sufixo "AET"
func (r *MatchResult) formatWithExtraTime(full string) string {
	if r.FinalGoalsHome != r.HomeGoals || r.FinalGoalsAway != r.AwayGoals {
		return fmt.Sprintf("%s (fulltime) | %d-%d AET", full, r.FinalGoalsHome, r.FinalGoalsAway)
	}
	return full + " AET"
}
