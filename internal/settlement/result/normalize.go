package result

import "strings"

// RawFixture é o payload bruto do provider de fixtures (formato API-Football v3).
// O normalizador é a fronteira entre esse formato e o MatchResult canônico.
type RawFixture struct {
	Fixture struct {
		ID     int64 `json:"id"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID int64 `json:"id"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	// Campo "goals" cru do provider; pode embutir gols de prorrogação
	Goals ScorePair `json:"goals"`
	Score struct {
		Halftime  ScorePair `json:"halftime"`
		Fulltime  ScorePair `json:"fulltime"`
		Extratime ScorePair `json:"extratime"`
		Penalty   ScorePair `json:"penalty"`
	} `json:"score"`
}

type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// ParseStatus normaliza o status do provider para FT/AET/PEN.
// Qualquer outro valor vira vazio (não é resultado final)
func ParseStatus(short string) MatchStatus {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "FT":
		return StatusFT
	case "AET":
		return StatusAET
	case "PEN":
		return StatusPEN
	default:
		return ""
	}
}

// Normalize converte o payload bruto em um MatchResult.
// Retorna nil quando os gols regulamentares não podem ser determinados:
// sem placar não se chuta, a fixture é simplesmente pulada.
// Um status desconhecido não impede a normalização se os gols existirem.
func Normalize(raw RawFixture) *MatchResult {
	homeGoals := firstOf(raw.Score.Fulltime.Home, raw.Goals.Home)
	awayGoals := firstOf(raw.Score.Fulltime.Away, raw.Goals.Away)
	if homeGoals == nil || awayGoals == nil {
		return nil
	}

	status := ParseStatus(raw.Fixture.Status.Short)

	r := &MatchResult{
		FixtureID:   raw.Fixture.ID,
		HomeGoals:   *homeGoals,
		AwayGoals:   *awayGoals,
		Outcome:     CompareGoals(*homeGoals, *awayGoals),
		MatchStatus: status,
		HomeTeam:    raw.Teams.Home.Name,
		AwayTeam:    raw.Teams.Away.Name,
		LeagueID:    raw.League.ID,
	}

	if raw.Score.Halftime.Home != nil && raw.Score.Halftime.Away != nil {
		hth, hta := *raw.Score.Halftime.Home, *raw.Score.Halftime.Away
		r.HalftimeHome = &hth
		r.HalftimeAway = &hta

		htOutcome := CompareGoals(hth, hta)
		r.HalftimeOutcome = &htOutcome

		shh := r.HomeGoals - hth
		sha := r.AwayGoals - hta
		r.SecondHalfHome = &shh
		r.SecondHalfAway = &sha
	}

	if status == StatusPEN {
		r.PenaltyHome = raw.Score.Penalty.Home
		r.PenaltyAway = raw.Score.Penalty.Away
	}

	r.FinalGoalsHome = finalGoals(raw.Goals.Home, raw.Score.Extratime.Home, *homeGoals, status)
	r.FinalGoalsAway = finalGoals(raw.Goals.Away, raw.Score.Extratime.Away, *awayGoals, status)

	return r
}

// finalGoals resolve o agregado usado nos mercados de classificação.
// Preferência pelo campo "goals" cru do provider (que pode já somar a
// prorrogação). Na ausência dele, em partidas AET alguns providers mandam
// a prorrogação como delta em vez de acumulado: se o valor for menor que
// o regulamentar soma-se; se for maior ou igual, assume-se acumulado.
func finalGoals(rawGoals, extraTime *int, regulation int, status MatchStatus) int {
	if rawGoals != nil {
		return *rawGoals
	}
	if (status == StatusAET || status == StatusPEN) && extraTime != nil {
		if *extraTime < regulation {
			return regulation + *extraTime
		}
		return *extraTime
	}
	return regulation
}

func firstOf(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}
