package market

import "strings"

// Kind é o conjunto fechado de mercados suportados. Os nomes gravados nas
// apostas são texto livre em duas línguas; ParseKind leva esse texto para o
// enum e tudo que não reconhece cai em KindUnknown, nunca em erro.
type Kind int

const (
	KindUnknown Kind = iota
	KindMatchWinner
	KindDoubleChance
	KindCorrectScore
	KindFirstHalfWinner
	KindSecondHalfWinner
	KindHalfTimeFullTime
	KindOverUnder
	KindBothTeamsScore
	KindResultTotalGoals
	KindResultBothTeamsScore
	KindToQualify
)

func (k Kind) String() string {
	switch k {
	case KindMatchWinner:
		return "match_winner"
	case KindDoubleChance:
		return "double_chance"
	case KindCorrectScore:
		return "correct_score"
	case KindFirstHalfWinner:
		return "first_half_winner"
	case KindSecondHalfWinner:
		return "second_half_winner"
	case KindHalfTimeFullTime:
		return "ht_ft_double"
	case KindOverUnder:
		return "over_under"
	case KindBothTeamsScore:
		return "both_teams_score"
	case KindResultTotalGoals:
		return "result_total_goals"
	case KindResultBothTeamsScore:
		return "result_both_teams_score"
	case KindToQualify:
		return "to_qualify"
	default:
		return "unknown"
	}
}

// kindByName mapeia o nome canônico (minúsculo, sem espaços nas pontas)
// para o mercado. Cobre os nomes das duas línguas e variantes legadas
var kindByName = map[string]Kind{
	"match winner":        KindMatchWinner,
	"ganador del partido": KindMatchWinner,

	"double chance":      KindDoubleChance,
	"doble oportunidad":  KindDoubleChance,
	"doble oportunidade": KindDoubleChance,

	"correct score":    KindCorrectScore,
	"exact score":      KindCorrectScore,
	"resultado exacto": KindCorrectScore,

	"first half winner":     KindFirstHalfWinner,
	"1st half winner":       KindFirstHalfWinner,
	"ganador primera parte": KindFirstHalfWinner,
	"second half winner":    KindSecondHalfWinner,
	"2nd half winner":       KindSecondHalfWinner,
	"ganador segunda parte": KindSecondHalfWinner,

	"ht/ft double":      KindHalfTimeFullTime,
	"ht/ft":             KindHalfTimeFullTime,
	"halftime/fulltime": KindHalfTimeFullTime,
	"descanso/final":    KindHalfTimeFullTime,

	"goals over/under":   KindOverUnder,
	"over/under":         KindOverUnder,
	"goles más/menos de": KindOverUnder,
	"goles mas/menos de": KindOverUnder,

	"both teams score":     KindBothTeamsScore,
	"both teams to score":  KindBothTeamsScore,
	"ambos equipos marcan": KindBothTeamsScore,

	"result/total goals":       KindResultTotalGoals,
	"results/total goals":      KindResultTotalGoals,
	"resultado/total de goles": KindResultTotalGoals,

	// Forma legada "X & Y": mesma avaliação em duas partes
	"result & total goals":   KindResultTotalGoals,
	"result and total goals": KindResultTotalGoals,

	"result/both teams score":        KindResultBothTeamsScore,
	"results/both teams score":       KindResultBothTeamsScore,
	"resultado/ambos equipos marcan": KindResultBothTeamsScore,
	"result & both teams score":      KindResultBothTeamsScore,
	"result and both teams score":    KindResultBothTeamsScore,

	"to qualify":   KindToQualify,
	"se clasifica": KindToQualify,
}

// ParseKind resolve o nome livre do mercado para o enum.
// Matching exato por nome, case-insensitive, após trim
func ParseKind(name string) Kind {
	if k, ok := kindByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return KindUnknown
}
