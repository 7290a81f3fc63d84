package market

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
)

var (
	correctScoreRe = regexp.MustCompile(`(\d+)\s*:\s*(\d+)`)
	thresholdRe    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	// Atalhos "o2.5"/"u2.5" gravados por telas antigas
	shorthandRe = regexp.MustCompile(`^([ou])\s*(\d+(?:[.,]\d+)?)$`)
)

// Evaluate decide se a seleção está correta para o resultado dado.
// Mercado não reconhecido ou dado obrigatório ausente (intervalo,
// prorrogação) resolvem como false: uma aposta problemática nunca vira
// erro nem bloqueia a liquidação do resto do lote.
func Evaluate(marketName, rawSelection string, r *result.MatchResult) bool {
	return EvaluateKind(ParseKind(marketName), NormalizeSelection(rawSelection), r)
}

// EvaluateKind avalia uma seleção já normalizada contra o enum de mercado
func EvaluateKind(kind Kind, sel string, r *result.MatchResult) bool {
	total := r.HomeGoals + r.AwayGoals

	switch kind {
	case KindMatchWinner:
		side, ok := parseSide(sel)
		return ok && side == r.Outcome

	case KindDoubleChance:
		first, second, ok := parseDoubleChance(sel)
		return ok && (r.Outcome == first || r.Outcome == second)

	case KindCorrectScore:
		return evalCorrectScore(sel, r)

	case KindFirstHalfWinner:
		// Sem dado de intervalo não há fallback para o tempo integral
		if r.HalftimeOutcome == nil {
			return false
		}
		side, ok := parseSide(sel)
		return ok && side == *r.HalftimeOutcome

	case KindSecondHalfWinner:
		if r.SecondHalfHome == nil || r.SecondHalfAway == nil {
			return false
		}
		side, ok := parseSide(sel)
		return ok && side == result.CompareGoals(*r.SecondHalfHome, *r.SecondHalfAway)

	case KindHalfTimeFullTime:
		return evalHalfTimeFullTime(sel, r)

	case KindOverUnder:
		return evalOverUnder(sel, total)

	case KindBothTeamsScore:
		yes, ok := parseYesNo(sel)
		both := r.HomeGoals > 0 && r.AwayGoals > 0
		return ok && both == yes

	case KindResultTotalGoals:
		resPart, goalsPart, ok := splitTwoPart(sel)
		if !ok {
			return false
		}
		side, sideOK := parseSide(resPart)
		return sideOK && side == r.Outcome && evalOverUnder(goalsPart, total)

	case KindResultBothTeamsScore:
		resPart, bttsPart, ok := splitTwoPart(sel)
		if !ok {
			return false
		}
		side, sideOK := parseSide(resPart)
		yes, yesOK := parseYesNo(bttsPart)
		both := r.HomeGoals > 0 && r.AwayGoals > 0
		return sideOK && side == r.Outcome && yesOK && both == yes

	case KindToQualify:
		return evalToQualify(sel, r)
	}

	return false
}

func evalCorrectScore(sel string, r *result.MatchResult) bool {
	m := correctScoreRe.FindStringSubmatch(sel)
	if m == nil {
		return false
	}
	home, _ := strconv.Atoi(m[1])
	away, _ := strconv.Atoi(m[2])
	return r.HomeGoals == home && r.AwayGoals == away
}

// evalHalfTimeFullTime exige acerto independente nos dois tempos.
// Seleções no formato "HT/FT", ex: "home/draw"
func evalHalfTimeFullTime(sel string, r *result.MatchResult) bool {
	if r.HalftimeOutcome == nil {
		return false
	}
	parts := strings.SplitN(sel, "/", 2)
	if len(parts) != 2 {
		return false
	}
	htSide, okHT := parseSide(parts[0])
	ftSide, okFT := parseSide(parts[1])
	return okHT && okFT && htSide == *r.HalftimeOutcome && ftSide == r.Outcome
}

// evalOverUnder aplica desigualdade estrita nos dois sentidos: total igual
// à linha não é over nem under, a seleção perde (push vira derrota)
func evalOverUnder(sel string, total int) bool {
	over, threshold, ok := parseOverUnder(sel)
	if !ok {
		return false
	}
	if over {
		return float64(total) > threshold
	}
	return float64(total) < threshold
}

func parseOverUnder(sel string) (over bool, threshold float64, ok bool) {
	s := strings.TrimSpace(sel)

	if m := shorthandRe.FindStringSubmatch(s); m != nil {
		th, err := parseThreshold(m[2])
		if err != nil {
			return false, 0, false
		}
		return m[1] == "o", th, true
	}

	switch {
	case strings.Contains(s, "under") || strings.Contains(s, "menos"):
		over = false
	case strings.Contains(s, "over") || strings.Contains(s, "más") || strings.Contains(s, "mas"):
		over = true
	default:
		return false, 0, false
	}

	num := thresholdRe.FindString(s)
	if num == "" {
		return false, 0, false
	}
	th, err := parseThreshold(num)
	if err != nil {
		return false, 0, false
	}
	return over, th, true
}

func parseThreshold(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// evalToQualify compara os agregados (gols finais + pênaltis) dos dois
// lados de um confronto eliminatório. Só vence quem soma estritamente
// mais; empate ou agregado indeterminável resolvem como false
func evalToQualify(sel string, r *result.MatchResult) bool {
	side, ok := parseQualifierSide(sel)
	if !ok {
		return false
	}

	homeAgg := r.FinalGoalsHome + intOrZero(r.PenaltyHome)
	awayAgg := r.FinalGoalsAway + intOrZero(r.PenaltyAway)

	switch side {
	case result.OutcomeHome:
		return homeAgg > awayAgg
	case result.OutcomeAway:
		return awayAgg > homeAgg
	}
	return false
}

// splitTwoPart separa seleções compostas "resultado + gols".
// Formatos aceitos: "home/over 2.5", legado "home & over 2.5" e "home and over 2.5"
func splitTwoPart(sel string) (first, second string, ok bool) {
	for _, sep := range []string{" & ", "&", " and ", "/"} {
		if idx := strings.Index(sel, sep); idx >= 0 {
			return strings.TrimSpace(sel[:idx]), strings.TrimSpace(sel[idx+len(sep):]), true
		}
	}
	return "", "", false
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
