package market

import (
	"strings"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
)

// As seleções armazenadas misturam inglês e espanhol ("home"/"local",
// "draw"/"empate"). A tabela de palavras-chave cobre as duas línguas e é
// usada por todos os mercados; nenhum avaliador faz matching próprio.

var (
	homeKeywords = []string{"home", "local"}
	awayKeywords = []string{"away", "visitante"}
	drawKeywords = []string{"draw", "empate"}
)

// NormalizeSelection remove o sufixo " @ <odds>" que algumas telas gravam
// junto da seleção, e padroniza caixa e espaços
func NormalizeSelection(raw string) string {
	s := raw
	if idx := strings.Index(s, " @ "); idx >= 0 {
		s = s[:idx]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// parseSide resolve uma seleção de lado único já normalizada.
// Retorna ok=false quando nenhuma palavra-chave é reconhecida
func parseSide(sel string) (result.Outcome, bool) {
	switch {
	case containsAny(sel, homeKeywords):
		return result.OutcomeHome, true
	case containsAny(sel, awayKeywords):
		return result.OutcomeAway, true
	case containsAny(sel, drawKeywords):
		return result.OutcomeDraw, true
	}
	return "", false
}

// parseQualifierSide aceita, além das palavras-chave de lado, os atalhos
// numéricos "1"/"2" usados pelos mercados de classificação
func parseQualifierSide(sel string) (result.Outcome, bool) {
	if side, ok := parseSide(sel); ok && side != result.OutcomeDraw {
		return side, true
	}
	switch strings.TrimSpace(sel) {
	case "1":
		return result.OutcomeHome, true
	case "2":
		return result.OutcomeAway, true
	}
	return "", false
}

// parseDoubleChance identifica o par de resultados de uma dupla chance.
// Exatamente duas das três palavras-chave precisam aparecer
func parseDoubleChance(sel string) (first, second result.Outcome, ok bool) {
	hasHome := containsAny(sel, homeKeywords)
	hasDraw := containsAny(sel, drawKeywords)
	hasAway := containsAny(sel, awayKeywords)

	switch {
	case hasHome && hasDraw && !hasAway:
		return result.OutcomeHome, result.OutcomeDraw, true
	case hasDraw && hasAway && !hasHome:
		return result.OutcomeDraw, result.OutcomeAway, true
	case hasHome && hasAway && !hasDraw:
		return result.OutcomeHome, result.OutcomeAway, true
	}
	return "", "", false
}

// parseYesNo resolve seleções booleanas (ambos marcam): yes/sí/si ou no.
// Comparação por token exato: "si" é substring de "visitante"
func parseYesNo(sel string) (yes bool, ok bool) {
	switch strings.TrimSpace(sel) {
	case "yes", "sí", "si":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}
