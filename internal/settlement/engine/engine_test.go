package engine

import (
	"testing"

	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
)

func matchResult(fixtureID int64, home, away int) *result.MatchResult {
	return &result.MatchResult{
		FixtureID:      fixtureID,
		HomeGoals:      home,
		AwayGoals:      away,
		Outcome:        result.CompareGoals(home, away),
		FinalGoalsHome: home,
		FinalGoalsAway: away,
		MatchStatus:    result.StatusFT,
	}
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name string
		legs []Status
		want Status
	}{
		{"all won", []Status{StatusWon, StatusWon, StatusWon}, StatusWon},
		{"single leg won", []Status{StatusWon}, StatusWon},
		{"one lost loses all", []Status{StatusWon, StatusLost, StatusWon}, StatusLost},
		// perna perdida decide mesmo com pernas ainda pendentes
		{"lost short-circuits pending", []Status{StatusWon, StatusPending, StatusLost}, StatusLost},
		{"pending keeps combo pending", []Status{StatusWon, StatusPending}, StatusPending},
		{"all pending", []Status{StatusPending, StatusPending}, StatusPending},
		{"empty legs settle as won", nil, StatusWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateStatus(tt.legs); got != tt.want {
				t.Errorf("AggregateStatus(%v) = %q, want %q", tt.legs, got, tt.want)
			}
		})
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		stake float64
		odds  float64
		want  float64
	}{
		{100, 2.5, 250},
		{50, 1.91, 95.5},
		{10, 3, 30},
		// aritmética decimal evita os resíduos de float64
		{33.33, 3, 99.99},
		{0.1, 2.2, 0.22},
	}
	for _, tt := range tests {
		if got := Payout(tt.stake, tt.odds); got != tt.want {
			t.Errorf("Payout(%v, %v) = %v, want %v", tt.stake, tt.odds, got, tt.want)
		}
	}
}

func TestComboPayout(t *testing.T) {
	if got := ComboPayout(100, []float64{2, 1.5}); got != 300 {
		t.Errorf("ComboPayout = %v, want 300", got)
	}
	if got := ComboPayout(10, []float64{1.5, 1.5, 2}); got != 45 {
		t.Errorf("ComboPayout = %v, want 45", got)
	}
	if got := ComboPayout(100, nil); got != 100 {
		t.Errorf("ComboPayout with no legs = %v, want 100", got)
	}
}

func TestSettleSingles(t *testing.T) {
	results := map[int64]*result.MatchResult{
		1: matchResult(1, 2, 1), // home win, total 3
		2: matchResult(2, 1, 1), // draw, total 2
	}

	singles := []Single{
		{ID: 10, UserID: "u1", FixtureID: 1, Stake: 100, Odds: 2.5, Market: "Match Winner", Selection: "Home", Status: StatusPending},
		{ID: 11, UserID: "u2", FixtureID: 2, Stake: 50, Odds: 1.8, Market: "Goals Over/Under", Selection: "Over 2.5", Status: StatusPending},
		{ID: 12, UserID: "u3", FixtureID: 99, Stake: 30, Odds: 2, Market: "Match Winner", Selection: "Home", Status: StatusPending},
		{ID: 13, UserID: "u4", FixtureID: 1, Stake: 20, Odds: 3, Market: "Match Winner", Selection: "Home", Status: StatusWon},
	}

	out := NewSettler(zap.NewNop()).Settle(singles, nil, results)

	if len(out.Singles) != 2 {
		t.Fatalf("settled %d singles, want 2 (no result and non-pending stay untouched)", len(out.Singles))
	}

	won := out.Singles[0]
	if won.ID != 10 || won.Status != StatusWon || won.Payout != 250 {
		t.Errorf("winning single = %+v, want id=10 won payout=250", won)
	}

	lost := out.Singles[1]
	if lost.ID != 11 || lost.Status != StatusLost || lost.Payout != 0 {
		t.Errorf("losing single = %+v, want id=11 lost payout=0", lost)
	}

	// Cenário F: só a vencedora credita, e credita exatamente o payout
	if len(out.Credits) != 1 {
		t.Fatalf("got %d credits, want 1", len(out.Credits))
	}
	c := out.Credits[0]
	if c.UserID != "u1" || c.Amount != 250 || c.Ref != "bet:10" {
		t.Errorf("credit = %+v, want u1 +250 ref bet:10", c)
	}
}

func TestSettleComboLostShortCircuits(t *testing.T) {
	// Cenário E: tres pernas em F1 (ganha), F2 (sem resultado), F3 (perde).
	// A combinada perde imediatamente, sem esperar F2
	results := map[int64]*result.MatchResult{
		1: matchResult(1, 2, 0),
		3: matchResult(3, 0, 1),
	}

	combos := []Combo{
		{
			ID: 20, UserID: "u1", Stake: 100, Status: StatusPending,
			Legs: []Leg{
				{ID: 201, BetID: 20, FixtureID: 1, Market: "Match Winner", Selection: "Home", Odds: 1.5, Status: StatusPending},
				{ID: 202, BetID: 20, FixtureID: 2, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusPending},
				{ID: 203, BetID: 20, FixtureID: 3, Market: "Match Winner", Selection: "Home", Odds: 1.8, Status: StatusPending},
			},
		},
	}

	out := NewSettler(zap.NewNop()).Settle(nil, combos, results)

	if len(out.Legs) != 2 {
		t.Fatalf("settled %d legs, want 2 (F2 has no result)", len(out.Legs))
	}
	if out.Legs[0].ID != 201 || out.Legs[0].Status != StatusWon {
		t.Errorf("leg 201 = %+v, want won", out.Legs[0])
	}
	if out.Legs[1].ID != 203 || out.Legs[1].Status != StatusLost {
		t.Errorf("leg 203 = %+v, want lost", out.Legs[1])
	}

	if len(out.Combos) != 1 {
		t.Fatalf("got %d combo updates, want 1", len(out.Combos))
	}
	if out.Combos[0].Status != StatusLost || out.Combos[0].Payout != 0 {
		t.Errorf("combo = %+v, want lost payout=0", out.Combos[0])
	}
	if len(out.Credits) != 0 {
		t.Errorf("lost combo must not credit points, got %v", out.Credits)
	}
}

func TestSettleComboAllLegsWin(t *testing.T) {
	results := map[int64]*result.MatchResult{
		1: matchResult(1, 2, 0),
		2: matchResult(2, 0, 3),
	}

	combos := []Combo{
		{
			ID: 30, UserID: "u5", Stake: 100, Status: StatusPending,
			Legs: []Leg{
				// perna já liquidada numa passada anterior
				{ID: 301, BetID: 30, FixtureID: 9, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusWon},
				{ID: 302, BetID: 30, FixtureID: 1, Market: "Match Winner", Selection: "Home", Odds: 1.5, Status: StatusPending},
				{ID: 303, BetID: 30, FixtureID: 2, Market: "Match Winner", Selection: "Away", Odds: 2, Status: StatusPending},
			},
		},
	}

	out := NewSettler(zap.NewNop()).Settle(nil, combos, results)

	if len(out.Combos) != 1 || out.Combos[0].Status != StatusWon {
		t.Fatalf("combo updates = %+v, want one won", out.Combos)
	}
	// payout = stake × produto de TODAS as pernas, inclusive as antigas
	if out.Combos[0].Payout != 600 {
		t.Errorf("combo payout = %v, want 600 (100 × 2 × 1.5 × 2)", out.Combos[0].Payout)
	}
	if len(out.Credits) != 1 || out.Credits[0].Amount != 600 || out.Credits[0].Ref != "bet:30" {
		t.Errorf("credits = %+v, want single +600 ref bet:30", out.Credits)
	}
}

func TestSettleComboStaysPendingWithOpenLegs(t *testing.T) {
	results := map[int64]*result.MatchResult{
		1: matchResult(1, 1, 0),
	}

	combos := []Combo{
		{
			ID: 40, UserID: "u6", Stake: 50, Status: StatusPending,
			Legs: []Leg{
				{ID: 401, BetID: 40, FixtureID: 1, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusPending},
				{ID: 402, BetID: 40, FixtureID: 2, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusPending},
			},
		},
	}

	out := NewSettler(zap.NewNop()).Settle(nil, combos, results)

	if len(out.Legs) != 1 || out.Legs[0].Status != StatusWon {
		t.Fatalf("legs = %+v, want one won leg", out.Legs)
	}
	if len(out.Combos) != 0 {
		t.Errorf("combo with open legs must stay pending, got %+v", out.Combos)
	}
	if len(out.Credits) != 0 {
		t.Errorf("pending combo must not credit, got %+v", out.Credits)
	}
}

func TestSettleAlreadySettledComboNotReissued(t *testing.T) {
	// Combinada perdida numa passada anterior: pernas atrasadas ainda
	// liquidam, mas a combinada não é liquidada de novo (idempotência)
	results := map[int64]*result.MatchResult{
		2: matchResult(2, 2, 0),
	}

	combos := []Combo{
		{
			ID: 50, UserID: "u7", Stake: 50, Status: StatusLost,
			Legs: []Leg{
				{ID: 501, BetID: 50, FixtureID: 1, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusLost},
				{ID: 502, BetID: 50, FixtureID: 2, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusPending},
			},
		},
	}

	out := NewSettler(zap.NewNop()).Settle(nil, combos, results)

	if len(out.Legs) != 1 || out.Legs[0].ID != 502 || out.Legs[0].Status != StatusWon {
		t.Fatalf("legs = %+v, want leg 502 won", out.Legs)
	}
	if len(out.Combos) != 0 {
		t.Errorf("already settled combo must not be reissued, got %+v", out.Combos)
	}
}

func TestSettleSecondRunIsNoop(t *testing.T) {
	// Idempotência: a segunda passada sobre o mesmo estado já liquidado
	// não produz nenhuma mutação
	results := map[int64]*result.MatchResult{1: matchResult(1, 2, 1)}

	singles := []Single{
		{ID: 60, UserID: "u8", FixtureID: 1, Stake: 10, Odds: 2, Market: "Match Winner", Selection: "Home", Status: StatusWon},
	}
	combos := []Combo{
		{
			ID: 61, UserID: "u8", Stake: 10, Status: StatusWon,
			Legs: []Leg{
				{ID: 611, BetID: 61, FixtureID: 1, Market: "Match Winner", Selection: "Home", Odds: 2, Status: StatusWon},
			},
		},
	}

	out := NewSettler(zap.NewNop()).Settle(singles, combos, results)
	if len(out.Singles) != 0 || len(out.Legs) != 0 || len(out.Combos) != 0 || len(out.Credits) != 0 {
		t.Errorf("second run must be a no-op, got %+v", out)
	}
}

func TestSettleUnknownMarketResolvesLost(t *testing.T) {
	results := map[int64]*result.MatchResult{1: matchResult(1, 5, 0)}

	singles := []Single{
		{ID: 70, UserID: "u9", FixtureID: 1, Stake: 10, Odds: 2, Market: "Asian Handicap", Selection: "Home -1.5", Status: StatusPending},
	}

	out := NewSettler(zap.NewNop()).Settle(singles, nil, results)
	if len(out.Singles) != 1 || out.Singles[0].Status != StatusLost {
		t.Fatalf("unknown market must settle as lost, got %+v", out.Singles)
	}
	if len(out.Credits) != 0 {
		t.Errorf("no credit expected, got %+v", out.Credits)
	}
}
