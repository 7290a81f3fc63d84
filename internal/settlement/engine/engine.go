package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/market"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
)

// Status de uma aposta ou de uma perna de combinada.
// Transição única: pending → won|lost, terminal depois disso
type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Single é uma aposta simples pendente
type Single struct {
	ID        int64
	UserID    string
	FixtureID int64
	Stake     float64
	Odds      float64
	Market    string
	Selection string
	Status    Status
}

// Leg é uma perna de aposta combinada; liquida de forma independente
// pelo resultado da própria fixture
type Leg struct {
	ID        int64
	BetID     int64
	FixtureID int64
	Market    string
	Selection string
	Odds      float64
	Status    Status
}

// Combo é uma aposta combinada com o conjunto completo de pernas.
// O status da combinada é sempre função pura dos status das pernas
type Combo struct {
	ID     int64
	UserID string
	Stake  float64
	Status Status
	Legs   []Leg
}

type SingleUpdate struct {
	ID     int64
	UserID string
	Status Status
	Payout float64
}

type LegUpdate struct {
	ID     int64
	BetID  int64
	Status Status
}

type ComboUpdate struct {
	ID     int64
	UserID string
	Status Status
	Payout float64
}

// Credit é um crédito de pontos a aplicar como incremento atômico
type Credit struct {
	UserID string
	Amount float64
	Ref    string
}

// Result agrupa todas as mutações de uma passada de liquidação
type Result struct {
	Singles []SingleUpdate
	Legs    []LegUpdate
	Combos  []ComboUpdate
	Credits []Credit
}

// AggregateStatus deriva o status da combinada a partir das pernas:
// qualquer perna perdida já perde a combinada, mesmo com pernas
// pendentes; só ganha quando todas liquidaram e nenhuma perdeu
func AggregateStatus(legs []Status) Status {
	pending := false
	for _, st := range legs {
		switch st {
		case StatusLost:
			return StatusLost
		case StatusPending:
			pending = true
		}
	}
	if pending {
		return StatusPending
	}
	return StatusWon
}

// Payout calcula stake × odds com aritmética decimal, arredondado a 2 casas
func Payout(stake, odds float64) float64 {
	return decimal.NewFromFloat(stake).
		Mul(decimal.NewFromFloat(odds)).
		Round(2).
		InexactFloat64()
}

// ComboPayout calcula stake × produto das odds das pernas
func ComboPayout(stake float64, legOdds []float64) float64 {
	product := decimal.NewFromInt(1)
	for _, o := range legOdds {
		product = product.Mul(decimal.NewFromFloat(o))
	}
	return decimal.NewFromFloat(stake).Mul(product).Round(2).InexactFloat64()
}

// Settler resolve apostas pendentes contra resultados de partidas.
// Puro exceto pelo log: nenhuma persistência acontece aqui
type Settler struct {
	Log *zap.Logger
}

func NewSettler(log *zap.Logger) *Settler { return &Settler{Log: log} }

// Settle percorre simples e combinadas pendentes e produz as mutações.
// Apostas sem resultado disponível ficam intocadas (seguem pendentes).
// Pernas são avaliadas antes do status da combinada ser recomputado
func (s *Settler) Settle(singles []Single, combos []Combo, results map[int64]*result.MatchResult) Result {
	var out Result

	for _, bet := range singles {
		if bet.Status != StatusPending {
			continue
		}
		res, ok := results[bet.FixtureID]
		if !ok {
			continue
		}

		upd := SingleUpdate{ID: bet.ID, UserID: bet.UserID, Status: StatusLost}
		if s.evaluate(bet.Market, bet.Selection, bet.FixtureID, res) {
			upd.Status = StatusWon
			upd.Payout = Payout(bet.Stake, bet.Odds)
			out.Credits = append(out.Credits, Credit{
				UserID: bet.UserID,
				Amount: upd.Payout,
				Ref:    fmt.Sprintf("bet:%d", bet.ID),
			})
		}
		out.Singles = append(out.Singles, upd)
	}

	for ci := range combos {
		combo := &combos[ci]
		touched := false

		for li := range combo.Legs {
			leg := &combo.Legs[li]
			if leg.Status != StatusPending {
				continue
			}
			res, ok := results[leg.FixtureID]
			if !ok {
				continue
			}

			leg.Status = StatusLost
			if s.evaluate(leg.Market, leg.Selection, leg.FixtureID, res) {
				leg.Status = StatusWon
			}
			out.Legs = append(out.Legs, LegUpdate{ID: leg.ID, BetID: leg.BetID, Status: leg.Status})
			touched = true
		}

		// Combinada já liquidada numa passada anterior não liquida de novo,
		// mesmo que pernas atrasadas ainda recebam resultado
		if !touched || combo.Status != StatusPending {
			continue
		}

		statuses := make([]Status, len(combo.Legs))
		for i, leg := range combo.Legs {
			statuses[i] = leg.Status
		}

		agg := AggregateStatus(statuses)
		if agg == StatusPending {
			continue
		}

		upd := ComboUpdate{ID: combo.ID, UserID: combo.UserID, Status: agg}
		if agg == StatusWon {
			odds := make([]float64, len(combo.Legs))
			for i, leg := range combo.Legs {
				odds[i] = leg.Odds
			}
			upd.Payout = ComboPayout(combo.Stake, odds)
			out.Credits = append(out.Credits, Credit{
				UserID: combo.UserID,
				Amount: upd.Payout,
				Ref:    fmt.Sprintf("bet:%d", combo.ID),
			})
		}
		out.Combos = append(out.Combos, upd)
	}

	return out
}

// evaluate delega ao avaliador de mercados, registrando mercados não
// reconhecidos; eles resolvem como perda em vez de travar o lote
func (s *Settler) evaluate(marketName, selection string, fixtureID int64, res *result.MatchResult) bool {
	kind := market.ParseKind(marketName)
	if kind == market.KindUnknown && s.Log != nil {
		s.Log.Warn("unknown market, settling as lost",
			zap.String("market", marketName),
			zap.String("selection", selection),
			zap.Int64("fixture_id", fixtureID),
		)
	}
	return market.EvaluateKind(kind, market.NormalizeSelection(selection), res)
}
