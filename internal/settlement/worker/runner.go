package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/engine"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/points"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/provider"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/repo"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/kafka"
	ev "github.com/fvelazquezb100/league-bets-settlement/pkg/contracts/events"
)

// Runner executa a passada de liquidação: resolve resultados das fixtures
// pendentes, avalia as apostas, persiste e credita pontos.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Runner struct {
	Log      *zap.Logger
	Repo     *repo.Postgres
	Points   *points.Postgres
	Provider *provider.Client
	Cache    *provider.ResultCache
	Settled  *kafka.Writer // producer bet_settled; opcional

	// Gatilhos externos (eventos match_finished) antecipam a próxima
	// passada sem esperar o ticker; opcional
	Triggers <-chan struct{}

	OnSingle    func(status string) // métricas (counter++)
	OnSelection func(status string) // métricas
	OnCombo     func(status string) // métricas
	OnCredit    func(amount float64)
	OnError     func(stage string) // métricas por fase
}

// Summary resume uma passada de liquidação, para log e monitoramento
type Summary struct {
	FixturesResolved  int
	SinglesSettled    int
	SelectionsSettled int
	CombosSettled     int
	PointsCredited    float64
	Failures          int
	Duration          time.Duration
}

// Run roda a liquidação em loop com o intervalo dado.
// Com runOnce, processa o backlog atual uma única vez e retorna
// (o agendador one-shot se desagenda sozinho depois disso)
func (r *Runner) Run(ctx context.Context, interval time.Duration, runOnce bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Log.Error("settlement run failed", zap.Error(err))
			if r.OnError != nil {
				r.OnError("run")
			}
		} else {
			r.Log.Info("settlement run finished",
				zap.Int("fixtures", summary.FixturesResolved),
				zap.Int("singles", summary.SinglesSettled),
				zap.Int("selections", summary.SelectionsSettled),
				zap.Int("combos", summary.CombosSettled),
				zap.Float64("points_credited", summary.PointsCredited),
				zap.Int("failures", summary.Failures),
				zap.Duration("duration", summary.Duration),
			)
		}

		if runOnce {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-r.Triggers:
		}
	}
}

// RunOnce executa uma passada completa sobre o backlog pendente.
// Falha de fetch no provider é fatal e aborta ANTES de qualquer mutação;
// falha de persistência em um registro individual é contada e pulada
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	start := time.Now()
	var summary Summary

	fixtureIDs, err := r.Repo.PendingFixtureIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("list pending fixtures: %w", err)
	}
	if len(fixtureIDs) == 0 {
		summary.Duration = time.Since(start)
		return summary, nil
	}

	results, err := r.resolveResults(ctx, fixtureIDs)
	if err != nil {
		return summary, err
	}
	summary.FixturesResolved = len(results)
	if len(results) == 0 {
		summary.Duration = time.Since(start)
		return summary, nil
	}

	resolved := make([]int64, 0, len(results))
	for id := range results {
		resolved = append(resolved, id)
	}

	singles, err := r.Repo.PendingSingles(ctx, resolved)
	if err != nil {
		return summary, fmt.Errorf("list pending singles: %w", err)
	}
	combos, err := r.Repo.PendingCombos(ctx, resolved)
	if err != nil {
		return summary, fmt.Errorf("list pending combos: %w", err)
	}

	settled := engine.NewSettler(r.Log).Settle(singles, combos, results)
	r.persist(ctx, settled, &summary)

	summary.Duration = time.Since(start)
	return summary, nil
}

// resolveResults monta o mapa fixture→resultado: cache Redis primeiro,
// provider no miss. Fixture sem status final ou sem placar é pulada;
// fixture desconhecida no provider também (dado faltante não é transitório)
func (r *Runner) resolveResults(ctx context.Context, fixtureIDs []int64) (map[int64]*result.MatchResult, error) {
	results := make(map[int64]*result.MatchResult, len(fixtureIDs))

	for _, id := range fixtureIDs {
		if r.Cache != nil {
			cached, ok, err := r.Cache.Get(ctx, id)
			if err != nil {
				r.Log.Warn("result cache read failed", zap.Int64("fixture_id", id), zap.Error(err))
				if r.OnError != nil {
					r.OnError("cache_read")
				}
				// cache indisponível não bloqueia: cai para o provider
			} else if ok {
				if cached.MatchStatus != "" {
					results[id] = cached
				}
				continue
			}
		}

		raw, err := r.Provider.FetchFixture(ctx, id)
		if err != nil {
			if errors.Is(err, provider.ErrFixtureNotFound) {
				r.Log.Warn("fixture unknown to provider, skipping", zap.Int64("fixture_id", id))
				continue
			}
			if r.OnError != nil {
				r.OnError("provider")
			}
			return nil, fmt.Errorf("fetch fixture %d: %w", id, err)
		}

		res := result.Normalize(*raw)
		if res == nil {
			r.Log.Warn("fixture without determinable score, skipping", zap.Int64("fixture_id", id))
			continue
		}
		if res.MatchStatus == "" {
			// partida ainda não encerrou; fica para a próxima passada
			continue
		}

		if r.Cache != nil {
			if err := r.Cache.Set(ctx, res); err != nil {
				r.Log.Warn("result cache write failed", zap.Int64("fixture_id", id), zap.Error(err))
				if r.OnError != nil {
					r.OnError("cache_write")
				}
			}
		}
		results[id] = res
	}

	return results, nil
}

// persist grava as mutações da passada: pernas antes das combinadas,
// cada registro condicionado a status='pending'. Erros individuais são
// contados e não interrompem o lote
func (r *Runner) persist(ctx context.Context, settled engine.Result, summary *Summary) {
	for _, leg := range settled.Legs {
		applied, err := r.Repo.SettleSelection(ctx, leg.ID, leg.Status)
		if err != nil {
			r.Log.Error("settle selection", zap.Int64("selection_id", leg.ID), zap.Error(err))
			r.countFailure(summary, "db_selection")
			continue
		}
		if !applied {
			continue
		}
		summary.SelectionsSettled++
		if r.OnSelection != nil {
			r.OnSelection(string(leg.Status))
		}
	}

	for _, s := range settled.Singles {
		applied, err := r.Repo.SettleSingle(ctx, s.ID, s.Status, s.Payout)
		if err != nil {
			r.Log.Error("settle single", zap.Int64("bet_id", s.ID), zap.Error(err))
			r.countFailure(summary, "db_single")
			continue
		}
		if !applied {
			continue
		}
		summary.SinglesSettled++
		if r.OnSingle != nil {
			r.OnSingle(string(s.Status))
		}
		if s.Status == engine.StatusWon {
			r.credit(ctx, s.UserID, s.Payout, fmt.Sprintf("bet:%d", s.ID), summary)
		}
		r.publishSettled(ctx, s.ID, s.UserID, "single", string(s.Status), s.Payout)
	}

	for _, c := range settled.Combos {
		applied, err := r.Repo.SettleCombo(ctx, c.ID, c.Status, c.Payout)
		if err != nil {
			r.Log.Error("settle combo", zap.Int64("bet_id", c.ID), zap.Error(err))
			r.countFailure(summary, "db_combo")
			continue
		}
		if !applied {
			continue
		}
		summary.CombosSettled++
		if r.OnCombo != nil {
			r.OnCombo(string(c.Status))
		}
		if c.Status == engine.StatusWon {
			r.credit(ctx, c.UserID, c.Payout, fmt.Sprintf("bet:%d", c.ID), summary)
		}
		r.publishSettled(ctx, c.ID, c.UserID, "combo", string(c.Status), c.Payout)
	}
}

func (r *Runner) credit(ctx context.Context, userID string, amount float64, ref string, summary *Summary) {
	if _, err := r.Points.Credit(ctx, userID, amount, "payout:"+ref); err != nil {
		r.Log.Error("points credit", zap.String("user_id", userID), zap.String("ref", ref), zap.Error(err))
		r.countFailure(summary, "points")
		return
	}
	summary.PointsCredited += amount
	if r.OnCredit != nil {
		r.OnCredit(amount)
	}
}

func (r *Runner) publishSettled(ctx context.Context, betID int64, userID, kind, status string, payout float64) {
	if r.Settled == nil {
		return
	}
	e := ev.BetSettled{
		BetID:  betID,
		UserID: userID,
		Kind:   kind,
		Status: status,
		Payout: payout,
		Ts:     time.Now().UTC(),
	}
	b, _ := json.Marshal(e)
	if err := kafka.WriteJSON(ctx, r.Settled, fmt.Sprintf("%d", betID), b); err != nil {
		r.Log.Warn("publish bet_settled", zap.Int64("bet_id", betID), zap.Error(err))
		if r.OnError != nil {
			r.OnError("kafka")
		}
	}
}

func (r *Runner) countFailure(summary *Summary, stage string) {
	summary.Failures++
	if r.OnError != nil {
		r.OnError(stage)
	}
}
