package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/provider"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
	"github.com/fvelazquezb100/league-bets-settlement/pkg/contracts/events"
)

// Poller acompanha as ligas configuradas no provider, normaliza partidas
// recém-encerradas, alimenta o cache de resultados e publica match_finished.
// A presença no cache serve de dedup: resultado já cacheado já foi publicado
type Poller struct {
	Log       *zap.Logger
	Provider  *provider.Client
	Cache     *provider.ResultCache
	Publisher Publisher
	LeagueIDs []int64

	OnPolled    func()       // métricas (counter++)
	OnPublished func()       // métricas
	OnError     func(string) // métricas por fase
}

type Publisher interface {
	Publish(ctx context.Context, e events.MatchFinished) error
}

// Run inicia o loop de polling com o intervalo dado
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.pollOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce varre todas as ligas; erro em uma liga não derruba as demais
func (p *Poller) pollOnce(ctx context.Context) {
	for _, leagueID := range p.LeagueIDs {
		if err := p.pollLeague(ctx, leagueID); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.Log.Warn("league poll failed", zap.Int64("league_id", leagueID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("poll")
			}
		}
	}
}

func (p *Poller) pollLeague(ctx context.Context, leagueID int64) error {
	fixtures, err := p.Provider.FetchFinishedByLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if p.OnPolled != nil {
		p.OnPolled()
	}

	for _, raw := range fixtures {
		res := result.Normalize(raw)
		if res == nil || res.MatchStatus == "" {
			continue
		}

		_, seen, err := p.Cache.Get(ctx, res.FixtureID)
		if err != nil {
			p.Log.Warn("result cache read failed", zap.Int64("fixture_id", res.FixtureID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache_read")
			}
			continue
		}
		if seen {
			continue
		}

		if err := p.Cache.Set(ctx, res); err != nil {
			p.Log.Warn("result cache write failed", zap.Int64("fixture_id", res.FixtureID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache_write")
			}
			continue
		}

		e := events.MatchFinished{
			FixtureID: res.FixtureID,
			LeagueID:  res.LeagueID,
			HomeTeam:  res.HomeTeam,
			AwayTeam:  res.AwayTeam,
			Status:    string(res.MatchStatus),
			Score:     res.FormatExtended(),
			Ts:        time.Now().UTC(),
		}
		if err := p.Publisher.Publish(ctx, e); err != nil {
			if p.OnError != nil {
				p.OnError("publish")
			}
			continue
		}
		if p.OnPublished != nil {
			p.OnPublished()
		}

		p.Log.Info("match finished",
			zap.Int64("fixture_id", res.FixtureID),
			zap.String("score", e.Score),
		)
	}

	return nil
}
