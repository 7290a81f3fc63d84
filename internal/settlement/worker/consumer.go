package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/kafka"
	ev "github.com/fvelazquezb100/league-bets-settlement/pkg/contracts/events"
)

// Consumer consome eventos match_finished e dispara uma passada imediata
// de liquidação. O ticker do Runner segue como rede de segurança: perder
// um evento só atrasa a liquidação até a próxima passada agendada
type Consumer struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	DLQ    *kafka.Writer // destino de eventos malformados; opcional

	OnEvent func()             // métricas
	OnError func(stage string) // métricas por fase
}

// Run consome até o contexto encerrar, enviando um gatilho por evento
// válido. Gatilho com passada já agendada é descartado (coalescência:
// uma passada cobre todos os eventos acumulados)
func (c *Consumer) Run(ctx context.Context, triggers chan<- struct{}) error {
	for {
		key, value, err := kafka.ReadNext(ctx, c.Reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Warn("match_finished read failed", zap.Error(err))
			if c.OnError != nil {
				c.OnError("consumer")
			}
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		var e ev.MatchFinished
		if err := json.Unmarshal(value, &e); err != nil {
			c.Log.Warn("malformed match_finished event, sending to DLQ",
				zap.ByteString("key", key), zap.Error(err))
			c.deadLetter(ctx, key, value)
			continue
		}

		c.Log.Info("match finished",
			zap.Int64("fixture_id", e.FixtureID),
			zap.String("score", e.Score),
			zap.String("status", e.Status),
		)
		if c.OnEvent != nil {
			c.OnEvent()
		}

		select {
		case triggers <- struct{}{}:
		default:
		}
	}
}

func (c *Consumer) deadLetter(ctx context.Context, key, value []byte) {
	if c.DLQ == nil {
		return
	}
	if err := kafka.WriteJSON(ctx, c.DLQ, string(key), value); err != nil {
		c.Log.Error("dead letter publish failed", zap.Error(err))
		if c.OnError != nil {
			c.OnError("dlq")
		}
	}
}
