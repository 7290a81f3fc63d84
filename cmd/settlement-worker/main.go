package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/points"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/provider"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/repo"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/worker"
	sharedcache "github.com/fvelazquezb100/league-bets-settlement/internal/shared/cache"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/config"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/db"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/kafka"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Falha rápida: sem credencial do provider não há liquidação possível
	if err := cfg.RequireProvider(); err != nil {
		log.Fatal("provider config", zap.Error(err))
	}

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Resultados são imutáveis; TTL de 24h só limita o tamanho do cache
	resultCache := provider.NewResultCache(redisClient, 24*time.Hour)
	providerClient := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, log)

	// Producer de eventos bet_settled para consumidores downstream
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	// Métricas Prometheus para monitoramento da liquidação
	singles := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_singles_total", Help: "apostas simples liquidadas"}, []string{"status"})
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_selections_total", Help: "pernas de combinadas liquidadas"}, []string{"status"})
	combos := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_combos_total", Help: "combinadas liquidadas"}, []string{"status"})
	credited := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_points_credited_total", Help: "pontos creditados"})
	matchEvents := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_match_events_total", Help: "eventos match_finished consumidos"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(singles, selections, combos, credited, matchEvents, errorsBy)

	runner := &worker.Runner{
		Log:      log,
		Repo:     repo.NewPostgres(pg),
		Points:   points.NewPostgres(pg),
		Provider: providerClient,
		Cache:    resultCache,
		Settled:  settledWriter,

		OnSingle:    func(status string) { singles.WithLabelValues(status).Inc() },
		OnSelection: func(status string) { selections.WithLabelValues(status).Inc() },
		OnCombo:     func(status string) { combos.WithLabelValues(status).Inc() },
		OnCredit:    func(amount float64) { credited.Add(amount) },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Consumer de match_finished: antecipa a passada de liquidação assim
	// que uma partida encerra. No modo one-shot não há o que antecipar
	if !cfg.RunOnce {
		matchReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMatchFinished, "settlement-worker")
		defer matchReader.Close()
		dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMatchFinishedDLQ)
		defer dlqWriter.Close()

		triggers := make(chan struct{}, 1)
		runner.Triggers = triggers

		consumer := &worker.Consumer{
			Log:     log,
			Reader:  matchReader,
			DLQ:     dlqWriter,
			OnEvent: func() { matchEvents.Inc() },
			OnError: func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
		}
		go func() {
			if err := consumer.Run(ctx, triggers); err != nil && ctx.Err() == nil {
				log.Error("match_finished consumer stopped", zap.Error(err))
			}
		}()
	}

	log.Info("settlement-worker started",
		zap.Duration("interval", cfg.PollInterval),
		zap.Bool("run_once", cfg.RunOnce),
	)
	if err := runner.Run(ctx, cfg.PollInterval, cfg.RunOnce); err != nil && ctx.Err() == nil {
		log.Fatal("settlement stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
