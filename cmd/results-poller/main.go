package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/results-poller/poller"
	"github.com/fvelazquezb100/league-bets-settlement/internal/results-poller/publisher"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/provider"
	sharedcache "github.com/fvelazquezb100/league-bets-settlement/internal/shared/cache"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/config"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.RequireProvider(); err != nil {
		log.Fatal("provider config", zap.Error(err))
	}
	if len(cfg.LeagueIDs) == 0 {
		log.Fatal("no leagues configured (LEAGUE_IDS)")
	}

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Kafka Publisher
	pub := publisher.NewKafkaPublisher(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.TopicMatchFinished,
		log,
	)
	defer pub.Close()

	// Métricas Prometheus
	polled := prometheus.NewCounter(prometheus.CounterOpts{Name: "results_poller_polls_total", Help: "consultas ao provider"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "results_poller_published_total", Help: "eventos match_finished publicados"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "results_poller_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(polled, published, errorsBy)

	p := &poller.Poller{
		Log:       log,
		Provider:  provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, log),
		Cache:     provider.NewResultCache(redisClient, 24*time.Hour),
		Publisher: pub,
		LeagueIDs: cfg.LeagueIDs,

		OnPolled:    func() { polled.Inc() },
		OnPublished: func() { published.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Metrics e health
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("results-poller started",
		zap.Int64s("leagues", cfg.LeagueIDs),
		zap.Duration("interval", cfg.PollInterval),
	)
	if err := p.Run(ctx, cfg.PollInterval); err != nil && ctx.Err() == nil {
		log.Fatal("poller stopped with error", zap.Error(err))
	}
	log.Info("results-poller stopped")
}
