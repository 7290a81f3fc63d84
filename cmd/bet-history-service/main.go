package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	hhttp "github.com/fvelazquezb100/league-bets-settlement/internal/bet-history/http"
	hrepo "github.com/fvelazquezb100/league-bets-settlement/internal/bet-history/repo"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/provider"
	sharedcache "github.com/fvelazquezb100/league-bets-settlement/internal/shared/cache"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/config"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/db"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/logger"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("bet-history-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "bet-history-service"), zap.String("env", cfg.Env))

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

	api := &hhttp.API{
		ReadRepo: &hrepo.ReadRepo{DB: pg},
		Results:  provider.NewResultCache(redisClient, 24*time.Hour),
	}

	// Servidor de métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
