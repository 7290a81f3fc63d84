package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/config"
	"github.com/fvelazquezb100/league-bets-settlement/internal/shared/logger"
)

// Catálogo fixo de partidas encerradas para desenvolvimento local.
// Inclui FT simples, AET e PEN para exercitar os caminhos estendidos
var fixtureCatalog = []fixture{
	newFixture(1001, 140, "FT", "Real Madrid", "Girona", score{i(2), i(1)}, score{i(1), i(0)}, score{i(2), i(1)}, score{nil, nil}, score{nil, nil}),
	newFixture(1002, 140, "FT", "Sevilla", "Betis", score{i(1), i(1)}, score{i(0), i(1)}, score{i(1), i(1)}, score{nil, nil}, score{nil, nil}),
	newFixture(1003, 140, "FT", "Valencia", "Osasuna", score{i(0), i(3)}, score{i(0), i(2)}, score{i(0), i(3)}, score{nil, nil}, score{nil, nil}),
	newFixture(2001, 2, "AET", "Atlético Madrid", "Inter", score{i(3), i(2)}, score{i(1), i(1)}, score{i(2), i(2)}, score{i(1), i(0)}, score{nil, nil}),
	newFixture(2002, 2, "PEN", "City", "Madrid", score{i(1), i(1)}, score{i(0), i(0)}, score{i(1), i(1)}, score{i(0), i(0)}, score{i(3), i(4)}),
}

// fixture replica o envelope de /fixtures do provider real
type fixture struct {
	Fixture struct {
		ID     int64 `json:"id"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID int64 `json:"id"`
	} `json:"league"`
	Teams struct {
		Home teamName `json:"home"`
		Away teamName `json:"away"`
	} `json:"teams"`
	Goals score `json:"goals"`
	Score struct {
		Halftime  score `json:"halftime"`
		Fulltime  score `json:"fulltime"`
		Extratime score `json:"extratime"`
		Penalty   score `json:"penalty"`
	} `json:"score"`
}

type teamName struct {
	Name string `json:"name"`
}

type score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func i(v int) *int { return &v }

func newFixture(id, leagueID int64, status, home, away string, goals, halftime, fulltime, extratime, penalty score) fixture {
	var f fixture
	f.Fixture.ID = id
	f.Fixture.Status.Short = status
	f.League.ID = leagueID
	f.Teams.Home.Name = home
	f.Teams.Away.Name = away
	f.Goals = goals
	f.Score.Halftime = halftime
	f.Score.Fulltime = fulltime
	f.Score.Extratime = extratime
	f.Score.Penalty = penalty
	return f
}

var requestsServed = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "provider_sim_requests_total",
	Help: "Requisições atendidas",
})

// fixturesHandler responde /fixtures?id= e /fixtures?league= no mesmo
// envelope {"response":[...]} do provider real
func fixturesHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestsServed.Inc()

		var out []fixture
		if idStr := r.URL.Query().Get("id"); idStr != "" {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				http.Error(w, "bad id", http.StatusBadRequest)
				return
			}
			for _, f := range fixtureCatalog {
				if f.Fixture.ID == id {
					out = append(out, f)
				}
			}
		} else if leagueStr := r.URL.Query().Get("league"); leagueStr != "" {
			league, err := strconv.ParseInt(leagueStr, 10, 64)
			if err != nil {
				http.Error(w, "bad league", http.StatusBadRequest)
				return
			}
			for _, f := range fixtureCatalog {
				if f.League.ID == league {
					out = append(out, f)
				}
			}
		}

		log.Debug("fixtures served", zap.Int("count", len(out)))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"response": out})
	}
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(requestsServed)

	// ==== MUX PÚBLICO (HTTP principal): /fixtures
	appMux := http.NewServeMux()
	appMux.HandleFunc("/fixtures", fixturesHandler(log))

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("provider simulator (metrics) running", zap.String("addr", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("provider simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/fixtures"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
