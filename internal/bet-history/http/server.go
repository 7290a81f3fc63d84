package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fvelazquezb100/league-bets-settlement/internal/bet-history/repo"
	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/provider"
)

// API expõe os endpoints REST de consulta de histórico de apostas
// Utiliza um repositório de leitura (Postgres) e o cache de resultados (Redis)
type API struct {
	ReadRepo *repo.ReadRepo        // acesso ao banco de dados
	Results  *provider.ResultCache // cache de resultados normalizados
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/users/{id}/bets", a.listUserBets)  // Histórico de apostas do usuário
	r.Get("/v1/bets/{id}", a.getBet)              // Detalhe de uma aposta
	r.Get("/v1/results/{fixtureId}", a.getResult) // Resultado normalizado de uma partida
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listUserBets retorna as apostas (simples e combinadas) do usuário
func (a *API) listUserBets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	bets, err := a.ReadRepo.ListUserBets(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

// getBet retorna uma aposta pelo id
func (a *API) getBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bet id"})
		return
	}

	bet, err := a.ReadRepo.GetBet(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

// getResult retorna o resultado normalizado de uma partida, com o placar
// formatado (contexto AET/PEN incluso), direto do cache
func (a *API) getResult(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := strconv.ParseInt(chi.URLParam(r, "fixtureId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fixture id"})
		return
	}

	res, ok, err := a.Results.Get(r.Context(), fixtureID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"score":  res.FormatExtended(),
	})
}
