package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
)

// Client consulta o provider de fixtures (API-Football v3).
// Erros transitórios de rede são retentados antes de falhar a chamada;
// a liquidação trata falha definitiva de fetch como fatal para o lote
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Log     *zap.Logger
}

func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Log:     log,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

var ErrFixtureNotFound = errors.New("fixture not found")

// envelope padrão das respostas do provider
type apiResponse struct {
	Response []result.RawFixture `json:"response"`
}

// FetchFixture busca o payload bruto de uma fixture pelo id
func (c *Client) FetchFixture(ctx context.Context, fixtureID int64) (*result.RawFixture, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(fixtureID, 10))

	var out apiResponse
	if err := c.getJSON(ctx, "/fixtures", q, &out); err != nil {
		return nil, err
	}
	if len(out.Response) == 0 {
		return nil, ErrFixtureNotFound
	}
	return &out.Response[0], nil
}

// FetchFinishedByLeague busca as partidas encerradas mais recentes de uma liga
func (c *Client) FetchFinishedByLeague(ctx context.Context, leagueID int64) ([]result.RawFixture, error) {
	q := url.Values{}
	q.Set("league", strconv.FormatInt(leagueID, 10))
	q.Set("status", "FT-AET-PEN")
	q.Set("last", "30")

	var out apiResponse
	if err := c.getJSON(ctx, "/fixtures", q, &out); err != nil {
		return nil, err
	}
	return out.Response, nil
}

// getJSON executa o GET com até 3 tentativas e backoff linear
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	const retries = 3

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(300*attempt) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.doGet(ctx, path, q, dst); err != nil {
			lastErr = err
			if c.Log != nil {
				c.Log.Warn("provider request failed", zap.String("path", path), zap.Int("attempt", attempt+1), zap.Error(err))
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("provider %s: %w", path, lastErr)
}

func (c *Client) doGet(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-apisports-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("provider http " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
