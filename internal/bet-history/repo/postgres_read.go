package repo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/fvelazquezb100/league-bets-settlement/internal/bet-history/dto"
)

type ReadRepo struct {
	DB *sql.DB
}

// ListUserBets retorna as apostas do usuário, mais recentes primeiro,
// com as pernas das combinadas anexadas
func (r *ReadRepo) ListUserBets(ctx context.Context, userID string) ([]dto.BetView, error) {
	const q = `
		SELECT id, user_id, bet_type, fixture_id, stake, COALESCE(odds,1),
		       COALESCE(market,''), COALESCE(selection,''), status, COALESCE(payout,0),
		       to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SSZ')
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100;
	`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.BetView
	var comboIDs []int64
	for rows.Next() {
		var b dto.BetView
		if err := rows.Scan(&b.ID, &b.UserID, &b.BetType, &b.FixtureID, &b.Stake, &b.Odds,
			&b.Market, &b.Selection, &b.Status, &b.Payout, &b.CreatedAt); err != nil {
			return nil, err
		}
		if b.BetType == "combo" {
			comboIDs = append(comboIDs, b.ID)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(comboIDs) > 0 {
		legs, err := r.listLegs(ctx, comboIDs)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i].Legs = legs[out[i].ID]
		}
	}
	return out, nil
}

// GetBet retorna uma aposta pelo id, com as pernas se for combinada
func (r *ReadRepo) GetBet(ctx context.Context, betID int64) (*dto.BetView, error) {
	const q = `
		SELECT id, user_id, bet_type, fixture_id, stake, COALESCE(odds,1),
		       COALESCE(market,''), COALESCE(selection,''), status, COALESCE(payout,0),
		       to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SSZ')
		FROM bets
		WHERE id = $1;
	`
	var b dto.BetView
	err := r.DB.QueryRowContext(ctx, q, betID).Scan(&b.ID, &b.UserID, &b.BetType, &b.FixtureID,
		&b.Stake, &b.Odds, &b.Market, &b.Selection, &b.Status, &b.Payout, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if b.BetType == "combo" {
		legs, err := r.listLegs(ctx, []int64{b.ID})
		if err != nil {
			return nil, err
		}
		b.Legs = legs[b.ID]
	}
	return &b, nil
}

func (r *ReadRepo) listLegs(ctx context.Context, betIDs []int64) (map[int64][]dto.SelectionView, error) {
	const q = `
		SELECT id, bet_id, fixture_id, market, selection, odds, status
		FROM bet_selections
		WHERE bet_id = ANY($1)
		ORDER BY bet_id, id;
	`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(betIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]dto.SelectionView)
	for rows.Next() {
		var betID int64
		var s dto.SelectionView
		if err := rows.Scan(&s.ID, &betID, &s.FixtureID, &s.Market, &s.Selection, &s.Odds, &s.Status); err != nil {
			return nil, err
		}
		out[betID] = append(out[betID], s)
	}
	return out, rows.Err()
}
