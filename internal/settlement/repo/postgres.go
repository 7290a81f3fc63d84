package repo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/engine"
)

// Postgres implementa o armazém de apostas usado pela liquidação.
// Toda mutação é condicionada a status='pending': re-executar a liquidação
// sobre uma aposta já liquidada é no-op (efetivamente-uma-vez por aposta)
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// PendingFixtureIDs retorna as fixtures distintas com apostas ou pernas
// pendentes; é o universo de partidas que a passada precisa resolver
func (p *Postgres) PendingFixtureIDs(ctx context.Context) ([]int64, error) {
	const q = `
		SELECT fixture_id FROM bets
		WHERE status = 'pending' AND bet_type = 'single' AND fixture_id IS NOT NULL
		UNION
		SELECT s.fixture_id FROM bet_selections s
		JOIN bets b ON b.id = s.bet_id
		WHERE s.status = 'pending' AND b.status = 'pending'
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// PendingSingles carrega as apostas simples pendentes das fixtures dadas
func (p *Postgres) PendingSingles(ctx context.Context, fixtureIDs []int64) ([]engine.Single, error) {
	const q = `
		SELECT id, user_id, fixture_id, stake, odds, market, selection
		FROM bets
		WHERE status = 'pending' AND bet_type = 'single' AND fixture_id = ANY($1)
		ORDER BY id
	`
	rows, err := p.db.QueryContext(ctx, q, pq.Array(fixtureIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Single
	for rows.Next() {
		s := engine.Single{Status: engine.StatusPending}
		if err := rows.Scan(&s.ID, &s.UserID, &s.FixtureID, &s.Stake, &s.Odds, &s.Market, &s.Selection); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PendingCombos carrega as combinadas pendentes com pelo menos uma perna
// pendente nas fixtures dadas, com o conjunto COMPLETO de pernas: o status
// da combinada é recomputado a partir de todas elas, não só das afetadas
func (p *Postgres) PendingCombos(ctx context.Context, fixtureIDs []int64) ([]engine.Combo, error) {
	const qCombos = `
		SELECT DISTINCT b.id, b.user_id, b.stake
		FROM bets b
		JOIN bet_selections s ON s.bet_id = b.id
		WHERE b.bet_type = 'combo' AND b.status = 'pending'
		  AND s.status = 'pending' AND s.fixture_id = ANY($1)
		ORDER BY b.id
	`
	rows, err := p.db.QueryContext(ctx, qCombos, pq.Array(fixtureIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var combos []engine.Combo
	var comboIDs []int64
	for rows.Next() {
		c := engine.Combo{Status: engine.StatusPending}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Stake); err != nil {
			return nil, err
		}
		combos = append(combos, c)
		comboIDs = append(comboIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(combos) == 0 {
		return nil, nil
	}

	const qLegs = `
		SELECT id, bet_id, fixture_id, market, selection, odds, status
		FROM bet_selections
		WHERE bet_id = ANY($1)
		ORDER BY bet_id, id
	`
	legRows, err := p.db.QueryContext(ctx, qLegs, pq.Array(comboIDs))
	if err != nil {
		return nil, err
	}
	defer legRows.Close()

	byCombo := make(map[int64]*engine.Combo, len(combos))
	for i := range combos {
		byCombo[combos[i].ID] = &combos[i]
	}

	for legRows.Next() {
		var leg engine.Leg
		var status string
		if err := legRows.Scan(&leg.ID, &leg.BetID, &leg.FixtureID, &leg.Market, &leg.Selection, &leg.Odds, &status); err != nil {
			return nil, err
		}
		leg.Status = engine.Status(status)
		if c, ok := byCombo[leg.BetID]; ok {
			c.Legs = append(c.Legs, leg)
		}
	}
	return combos, legRows.Err()
}

// SettleSingle grava status e payout de uma aposta simples.
// Retorna false quando a linha já não estava pendente (corrida entre
// execuções: a condição no status é o guarda de idempotência)
func (p *Postgres) SettleSingle(ctx context.Context, id int64, status engine.Status, payout float64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status=$1, payout=$2, updated_at=NOW()
		WHERE id=$3 AND status='pending'`, string(status), payout, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SettleSelection grava o status de uma perna de combinada
func (p *Postgres) SettleSelection(ctx context.Context, id int64, status engine.Status) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bet_selections SET status=$1, updated_at=NOW()
		WHERE id=$2 AND status='pending'`, string(status), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SettleCombo grava status e payout de uma combinada
func (p *Postgres) SettleCombo(ctx context.Context, id int64, status engine.Status, payout float64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status=$1, payout=$2, updated_at=NOW()
		WHERE id=$3 AND bet_type='combo' AND status='pending'`, string(status), payout, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
