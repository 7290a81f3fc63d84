package points

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa o ledger de pontos das ligas.
// A liquidação só credita (a stake foi debitada na hora da aposta);
// o crédito é sempre incremento atômico, nunca sobrescrita de saldo
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var ErrProfileNotFound = errors.New("profile not found")

// Credit incrementa os pontos do usuário e registra a operação no ledger.
// Usa transação para manter saldo e ledger consistentes
func (p *Postgres) Credit(ctx context.Context, userID string, amount float64, description string) (newBalance float64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET total_points = total_points + $1 WHERE id = $2`,
		amount, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrProfileNotFound
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO points_ledger(id, user_id, amount, description) VALUES($1,$2,$3,$4)`,
		uuid.NewString(), userID, amount, description); err != nil {
		return 0, err
	}

	if err = tx.QueryRowContext(ctx,
		`SELECT total_points FROM profiles WHERE id = $1`, userID).Scan(&newBalance); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}
