package payments

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/payproc/internal/repos/payments"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *paymentsRepo) InsertCompleted(tx *sql.Tx, externalID string, playerID uint64, total string, currency int64) error {
	_, err := tx.Exec(`
		INSERT INTO payments (payment, player, state, total, currency, cryptocurrency)
		VALUES ($1, $2, 'COMPLETED', $3, $4, TRUE)
	`, externalID, playerID, total, currency)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return payments.ErrDuplicatePayment
			}
		}

		return fmt.Errorf("insert completed payment: %w", err)
	}

	return nil
}
