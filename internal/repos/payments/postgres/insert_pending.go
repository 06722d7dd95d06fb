package payments

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/payproc/internal/repos/payments"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *paymentsRepo) InsertPending(tx *sql.Tx, externalID string, playerID uint64) error {
	_, err := tx.Exec(`
		INSERT INTO payments (payment, player, state, cryptocurrency)
		VALUES ($1, $2, 'CREATED', FALSE)
	`, externalID, playerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return payments.ErrDuplicatePayment
			}
		}

		return fmt.Errorf("insert pending payment: %w", err)
	}

	return nil
}
