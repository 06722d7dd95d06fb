package payments

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/payproc/internal/repos/payments"
)

func (r *paymentsRepo) CompletePending(tx *sql.Tx, externalID string, total string, currency int64) error {
	res, err := tx.Exec(`
		UPDATE payments
		SET state = 'COMPLETED', total = $2, currency = $3
		WHERE payment = $1
		  AND state = 'CREATED'
	`, externalID, total, currency)
	if err != nil {
		return fmt.Errorf("complete pending payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected != 1 {
		return payments.ErrPaymentNotFound
	}

	return nil
}
