package players

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/payproc/internal/repos/players"
)

func (r *playersRepo) LockByPayment(tx *sql.Tx, externalID string) (players.Locked, error) {
	var locked players.Locked

	err := tx.QueryRow(`
		SELECT players.id, players.username, players.currency
		FROM payments
		INNER JOIN players ON payments.player = players.id
		WHERE payments.payment = $1
		FOR UPDATE OF players
	`, externalID).Scan(&locked.ID, &locked.Username, &locked.Currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return players.Locked{}, players.ErrNoLinkedPlayer
		}

		return players.Locked{}, fmt.Errorf("lock player by payment: %w", err)
	}

	return locked, nil
}
