package players

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/payproc/internal/repos/players"
)

func (r *playersRepo) Credit(tx *sql.Tx, playerID uint64, amount int64) error {
	res, err := tx.Exec(`
		UPDATE players
		SET currency = currency + $2
		WHERE id = $1
	`, playerID, amount)
	if err != nil {
		return fmt.Errorf("credit player: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected != 1 {
		return players.ErrCreditFailed
	}

	return nil
}
