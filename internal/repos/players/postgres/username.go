package players

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/payproc/internal/repos/players"
)

func (r *playersRepo) GetUsername(tx *sql.Tx, playerID uint64) (string, error) {
	var username string

	err := tx.QueryRow(`
		SELECT username
		FROM players
		WHERE id = $1
	`, playerID).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", players.ErrPlayerNotFound
		}

		return "", fmt.Errorf("get username: %w", err)
	}

	return username, nil
}
