package players

import (
	"database/sql"
	"errors"
)

var ErrPlayerNotFound = errors.New("player not found")

// ErrNoLinkedPlayer means a payment row has no (or no single) owning player.
// With the FK in place this indicates corruption and aborts the transaction.
var ErrNoLinkedPlayer = errors.New("no player linked to payment")

// ErrCreditFailed means the balance update touched an unexpected number of
// rows. The surrounding transaction must roll back.
var ErrCreditFailed = errors.New("player credit not applied")

// Locked is a player row read under FOR UPDATE, via its payment.
type Locked struct {
	ID       uint64
	Username string
	Currency int64
}

type Players interface {
	// GetUsername resolves a player id, returning ErrPlayerNotFound when absent.
	GetUsername(tx *sql.Tx, playerID uint64) (string, error)

	// LockByPayment joins payment->player and locks the player row, so that
	// concurrent credits to the same player serialize on the row lock.
	LockByPayment(tx *sql.Tx, externalID string) (Locked, error)

	// Credit adds amount to the player's currency balance.
	Credit(tx *sql.Tx, playerID uint64, amount int64) error
}
