package payments

import (
	"database/sql"
	"errors"
)

// ErrPaymentNotFound means no CREATED payment row matched the external id:
// either it was never created, the id is wrong, or it has already been
// completed. Callers cannot tell these apart and must not retry with a credit.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrDuplicatePayment means the external payment id already exists. The unique
// constraint on the id is what makes redelivered provider events harmless.
var ErrDuplicatePayment = errors.New("duplicate payment")

type Payments interface {
	// InsertPending records a payment intent in state CREATED, amounts unset.
	InsertPending(tx *sql.Tx, externalID string, playerID uint64) error

	// CompletePending transitions the single CREATED row for externalID to
	// COMPLETED, setting total and credited currency in the same statement.
	CompletePending(tx *sql.Tx, externalID string, total string, currency int64) error

	// InsertCompleted records a payment directly in state COMPLETED, for the
	// provider that never announces intent beforehand.
	InsertCompleted(tx *sql.Tx, externalID string, playerID uint64, total string, currency int64) error
}
