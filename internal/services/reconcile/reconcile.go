// Package reconcile contains the payment lifecycle engine: verified provider
// events go in, atomic ledger mutations (payment row + player balance) come
// out. Every operation is one database transaction; a failure at any step
// rolls the whole unit back.
package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fastprodman/payproc/internal/infra/pgutils"
	"github.com/fastprodman/payproc/internal/pricing"
	"github.com/fastprodman/payproc/internal/repos/payments"
	pgpayments "github.com/fastprodman/payproc/internal/repos/payments/postgres"
	"github.com/fastprodman/payproc/internal/repos/players"
	pgplayers "github.com/fastprodman/payproc/internal/repos/players/postgres"
)

type Service struct {
	db       *sql.DB
	players  players.Players
	payments payments.Payments
}

func New(dbx *sql.DB) *Service {
	return &Service{
		db:       dbx,
		players:  pgplayers.New(dbx),
		payments: pgpayments.New(dbx),
	}
}

// CreatePending records a payment intent announced by the client before any
// funds move (fiat flow only).
//
// An unknown player id is deliberately a no-op: the original policy is to
// ignore create-intents for accounts we do not know. It is logged at WARN so
// the anomaly stays visible.
func (s *Service) CreatePending(ctx context.Context, externalID string, playerID uint64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		username, err := s.players.GetUsername(tx, playerID)
		if err != nil {
			if errors.Is(err, players.ErrPlayerNotFound) {
				slog.WarnContext(ctx, "create-intent for unknown player ignored",
					"payment", externalID, "player", playerID)
				return nil
			}

			return fmt.Errorf("look up player: %w", err)
		}

		err = s.payments.InsertPending(tx, externalID, playerID)
		if err != nil {
			return fmt.Errorf("insert pending payment: %w", err)
		}

		slog.InfoContext(ctx, "payment created",
			"payment", externalID, "player", playerID, "username", username)

		return nil
	})
	if err != nil {
		return fmt.Errorf("create pending: %w", err)
	}

	return nil
}

// CompleteFromPending transitions a previously announced payment to COMPLETED
// and credits the owning player, all in one transaction. Returns the player's
// username for logging.
//
// A redelivered completion finds no CREATED row and surfaces
// payments.ErrPaymentNotFound; it never credits twice.
func (s *Service) CompleteFromPending(ctx context.Context, externalID string, quotedTotal string) (string, error) {
	quantity, err := pricing.QuantityFor(pricing.ProviderPayPal, quotedTotal)
	if err != nil {
		return "", fmt.Errorf("resolve price %q: %w", quotedTotal, err)
	}

	var username string

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.payments.CompletePending(tx, externalID, quotedTotal, quantity)
		if err != nil {
			return fmt.Errorf("complete payment: %w", err)
		}

		username, err = s.credit(tx, externalID, quantity)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("complete from pending: %w", err)
	}

	slog.InfoContext(ctx, "payment completed",
		"payment", externalID, "username", username,
		"total", quotedTotal, "currency", quantity, "provider", "paypal")

	return username, nil
}

// CreateAndComplete handles the crypto rail, where the provider never
// announces intent: the payment row is inserted directly in COMPLETED state
// and the player credited, in one transaction. A redelivery collides on the
// unique external id before anything is credited.
func (s *Service) CreateAndComplete(ctx context.Context, externalID string, playerID uint64, quotedAmount string) (string, error) {
	quantity, err := pricing.QuantityFor(pricing.ProviderCoinbase, quotedAmount)
	if err != nil {
		return "", fmt.Errorf("resolve price %q: %w", quotedAmount, err)
	}

	var username string

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.payments.InsertCompleted(tx, externalID, playerID, quotedAmount, quantity)
		if err != nil {
			return fmt.Errorf("insert completed payment: %w", err)
		}

		username, err = s.credit(tx, externalID, quantity)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create and complete: %w", err)
	}

	slog.InfoContext(ctx, "payment completed",
		"payment", externalID, "username", username,
		"total", quotedAmount, "currency", quantity, "provider", "coinbase")

	return username, nil
}

// credit locks the owning player through the payment row and applies the
// balance increase. Safe only inside the same transaction as the payment
// state change: the row lock keeps concurrent credits to one player from
// reading the same pre-update balance.
func (s *Service) credit(tx *sql.Tx, externalID string, quantity int64) (string, error) {
	locked, err := s.players.LockByPayment(tx, externalID)
	if err != nil {
		return "", fmt.Errorf("lock player for payment: %w", err)
	}

	err = s.players.Credit(tx, locked.ID, quantity)
	if err != nil {
		return "", fmt.Errorf("credit player %d: %w", locked.ID, err)
	}

	return locked.Username, nil
}
