package players

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/payproc/internal/infra/pgtestutil"
	"github.com/fastprodman/payproc/internal/repos/players"
)

func TestPlayers_GetUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seed     func(t *testing.T, db *sql.DB)
		playerID uint64
		want     string
		wantErr  error
	}{
		{
			name: "player_exists",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedPlayer(t, db, 42, "carol", 100)
			},
			playerID: 42,
			want:     "carol",
			wantErr:  nil,
		},
		{
			name:     "player_missing",
			seed:     func(t *testing.T, db *sql.DB) {},
			playerID: 999,
			wantErr:  players.ErrPlayerNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(t, db)
			}

			repo := New(db)

			tx, err := db.BeginTx(context.Background(), nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer tx.Rollback()

			got, err := repo.GetUsername(tx, tt.playerID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Fatalf("username: want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPlayers_LockByPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		seed       func(t *testing.T, db *sql.DB)
		externalID string
		want       players.Locked
		wantErr    error
	}{
		{
			name: "payment_linked_to_player",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedPlayer(t, db, 7, "dave", 400)
				_, err := db.Exec(`
					INSERT INTO payments (payment, player, state, cryptocurrency)
					VALUES ('PAY-7', 7, 'CREATED', FALSE)
				`)
				if err != nil {
					t.Fatalf("seed payment: %v", err)
				}
			},
			externalID: "PAY-7",
			want:       players.Locked{ID: 7, Username: "dave", Currency: 400},
			wantErr:    nil,
		},
		{
			name:       "payment_unknown",
			seed:       func(t *testing.T, db *sql.DB) {},
			externalID: "PAY-NONE",
			wantErr:    players.ErrNoLinkedPlayer,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(t, db)
			}

			repo := New(db)

			tx, err := db.BeginTx(context.Background(), nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer tx.Rollback()

			got, err := repo.LockByPayment(tx, tt.externalID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Fatalf("locked row: want %+v, got %+v", tt.want, got)
			}
		})
	}
}

// Two transactions locking the same player through different payments must
// serialize: the second FOR UPDATE blocks until the first commits.
func TestPlayers_LockByPayment_SerializesOnPlayerRow(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedPlayer(t, db, 1, "alice", 0)
	for _, p := range []string{"PAY-A", "PAY-B"} {
		_, err := db.Exec(`
			INSERT INTO payments (payment, player, state, cryptocurrency)
			VALUES ($1, 1, 'CREATED', FALSE)
		`, p)
		if err != nil {
			t.Fatalf("seed payment %s: %v", p, err)
		}
	}

	repo := New(db)

	tx1, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx1: %v", err)
	}
	defer func() { _ = tx1.Rollback() }()

	locked, err := repo.LockByPayment(tx1, "PAY-A")
	if err != nil {
		t.Fatalf("tx1 lock: %v", err)
	}
	if err := repo.Credit(tx1, locked.ID, 100); err != nil {
		t.Fatalf("tx1 credit: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tx2, err := db.BeginTx(ctx, nil)
		if err != nil {
			done <- err
			return
		}
		defer func() { _ = tx2.Rollback() }()

		// Blocks on the row lock held by tx1.
		l2, err := repo.LockByPayment(tx2, "PAY-B")
		if err != nil {
			done <- err
			return
		}
		if l2.Currency != 100 {
			done <- errors.New("tx2 observed pre-credit balance")
			return
		}
		if err := repo.Credit(tx2, l2.ID, 100); err != nil {
			done <- err
			return
		}
		done <- tx2.Commit()
	}()

	// Let tx2 reach the lock before releasing it.
	time.Sleep(200 * time.Millisecond)

	if err := tx1.Commit(); err != nil {
		t.Fatalf("commit tx1: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("tx2: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for tx2")
	}

	var balance int64
	if err := db.QueryRow(`SELECT currency FROM players WHERE id = 1`).Scan(&balance); err != nil {
		t.Fatalf("read balance: %v", err)
	}
	if balance != 200 {
		t.Fatalf("final balance: want 200, got %d", balance)
	}
}

func TestPlayers_Credit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seed        func(t *testing.T, db *sql.DB)
		playerID    uint64
		amount      int64
		wantBalance int64
		wantErr     error
	}{
		{
			name: "credit_from_zero",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedPlayer(t, db, 50, "alice", 0)
			},
			playerID:    50,
			amount:      1500,
			wantBalance: 1500,
			wantErr:     nil,
		},
		{
			name: "credit_accumulates",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedPlayer(t, db, 51, "bob", 250)
			},
			playerID:    51,
			amount:      6000,
			wantBalance: 6250,
			wantErr:     nil,
		},
		{
			name:     "missing_player_rejected",
			seed:     func(t *testing.T, db *sql.DB) {},
			playerID: 999,
			amount:   100,
			wantErr:  players.ErrCreditFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(t, db)
			}

			repo := New(db)

			tx, err := db.BeginTx(context.Background(), nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer tx.Rollback()

			err = repo.Credit(tx, tt.playerID, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if err := tx.Commit(); err != nil {
				t.Fatalf("commit: %v", err)
			}

			var got int64
			if err := db.QueryRow(`SELECT currency FROM players WHERE id = $1`, tt.playerID).Scan(&got); err != nil {
				t.Fatalf("read balance: %v", err)
			}
			if got != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got)
			}
		})
	}
}
