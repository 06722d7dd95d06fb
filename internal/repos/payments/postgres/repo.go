package payments

import (
	"database/sql"

	"github.com/fastprodman/payproc/internal/repos/payments"
)

var _ payments.Payments = (*paymentsRepo)(nil)

type paymentsRepo struct{ db *sql.DB }

func New(db *sql.DB) *paymentsRepo {
	return &paymentsRepo{db: db}
}
