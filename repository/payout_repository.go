// repository/payout_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/fadhlanhapp/ridefare-backend/models"
)

// PayoutRepository handles database operations for payout requests
type PayoutRepository struct {
	DB *sql.DB
}

// NewPayoutRepository creates a new PayoutRepository
func NewPayoutRepository() *PayoutRepository {
	return &PayoutRepository{
		DB: GetDB(),
	}
}

// SavePayout upserts a payout row
func (r *PayoutRepository) SavePayout(payout *models.PayoutRequest) error {
	_, err := r.DB.Exec(
		`INSERT INTO payouts (id, driver, amount, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			processed_at = EXCLUDED.processed_at`,
		payout.ID, payout.Driver, payout.Amount, payout.Status, payout.CreatedAt, payout.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payout: %v", err)
	}
	return nil
}

// LoadPayouts reads every payout row, for seeding the store at startup
func (r *PayoutRepository) LoadPayouts() ([]models.PayoutRequest, error) {
	rows, err := r.DB.Query(
		`SELECT id, driver, amount, status, created_at, processed_at FROM payouts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load payouts: %v", err)
	}
	defer rows.Close()

	var payouts []models.PayoutRequest
	for rows.Next() {
		var payout models.PayoutRequest
		var processedAt sql.NullTime

		err := rows.Scan(&payout.ID, &payout.Driver, &payout.Amount, &payout.Status, &payout.CreatedAt, &processedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %v", err)
		}
		if processedAt.Valid {
			payout.ProcessedAt = &processedAt.Time
		}

		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}
