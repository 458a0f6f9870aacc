// services/ledger_service.go
package services

import (
	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
)

// LedgerService derives driver balances from the trip and payout
// collections. It owns no state of its own: every number it returns is
// recomputed from a snapshot taken at a single instant, so a concurrent
// completion or payout transition is either fully visible or not at all.
type LedgerService struct {
	store *repository.Store
}

// NewLedgerService creates a ledger service
func NewLedgerService(store *repository.Store) *LedgerService {
	return &LedgerService{store: store}
}

// AvailableBalance returns the driver's spendable balance
func (s *LedgerService) AvailableBalance(driver string) int64 {
	return s.store.DriverBalance(driver)
}

// DriverEarnings returns the driver's lifetime completed-trip total together
// with what is still available after payout reservations
func (s *LedgerService) DriverEarnings(driver string) models.DriverEarningsResponse {
	trips, payouts := s.store.Snapshot()
	return models.DriverEarningsResponse{
		TotalEarned:      models.DriverLifetimeEarnings(trips, driver),
		AvailableBalance: models.DriverBalance(trips, payouts, driver),
	}
}
