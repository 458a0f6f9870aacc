// services/payout_service.go
package services

import (
	"github.com/sirupsen/logrus"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// PayoutService runs the payout settlement state machine. The balance check
// and the reservation happen inside one store critical section; this layer
// adds role checks, scoping and write-through.
type PayoutService struct {
	store *repository.Store
	auth  *AuthService
	repo  *repository.PayoutRepository
	log   *logrus.Logger
}

// NewPayoutService creates a payout service. repo may be nil when running
// without a database.
func NewPayoutService(store *repository.Store, auth *AuthService, repo *repository.PayoutRepository, log *logrus.Logger) *PayoutService {
	return &PayoutService{
		store: store,
		auth:  auth,
		repo:  repo,
		log:   log,
	}
}

// RequestPayout reserves part of the calling driver's available balance
func (s *PayoutService) RequestPayout(caller string, amount int64) (models.PayoutRequest, *utils.AppError) {
	if err := s.auth.RequireAccountType(caller, models.AccountDriver, utils.ErrDriverOnly); err != nil {
		return models.PayoutRequest{}, err
	}
	if err := utils.ValidatePositiveAmount(amount, "amount"); err != nil {
		return models.PayoutRequest{}, err
	}

	payout, err := s.store.CreatePayout(caller, amount)
	if err != nil {
		return models.PayoutRequest{}, err
	}
	s.persist(payout)

	s.log.WithFields(logrus.Fields{
		"payout_id": payout.ID,
		"driver":    caller,
		"amount":    amount,
	}).Info("payout requested")
	return payout, nil
}

// PayoutHistory returns the caller's own requests. Admins see everyone's,
// optionally narrowed to one driver.
func (s *PayoutService) PayoutHistory(caller, driverFilter string) []models.PayoutRequest {
	if s.auth.IsAdmin(caller) {
		if driverFilter != "" {
			return s.store.PayoutsByDriver(driverFilter)
		}
		return s.store.AllPayouts()
	}
	return s.store.PayoutsByDriver(caller)
}

// PendingPayouts returns every request awaiting a decision. Admin only.
func (s *PayoutService) PendingPayouts(caller string) ([]models.PayoutRequest, *utils.AppError) {
	if err := s.auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.PendingPayouts(), nil
}

// UpdatePayoutStatus applies an admin settlement decision
func (s *PayoutService) UpdatePayoutStatus(id int64, caller string, status models.PayoutStatus) (models.PayoutRequest, *utils.AppError) {
	if err := s.auth.RequireAdmin(caller); err != nil {
		return models.PayoutRequest{}, err
	}

	payout, err := s.store.SetPayoutStatus(id, status)
	if err != nil {
		return models.PayoutRequest{}, err
	}
	s.persist(payout)

	s.log.WithFields(logrus.Fields{
		"payout_id": id,
		"actor":     caller,
		"status":    status,
	}).Info("payout status updated")
	return payout, nil
}

func (s *PayoutService) persist(payout models.PayoutRequest) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SavePayout(&payout); err != nil {
		s.log.WithError(err).WithField("payout_id", payout.ID).Error("failed to persist payout")
	}
}
