// repository/store.go
package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// Store holds the trip and payout collections behind a single mutex. Every
// mutating method is one critical section: all invariant checks and the full
// state delta happen under the lock, or nothing changes at all. Balance is
// always derived inside the same critical section as any write that depends
// on it, so two concurrent payout requests can never both pass the same
// balance check.
//
// Reads hand out deep copies taken under the lock, never live pointers.
type Store struct {
	mu           sync.Mutex
	trips        map[int64]*models.TripRequest
	payouts      map[int64]*models.PayoutRequest
	nextTripID   int64
	nextPayoutID int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		trips:        make(map[int64]*models.TripRequest),
		payouts:      make(map[int64]*models.PayoutRequest),
		nextTripID:   1,
		nextPayoutID: 1,
	}
}

// Seed loads previously persisted state. Intended for startup only, before
// the store is shared.
func (s *Store) Seed(trips []models.TripRequest, payouts []models.PayoutRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range trips {
		t := trips[i].Clone()
		s.trips[t.ID] = &t
		if t.ID >= s.nextTripID {
			s.nextTripID = t.ID + 1
		}
	}
	for i := range payouts {
		p := payouts[i].Clone()
		s.payouts[p.ID] = &p
		if p.ID >= s.nextPayoutID {
			s.nextPayoutID = p.ID + 1
		}
	}
}

// CreateTrip inserts a new open trip and returns it
func (s *Store) CreateTrip(passenger string, pickup, dropoff models.Location, fare int64) models.TripRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip := models.NewTripRequest(s.nextTripID, passenger, pickup, dropoff, fare)
	s.nextTripID++
	s.trips[trip.ID] = trip
	return trip.Clone()
}

// GetTrip returns a copy of the trip with the given id
func (s *Store) GetTrip(id int64) (models.TripRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[id]
	if !ok {
		return models.TripRequest{}, utils.NewNotFoundError(utils.ErrTripNotFound)
	}
	return trip.Clone(), nil
}

// OpenTrips returns all trips currently in the open state
func (s *Store) OpenTrips() []models.TripRequest {
	return s.listTrips(func(t *models.TripRequest) bool { return t.Status == models.TripOpen })
}

// TripsByPassenger returns all trips created by the given passenger
func (s *Store) TripsByPassenger(passenger string) []models.TripRequest {
	return s.listTrips(func(t *models.TripRequest) bool { return t.Passenger == passenger })
}

// TripsByDriver returns all trips assigned to the given driver
func (s *Store) TripsByDriver(driver string) []models.TripRequest {
	return s.listTrips(func(t *models.TripRequest) bool { return t.Driver != nil && *t.Driver == driver })
}

func (s *Store) listTrips(match func(*models.TripRequest) bool) []models.TripRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.TripRequest{}
	for _, t := range s.trips {
		if match(t) {
			result = append(result, t.Clone())
		}
	}
	return result
}

// AcceptTrip claims an open trip for a driver. When two drivers race on the
// same trip exactly one wins; the loser finds the trip no longer open and
// gets InvalidStateTransition, the same as if it had been taken earlier.
func (s *Store) AcceptTrip(id int64, driver string) (models.TripRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[id]
	if !ok {
		return models.TripRequest{}, utils.NewNotFoundError(utils.ErrTripNotFound)
	}
	if trip.Status != models.TripOpen {
		return models.TripRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("trip %d is %s, not open", id, trip.Status))
	}

	now := time.Now()
	s.recordChange(trip, models.TripAccepted, driver, false, now)
	trip.Driver = &driver
	trip.Status = models.TripAccepted
	trip.AcceptedAt = &now
	return trip.Clone(), nil
}

// CancelTrip cancels an open trip. The state check comes before the
// ownership check: cancelling an already claimed trip is always
// InvalidStateTransition no matter who asks.
func (s *Store) CancelTrip(id int64, caller string) (models.TripRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[id]
	if !ok {
		return models.TripRequest{}, utils.NewNotFoundError(utils.ErrTripNotFound)
	}
	if trip.Status != models.TripOpen {
		return models.TripRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("trip %d is %s and can no longer be cancelled", id, trip.Status))
	}
	if trip.Passenger != caller {
		return models.TripRequest{}, utils.NewUnauthorizedError(utils.ErrNotTripPassenger)
	}

	s.recordChange(trip, models.TripCancelled, caller, false, time.Now())
	trip.Status = models.TripCancelled
	return trip.Clone(), nil
}

// CompleteTrip finishes an accepted trip. This is the single event that makes
// the fare count toward the driver's balance.
func (s *Store) CompleteTrip(id int64, caller string) (models.TripRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[id]
	if !ok {
		return models.TripRequest{}, utils.NewNotFoundError(utils.ErrTripNotFound)
	}
	if trip.Status != models.TripAccepted {
		return models.TripRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("trip %d is %s, not accepted", id, trip.Status))
	}
	if trip.Driver == nil || *trip.Driver != caller {
		return models.TripRequest{}, utils.NewUnauthorizedError(utils.ErrNotAssignedDriver)
	}

	now := time.Now()
	s.recordChange(trip, models.TripCompleted, caller, false, now)
	trip.Status = models.TripCompleted
	trip.CompletedAt = &now
	return trip.Clone(), nil
}

// AdminSetTripStatus is the dispute-resolution escape hatch. It skips the
// role and ownership rules of the regular transitions but still refuses
// anything structurally impossible:
//
//   - a terminal trip cannot be reopened,
//   - completed requires an already assigned driver,
//   - accepted requires a driver too, so open trips cannot be forced there,
//   - un-completing a trip must not overdraw the driver's balance if payouts
//     already reserved those funds.
//
// The change is recorded in the trip history with AdminOverride set.
func (s *Store) AdminSetTripStatus(id int64, status models.TripStatus, actor string) (models.TripRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[id]
	if !ok {
		return models.TripRequest{}, utils.NewNotFoundError(utils.ErrTripNotFound)
	}
	if !status.IsValid() {
		return models.TripRequest{}, utils.NewValidationError(fmt.Sprintf("unknown trip status %q", status))
	}
	if status == trip.Status {
		return models.TripRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("trip %d is already %s", id, status))
	}
	if trip.Status.IsTerminal() && status == models.TripOpen {
		return models.TripRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("trip %d is %s and cannot be reopened", id, trip.Status))
	}
	if (status == models.TripCompleted || status == models.TripAccepted) && trip.Driver == nil {
		return models.TripRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("trip %d has no assigned driver", id))
	}
	if trip.Status == models.TripCompleted && trip.Driver != nil {
		// Taking the fare back out of the ledger must not leave the driver
		// owing money they already reserved for payouts.
		if s.driverBalanceLocked(*trip.Driver)-trip.Fare < 0 {
			return models.TripRequest{}, utils.NewInvalidStateTransitionError(
				fmt.Sprintf("reverting trip %d would overdraw the driver's balance", id))
		}
	}

	now := time.Now()
	s.recordChange(trip, status, actor, true, now)
	trip.Status = status
	switch status {
	case models.TripOpen:
		trip.Driver = nil
		trip.AcceptedAt = nil
		trip.CompletedAt = nil
	case models.TripAccepted:
		trip.CompletedAt = nil
		if trip.AcceptedAt == nil {
			trip.AcceptedAt = &now
		}
	case models.TripCompleted:
		trip.CompletedAt = &now
	case models.TripCancelled:
		trip.Driver = nil
		trip.CompletedAt = nil
	}
	return trip.Clone(), nil
}

func (s *Store) recordChange(trip *models.TripRequest, to models.TripStatus, actor string, admin bool, at time.Time) {
	trip.StatusHistory = append(trip.StatusHistory, models.StatusChange{
		From:          trip.Status,
		To:            to,
		Actor:         actor,
		AdminOverride: admin,
		ChangedAt:     at,
	})
}

// CreatePayout checks the driver's balance and reserves the amount as one
// indivisible step. A second concurrent request cannot pass the balance check
// against funds already claimed by the first.
func (s *Store) CreatePayout(driver string, amount int64) (models.PayoutRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if available := s.driverBalanceLocked(driver); amount > available {
		return models.PayoutRequest{}, utils.NewInsufficientBalanceError(
			fmt.Sprintf("requested %d but only %d is available", amount, available))
	}

	payout := models.NewPayoutRequest(s.nextPayoutID, driver, amount)
	s.nextPayoutID++
	s.payouts[payout.ID] = payout
	return payout.Clone(), nil
}

// GetPayout returns a copy of the payout with the given id
func (s *Store) GetPayout(id int64) (models.PayoutRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payout, ok := s.payouts[id]
	if !ok {
		return models.PayoutRequest{}, utils.NewNotFoundError(utils.ErrPayoutNotFound)
	}
	return payout.Clone(), nil
}

// PayoutsByDriver returns all payout requests made by the given driver
func (s *Store) PayoutsByDriver(driver string) []models.PayoutRequest {
	return s.listPayouts(func(p *models.PayoutRequest) bool { return p.Driver == driver })
}

// AllPayouts returns every payout request
func (s *Store) AllPayouts() []models.PayoutRequest {
	return s.listPayouts(func(*models.PayoutRequest) bool { return true })
}

// PendingPayouts returns every payout still awaiting an admin decision
func (s *Store) PendingPayouts() []models.PayoutRequest {
	return s.listPayouts(func(p *models.PayoutRequest) bool { return p.Status == models.PayoutRequested })
}

func (s *Store) listPayouts(match func(*models.PayoutRequest) bool) []models.PayoutRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.PayoutRequest{}
	for _, p := range s.payouts {
		if match(p) {
			result = append(result, p.Clone())
		}
	}
	return result
}

// SetPayoutStatus applies an admin settlement decision. Legal transitions:
// requested->approved, requested->rejected, approved->paid. Paid records the
// processed timestamp; rejected releases the reserved funds by virtue of no
// longer counting against the balance.
func (s *Store) SetPayoutStatus(id int64, status models.PayoutStatus) (models.PayoutRequest, *utils.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payout, ok := s.payouts[id]
	if !ok {
		return models.PayoutRequest{}, utils.NewNotFoundError(utils.ErrPayoutNotFound)
	}
	if !status.IsValid() {
		return models.PayoutRequest{}, utils.NewValidationError(fmt.Sprintf("unknown payout status %q", status))
	}
	if !legalPayoutTransition(payout.Status, status) {
		return models.PayoutRequest{}, utils.NewInvalidStateTransitionError(
			fmt.Sprintf("payout %d cannot go from %s to %s", id, payout.Status, status))
	}

	payout.Status = status
	if status == models.PayoutPaid {
		now := time.Now()
		payout.ProcessedAt = &now
	}
	return payout.Clone(), nil
}

func legalPayoutTransition(from, to models.PayoutStatus) bool {
	switch from {
	case models.PayoutRequested:
		return to == models.PayoutApproved || to == models.PayoutRejected
	case models.PayoutApproved:
		return to == models.PayoutPaid
	}
	return false
}

// DriverBalance derives the driver's available balance at a single instant
func (s *Store) DriverBalance(driver string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driverBalanceLocked(driver)
}

func (s *Store) driverBalanceLocked(driver string) int64 {
	trips, payouts := s.snapshotLocked()
	return models.DriverBalance(trips, payouts, driver)
}

// Snapshot returns copies of both collections taken at one instant, for
// reads that must not observe a half-applied transition
func (s *Store) Snapshot() ([]models.TripRequest, []models.PayoutRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() ([]models.TripRequest, []models.PayoutRequest) {
	trips := make([]models.TripRequest, 0, len(s.trips))
	for _, t := range s.trips {
		trips = append(trips, t.Clone())
	}
	payouts := make([]models.PayoutRequest, 0, len(s.payouts))
	for _, p := range s.payouts {
		payouts = append(payouts, p.Clone())
	}
	return trips, payouts
}
