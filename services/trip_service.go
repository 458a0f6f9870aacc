// services/trip_service.go
package services

import (
	"github.com/sirupsen/logrus"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// TripService runs the trip state machine: role checks up front, then a
// single atomic transition in the store, then best-effort write-through.
type TripService struct {
	store *repository.Store
	auth  *AuthService
	repo  *repository.TripRepository
	log   *logrus.Logger
}

// NewTripService creates a trip service. repo may be nil when running
// without a database.
func NewTripService(store *repository.Store, auth *AuthService, repo *repository.TripRepository, log *logrus.Logger) *TripService {
	return &TripService{
		store: store,
		auth:  auth,
		repo:  repo,
		log:   log,
	}
}

// CreateTrip opens a new trip request for a registered passenger
func (s *TripService) CreateTrip(caller string, pickup, dropoff models.Location, fare int64) (models.TripRequest, *utils.AppError) {
	if err := s.auth.RequireAccountType(caller, models.AccountPassenger, utils.ErrPassengerOnly); err != nil {
		return models.TripRequest{}, err
	}
	if err := utils.ValidateNonNegativeAmount(fare, "fare"); err != nil {
		return models.TripRequest{}, err
	}
	if err := utils.ValidateRequired(pickup.Description, "pickup description"); err != nil {
		return models.TripRequest{}, err
	}
	if err := utils.ValidateRequired(dropoff.Description, "dropoff description"); err != nil {
		return models.TripRequest{}, err
	}

	trip := s.store.CreateTrip(caller, pickup, dropoff, fare)
	s.persist(trip)

	s.log.WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"passenger": caller,
		"fare":      fare,
	}).Info("trip created")
	return trip, nil
}

// OpenTrips returns every trip still open for acceptance
func (s *TripService) OpenTrips() []models.TripRequest {
	return s.store.OpenTrips()
}

// GetTrip returns a single trip by id
func (s *TripService) GetTrip(id int64) (models.TripRequest, *utils.AppError) {
	return s.store.GetTrip(id)
}

// DriverTrips returns all trips assigned to the given driver
func (s *TripService) DriverTrips(driver string) []models.TripRequest {
	return s.store.TripsByDriver(driver)
}

// PassengerTrips returns all trips created by the given passenger
func (s *TripService) PassengerTrips(passenger string) []models.TripRequest {
	return s.store.TripsByPassenger(passenger)
}

// AcceptTrip claims an open trip for the calling driver. Losing a race for
// the trip surfaces as InvalidStateTransition, exactly as if it had been
// taken moments earlier.
func (s *TripService) AcceptTrip(id int64, caller string) (models.TripRequest, *utils.AppError) {
	if err := s.auth.RequireAccountType(caller, models.AccountDriver, utils.ErrDriverOnly); err != nil {
		return models.TripRequest{}, err
	}

	trip, err := s.store.AcceptTrip(id, caller)
	if err != nil {
		return models.TripRequest{}, err
	}
	s.persist(trip)

	s.log.WithFields(logrus.Fields{
		"trip_id": id,
		"driver":  caller,
	}).Info("trip accepted")
	return trip, nil
}

// CancelTrip lets the passenger withdraw a trip nobody has claimed yet
func (s *TripService) CancelTrip(id int64, caller string) (models.TripRequest, *utils.AppError) {
	trip, err := s.store.CancelTrip(id, caller)
	if err != nil {
		return models.TripRequest{}, err
	}
	s.persist(trip)

	s.log.WithFields(logrus.Fields{
		"trip_id":   id,
		"passenger": caller,
	}).Info("trip cancelled")
	return trip, nil
}

// CompleteTrip finishes the trip and credits the fare to the driver's ledger
func (s *TripService) CompleteTrip(id int64, caller string) (models.TripRequest, *utils.AppError) {
	trip, err := s.store.CompleteTrip(id, caller)
	if err != nil {
		return models.TripRequest{}, err
	}
	s.persist(trip)

	s.log.WithFields(logrus.Fields{
		"trip_id": id,
		"driver":  caller,
		"fare":    trip.Fare,
	}).Info("trip completed")
	return trip, nil
}

// AdminUpdateTripStatus is the admin-only dispute-resolution path
func (s *TripService) AdminUpdateTripStatus(id int64, caller string, status models.TripStatus) (models.TripRequest, *utils.AppError) {
	if err := s.auth.RequireAdmin(caller); err != nil {
		return models.TripRequest{}, err
	}

	trip, err := s.store.AdminSetTripStatus(id, status, caller)
	if err != nil {
		return models.TripRequest{}, err
	}
	s.persist(trip)

	s.log.WithFields(logrus.Fields{
		"trip_id":        id,
		"actor":          caller,
		"status":         status,
		"admin_override": true,
	}).Warn("trip status overridden by admin")
	return trip, nil
}

func (s *TripService) persist(trip models.TripRequest) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveTrip(&trip); err != nil {
		s.log.WithError(err).WithField("trip_id", trip.ID).Error("failed to persist trip")
	}
}
