package services

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// engine wires the services against a fresh in-memory store, the way main
// does but without a database
type engine struct {
	store    *repository.Store
	profiles *ProfileService
	auth     *AuthService
	trips    *TripService
	ledger   *LedgerService
	payouts  *PayoutService
}

func newEngine(admins ...string) *engine {
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repository.NewStore()
	profiles := NewProfileService(nil, log)
	auth := NewAuthService(profiles, nil, admins, log)

	return &engine{
		store:    store,
		profiles: profiles,
		auth:     auth,
		trips:    NewTripService(store, auth, nil, log),
		ledger:   NewLedgerService(store),
		payouts:  NewPayoutService(store, auth, nil, log),
	}
}

func (e *engine) registerPassenger(t *testing.T, principal string) string {
	t.Helper()
	_, err := e.profiles.Register(principal, models.AccountPassenger, "Passenger "+principal, "+620001")
	assert.Nil(t, err)
	return principal
}

func (e *engine) registerDriver(t *testing.T, principal string) string {
	t.Helper()
	_, err := e.profiles.Register(principal, models.AccountDriver, "Driver "+principal, "+620002")
	assert.Nil(t, err)
	return principal
}

func (e *engine) openTrip(t *testing.T, passenger string, fare int64) int64 {
	t.Helper()
	trip, err := e.trips.CreateTrip(passenger, models.Location{Description: "Station"}, models.Location{Description: "Airport"}, fare)
	assert.Nil(t, err)
	return trip.ID
}

func TestCreateTrip_RequiresRegisteredPassenger(t *testing.T) {
	e := newEngine()
	driver := e.registerDriver(t, "driver-1")

	_, err := e.trips.CreateTrip("nobody", models.Location{Description: "A"}, models.Location{Description: "B"}, 1000)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)

	_, err = e.trips.CreateTrip(driver, models.Location{Description: "A"}, models.Location{Description: "B"}, 1000)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)
}

func TestCreateTrip_ValidatesInput(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")

	_, err := e.trips.CreateTrip(passenger, models.Location{Description: "A"}, models.Location{Description: "B"}, -1)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)

	_, err = e.trips.CreateTrip(passenger, models.Location{}, models.Location{Description: "B"}, 1000)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)

	// A free ride is allowed: fare zero is non-negative
	trip, err := e.trips.CreateTrip(passenger, models.Location{Description: "A"}, models.Location{Description: "B"}, 0)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), trip.Fare)
}

func TestTripLifecycle_OpenAcceptComplete(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	driver := e.registerDriver(t, "driver-1")

	id := e.openTrip(t, passenger, 50000)

	trip, err := e.trips.GetTrip(id)
	assert.Nil(t, err)
	assert.Equal(t, models.TripOpen, trip.Status)
	assert.Nil(t, trip.Driver)
	assert.Nil(t, trip.AcceptedAt)
	assert.Nil(t, trip.CompletedAt)
	assert.Len(t, e.trips.OpenTrips(), 1)

	trip, err = e.trips.AcceptTrip(id, driver)
	assert.Nil(t, err)
	assert.Equal(t, models.TripAccepted, trip.Status)
	assert.NotNil(t, trip.Driver)
	assert.Equal(t, driver, *trip.Driver)
	assert.NotNil(t, trip.AcceptedAt)
	assert.Nil(t, trip.CompletedAt)
	assert.Empty(t, e.trips.OpenTrips())

	trip, err = e.trips.CompleteTrip(id, driver)
	assert.Nil(t, err)
	assert.Equal(t, models.TripCompleted, trip.Status)
	assert.NotNil(t, trip.CompletedAt)

	// Scoped listings see the trip from both sides
	assert.Len(t, e.trips.PassengerTrips(passenger), 1)
	assert.Len(t, e.trips.DriverTrips(driver), 1)
	assert.Empty(t, e.trips.DriverTrips("driver-2"))
}

func TestAcceptTrip_NotFound(t *testing.T) {
	e := newEngine()
	driver := e.registerDriver(t, "driver-1")

	_, err := e.trips.AcceptTrip(42, driver)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindNotFound, err.Kind)
}

func TestAcceptTrip_RequiresDriverAccount(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	id := e.openTrip(t, passenger, 1000)

	_, err := e.trips.AcceptTrip(id, passenger)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)

	_, err = e.trips.AcceptTrip(id, "unregistered")
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)
}

func TestAcceptTrip_AlreadyTaken(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	first := e.registerDriver(t, "driver-1")
	second := e.registerDriver(t, "driver-2")
	id := e.openTrip(t, passenger, 1000)

	_, err := e.trips.AcceptTrip(id, first)
	assert.Nil(t, err)

	_, err = e.trips.AcceptTrip(id, second)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindInvalidStateTransition, err.Kind)

	trip, getErr := e.trips.GetTrip(id)
	assert.Nil(t, getErr)
	assert.Equal(t, first, *trip.Driver)
}

func TestConcurrentAccept_ExactlyOneWins(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")

	const contenders = 16
	drivers := make([]string, contenders)
	for i := range drivers {
		drivers[i] = e.registerDriver(t, fmt.Sprintf("driver-%d", i))
	}

	id := e.openTrip(t, passenger, 9000)

	var wg sync.WaitGroup
	results := make([]*utils.AppError, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.trips.AcceptTrip(id, drivers[i])
		}(i)
	}
	wg.Wait()

	var winners int
	for i, err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.Equal(t, utils.KindInvalidStateTransition, err.Kind, "loser %d", i)
	}
	assert.Equal(t, 1, winners)

	trip, err := e.trips.GetTrip(id)
	assert.Nil(t, err)
	assert.Equal(t, models.TripAccepted, trip.Status)
	assert.NotNil(t, trip.Driver)
}

func TestCancelTrip_PassengerCancelsOpenTrip(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	driver := e.registerDriver(t, "driver-1")
	id := e.openTrip(t, passenger, 10000)

	trip, err := e.trips.CancelTrip(id, passenger)
	assert.Nil(t, err)
	assert.Equal(t, models.TripCancelled, trip.Status)

	// A cancelled trip can never be claimed
	_, err = e.trips.AcceptTrip(id, driver)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindInvalidStateTransition, err.Kind)
}

func TestCancelTrip_OnlyPassenger(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	other := e.registerPassenger(t, "passenger-2")
	id := e.openTrip(t, passenger, 1000)

	_, err := e.trips.CancelTrip(id, other)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)
}

func TestCancelTrip_AfterClaimAlwaysInvalid(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	driver := e.registerDriver(t, "driver-1")
	id := e.openTrip(t, passenger, 1000)

	_, err := e.trips.AcceptTrip(id, driver)
	assert.Nil(t, err)

	// Once a driver committed, nobody can cancel, not even the passenger
	for _, caller := range []string{passenger, driver, "someone-else"} {
		_, err := e.trips.CancelTrip(id, caller)
		assert.NotNil(t, err)
		assert.Equal(t, utils.KindInvalidStateTransition, err.Kind, "caller %s", caller)
	}

	_, err = e.trips.CompleteTrip(id, driver)
	assert.Nil(t, err)

	_, err = e.trips.CancelTrip(id, passenger)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindInvalidStateTransition, err.Kind)
}

func TestCompleteTrip_OnlyAssignedDriverAndOnlyWhenAccepted(t *testing.T) {
	e := newEngine()
	passenger := e.registerPassenger(t, "passenger-1")
	driver := e.registerDriver(t, "driver-1")
	other := e.registerDriver(t, "driver-2")
	id := e.openTrip(t, passenger, 1000)

	// Not accepted yet
	_, err := e.trips.CompleteTrip(id, driver)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindInvalidStateTransition, err.Kind)

	_, err = e.trips.AcceptTrip(id, driver)
	assert.Nil(t, err)

	_, err = e.trips.CompleteTrip(id, other)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)

	_, err = e.trips.CompleteTrip(id, driver)
	assert.Nil(t, err)

	// Completing twice fails: the trip is terminal
	_, err = e.trips.CompleteTrip(id, driver)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindInvalidStateTransition, err.Kind)
}

func TestAdminUpdateTripStatus_AdminOnly(t *testing.T) {
	e := newEngine("admin-1")
	passenger := e.registerPassenger(t, "passenger-1")
	id := e.openTrip(t, passenger, 1000)

	_, err := e.trips.AdminUpdateTripStatus(id, passenger, models.TripCancelled)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindUnauthorized, err.Kind)

	trip, err := e.trips.AdminUpdateTripStatus(id, "admin-1", models.TripCancelled)
	assert.Nil(t, err)
	assert.Equal(t, models.TripCancelled, trip.Status)
}

func TestAdminUpdateTripStatus_StructuralRules(t *testing.T) {
	e := newEngine("admin-1")
	passenger := e.registerPassenger(t, "passenger-1")
	driver := e.registerDriver(t, "driver-1")

	// A trip with no driver can never be forced to completed or accepted
	id := e.openTrip(t, passenger, 1000)
	for _, status := range []models.TripStatus{models.TripCompleted, models.TripAccepted} {
		_, err := e.trips.AdminUpdateTripStatus(id, "admin-1", status)
		assert.NotNil(t, err)
		assert.Equal(t, utils.KindInvalidStateTransition, err.Kind, "status %s", status)
	}

	// Terminal trips stay terminal with respect to open
	_, err := e.trips.AdminUpdateTripStatus(id, "admin-1", models.TripCancelled)
	assert.Nil(t, err)
	_, err = e.trips.AdminUpdateTripStatus(id, "admin-1", models.TripOpen)
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindInvalidStateTransition, err.Kind)

	// Releasing a claimed trip back to open clears the assignment
	id2 := e.openTrip(t, passenger, 2000)
	_, err = e.trips.AcceptTrip(id2, driver)
	assert.Nil(t, err)
	trip, err := e.trips.AdminUpdateTripStatus(id2, "admin-1", models.TripOpen)
	assert.Nil(t, err)
	assert.Equal(t, models.TripOpen, trip.Status)
	assert.Nil(t, trip.Driver)
	assert.Nil(t, trip.AcceptedAt)

	// Unknown status values are rejected outright
	_, err = e.trips.AdminUpdateTripStatus(id2, "admin-1", models.TripStatus("limbo"))
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)
}

func TestAdminUpdateTripStatus_RecordedAsOverride(t *testing.T) {
	e := newEngine("admin-1")
	passenger := e.registerPassenger(t, "passenger-1")
	driver := e.registerDriver(t, "driver-1")
	id := e.openTrip(t, passenger, 1000)

	_, err := e.trips.AcceptTrip(id, driver)
	assert.Nil(t, err)
	trip, err := e.trips.AdminUpdateTripStatus(id, "admin-1", models.TripCompleted)
	assert.Nil(t, err)

	assert.Len(t, trip.StatusHistory, 2)
	assert.False(t, trip.StatusHistory[0].AdminOverride)
	assert.Equal(t, driver, trip.StatusHistory[0].Actor)
	assert.True(t, trip.StatusHistory[1].AdminOverride)
	assert.Equal(t, "admin-1", trip.StatusHistory[1].Actor)
	assert.Equal(t, models.TripAccepted, trip.StatusHistory[1].From)
	assert.Equal(t, models.TripCompleted, trip.StatusHistory[1].To)
}
