// repository/trip_repository.go
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fadhlanhapp/ridefare-backend/models"
)

// TripRepository handles database operations for trips. The in-memory Store
// is authoritative during a request; rows here are written through after a
// transition commits and loaded back at startup.
type TripRepository struct {
	DB *sql.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository() *TripRepository {
	return &TripRepository{
		DB: GetDB(),
	}
}

// SaveTrip upserts a trip row
func (r *TripRepository) SaveTrip(trip *models.TripRequest) error {
	history, err := json.Marshal(trip.StatusHistory)
	if err != nil {
		return fmt.Errorf("failed to encode status history: %v", err)
	}

	_, err = r.DB.Exec(
		`INSERT INTO trips (
			id, passenger, driver,
			pickup_description, pickup_lat, pickup_lon,
			dropoff_description, dropoff_lat, dropoff_lon,
			fare, status, created_at, accepted_at, completed_at, status_history
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			driver = EXCLUDED.driver,
			status = EXCLUDED.status,
			accepted_at = EXCLUDED.accepted_at,
			completed_at = EXCLUDED.completed_at,
			status_history = EXCLUDED.status_history`,
		trip.ID, trip.Passenger, trip.Driver,
		trip.PickupLocation.Description, trip.PickupLocation.Latitude, trip.PickupLocation.Longitude,
		trip.DropoffLocation.Description, trip.DropoffLocation.Latitude, trip.DropoffLocation.Longitude,
		trip.Fare, trip.Status, trip.CreatedAt, trip.AcceptedAt, trip.CompletedAt, history,
	)
	if err != nil {
		return fmt.Errorf("failed to save trip: %v", err)
	}
	return nil
}

// LoadTrips reads every trip row, for seeding the store at startup
func (r *TripRepository) LoadTrips() ([]models.TripRequest, error) {
	rows, err := r.DB.Query(
		`SELECT id, passenger, driver,
			pickup_description, pickup_lat, pickup_lon,
			dropoff_description, dropoff_lat, dropoff_lon,
			fare, status, created_at, accepted_at, completed_at, status_history
		FROM trips ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %v", err)
	}
	defer rows.Close()

	var trips []models.TripRequest
	for rows.Next() {
		var trip models.TripRequest
		var driver sql.NullString
		var acceptedAt, completedAt sql.NullTime
		var history []byte

		err := rows.Scan(
			&trip.ID, &trip.Passenger, &driver,
			&trip.PickupLocation.Description, &trip.PickupLocation.Latitude, &trip.PickupLocation.Longitude,
			&trip.DropoffLocation.Description, &trip.DropoffLocation.Latitude, &trip.DropoffLocation.Longitude,
			&trip.Fare, &trip.Status, &trip.CreatedAt, &acceptedAt, &completedAt, &history,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %v", err)
		}

		if driver.Valid {
			trip.Driver = &driver.String
		}
		if acceptedAt.Valid {
			trip.AcceptedAt = &acceptedAt.Time
		}
		if completedAt.Valid {
			trip.CompletedAt = &completedAt.Time
		}
		if err := json.Unmarshal(history, &trip.StatusHistory); err != nil {
			return nil, fmt.Errorf("failed to decode status history: %v", err)
		}

		trips = append(trips, trip)
	}
	return trips, rows.Err()
}
