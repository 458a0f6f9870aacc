// handlers/trip_handlers.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/ridefare-backend/middleware"
	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// CreateTrip handles the creation of a new trip request
func CreateTrip(c *gin.Context) {
	var request models.CreateTripRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	trip, err := handlerServices.TripService.CreateTrip(middleware.Principal(c), request.Pickup, request.Dropoff, request.Fare)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.CreateTripResponse{TripID: trip.ID})
}

// GetOpenTrips lists every trip still open for acceptance
func GetOpenTrips(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.TripService.OpenTrips())
}

// GetTrip returns a single trip by id
func GetTrip(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	trip, err := handlerServices.TripService.GetTrip(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}

// GetDriverTrips lists trips assigned to a driver
func GetDriverTrips(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.TripService.DriverTrips(c.Param("principal")))
}

// GetPassengerTrips lists trips created by a passenger
func GetPassengerTrips(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.TripService.PassengerTrips(c.Param("principal")))
}

// AcceptTrip claims an open trip for the calling driver
func AcceptTrip(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	trip, err := handlerServices.TripService.AcceptTrip(id, middleware.Principal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}

// CancelTrip withdraws an open trip
func CancelTrip(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	trip, err := handlerServices.TripService.CancelTrip(id, middleware.Principal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}

// CompleteTrip finishes an accepted trip
func CompleteTrip(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	trip, err := handlerServices.TripService.CompleteTrip(id, middleware.Principal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}

// AdminUpdateTripStatus is the admin dispute-resolution path
func AdminUpdateTripStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var request models.UpdateTripStatusRequest
	if bindErr := c.ShouldBindJSON(&request); bindErr != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	trip, err := handlerServices.TripService.AdminUpdateTripStatus(id, middleware.Principal(c), request.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}
