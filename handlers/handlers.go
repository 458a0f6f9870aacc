package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/ridefare-backend/services"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// HandlerServices contains all service dependencies
type HandlerServices struct {
	AuthService    *services.AuthService
	ProfileService *services.ProfileService
	TripService    *services.TripService
	LedgerService  *services.LedgerService
	PayoutService  *services.PayoutService
	ExportService  *services.ExportService
}

var handlerServices *HandlerServices

// InitHandlers initializes the handler services
func InitHandlers(hs *HandlerServices) {
	handlerServices = hs
}

// idParam parses the numeric id path parameter
func idParam(c *gin.Context) (int64, *utils.AppError) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("id must be a number")
	}
	return id, nil
}
