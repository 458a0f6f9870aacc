// handlers/payout_handlers.go
package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/ridefare-backend/middleware"
	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// GetDriverEarnings returns the calling driver's lifetime and available totals
func GetDriverEarnings(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.LedgerService.DriverEarnings(middleware.Principal(c)))
}

// RequestPayout reserves part of the calling driver's available balance
func RequestPayout(c *gin.Context) {
	var request models.RequestPayoutRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payout, err := handlerServices.PayoutService.RequestPayout(middleware.Principal(c), request.Amount)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.RequestPayoutResponse{PayoutID: payout.ID})
}

// GetPayoutHistory lists the caller's payout requests; admins may pass
// ?driver= to inspect one driver or omit it to see everything
func GetPayoutHistory(c *gin.Context) {
	history := handlerServices.PayoutService.PayoutHistory(middleware.Principal(c), c.Query("driver"))
	utils.HandleSuccess(c, history)
}

// GetPendingPayouts lists every request awaiting an admin decision
func GetPendingPayouts(c *gin.Context) {
	pending, err := handlerServices.PayoutService.PendingPayouts(middleware.Principal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, pending)
}

// UpdatePayoutStatus applies an admin settlement decision
func UpdatePayoutStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var request models.UpdatePayoutStatusRequest
	if bindErr := c.ShouldBindJSON(&request); bindErr != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payout, err := handlerServices.PayoutService.UpdatePayoutStatus(id, middleware.Principal(c), request.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payout)
}

// ExportPayoutStatement streams the earnings and payout workbook. Admin only.
func ExportPayoutStatement(c *gin.Context) {
	if err := handlerServices.AuthService.RequireAdmin(middleware.Principal(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	excelFile, filename, err := handlerServices.ExportService.BuildPayoutStatement()
	if err != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to build payout statement"))
		return
	}

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := excelFile.Write(c.Writer); err != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to write Excel file"))
		return
	}
}
