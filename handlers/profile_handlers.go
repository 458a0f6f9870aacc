// handlers/profile_handlers.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fadhlanhapp/ridefare-backend/middleware"
	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// RegisterUser creates a profile for a fresh principal and hands back the
// bearer token that identifies it from now on
func RegisterUser(c *gin.Context) {
	var request models.RegisterUserRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	principal := uuid.New().String()
	profile, err := handlerServices.ProfileService.Register(principal, request.AccountType, request.FullName, request.Phone)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	token, tokenErr := middleware.GenerateToken(principal)
	if tokenErr != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to issue token"))
		return
	}

	utils.HandleSuccess(c, models.RegisterUserResponse{
		Principal: principal,
		Token:     token,
		Profile:   profile,
	})
}

// GetCallerProfile returns the calling user's own profile
func GetCallerProfile(c *gin.Context) {
	profile, err := handlerServices.ProfileService.Get(middleware.Principal(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, profile)
}

// UpdateProfile changes the calling user's display fields
func UpdateProfile(c *gin.Context) {
	var request models.UpdateProfileRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	profile, err := handlerServices.ProfileService.Update(middleware.Principal(c), request.FullName, request.Phone)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, profile)
}

// GetUserProfile returns another user's profile, for the user themselves or
// an admin
func GetUserProfile(c *gin.Context) {
	target := c.Param("principal")
	if !handlerServices.AuthService.IsSelfOrAdmin(middleware.Principal(c), target) {
		utils.HandleError(c, utils.NewUnauthorizedError("cannot view another user's profile"))
		return
	}

	profile, err := handlerServices.ProfileService.Get(target)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, profile)
}

// GetAllDrivers lists every registered driver
func GetAllDrivers(c *gin.Context) {
	utils.HandleSuccess(c, handlerServices.ProfileService.Drivers())
}

// GetCallerRole reports the calling user's resolved role
func GetCallerRole(c *gin.Context) {
	role := handlerServices.AuthService.RoleFor(middleware.Principal(c))
	utils.HandleSuccess(c, models.CallerRoleResponse{
		Role:  role,
		Admin: role == models.RoleAdmin,
	})
}

// AssignUserRole records an explicit role for a user. Admin only.
func AssignUserRole(c *gin.Context) {
	var request models.AssignRoleRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := handlerServices.AuthService.AssignRole(middleware.Principal(c), request.User, request.Role); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, true)
}
