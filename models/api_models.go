// models/api_models.go
package models

// RegisterUserRequest request model
type RegisterUserRequest struct {
	AccountType AccountType `json:"accountType" binding:"required"`
	FullName    string      `json:"fullName" binding:"required"`
	Phone       string      `json:"phone" binding:"required"`
}

// RegisterUserResponse response model
type RegisterUserResponse struct {
	Principal string      `json:"principal"`
	Token     string      `json:"token"`
	Profile   UserProfile `json:"profile"`
}

// UpdateProfileRequest request model
type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// AssignRoleRequest request model
type AssignRoleRequest struct {
	User string `json:"user" binding:"required"`
	Role Role   `json:"role" binding:"required"`
}

// CallerRoleResponse response model
type CallerRoleResponse struct {
	Role  Role `json:"role"`
	Admin bool `json:"admin"`
}

// CreateTripRequest request model
type CreateTripRequest struct {
	Pickup  Location `json:"pickup" binding:"required"`
	Dropoff Location `json:"dropoff" binding:"required"`
	Fare    int64    `json:"fare" binding:"min=0"`
}

// CreateTripResponse response model
type CreateTripResponse struct {
	TripID int64 `json:"tripId"`
}

// UpdateTripStatusRequest request model
type UpdateTripStatusRequest struct {
	Status TripStatus `json:"status" binding:"required"`
}

// RequestPayoutRequest request model
type RequestPayoutRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// RequestPayoutResponse response model
type RequestPayoutResponse struct {
	PayoutID int64 `json:"payoutId"`
}

// UpdatePayoutStatusRequest request model
type UpdatePayoutStatusRequest struct {
	Status PayoutStatus `json:"status" binding:"required"`
}

// DriverEarningsResponse response model
type DriverEarningsResponse struct {
	TotalEarned      int64 `json:"totalEarned"`
	AvailableBalance int64 `json:"availableBalance"`
}
