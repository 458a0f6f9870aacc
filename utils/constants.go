package utils

const (
	// HTTP status messages
	ErrInvalidRequest  = "Invalid request"
	ErrTripNotFound    = "Trip"
	ErrPayoutNotFound  = "Payout request"
	ErrProfileNotFound = "User profile"

	// Authorization messages
	ErrAdminOnly         = "admin role required"
	ErrDriverOnly        = "registered driver account required"
	ErrPassengerOnly     = "registered passenger account required"
	ErrNotTripPassenger  = "only the trip's passenger may do this"
	ErrNotAssignedDriver = "only the trip's assigned driver may do this"
)
