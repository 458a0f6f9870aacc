// models/models.go
package models

import "time"

// TripStatus is the lifecycle state of a trip request
type TripStatus string

const (
	TripOpen      TripStatus = "open"
	TripAccepted  TripStatus = "accepted"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// IsValid reports whether the value is a known trip status
func (s TripStatus) IsValid() bool {
	switch s {
	case TripOpen, TripAccepted, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the trip status allows no further regular transitions
func (s TripStatus) IsTerminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// PayoutStatus is the settlement state of a payout request
type PayoutStatus string

const (
	PayoutRequested PayoutStatus = "requested"
	PayoutApproved  PayoutStatus = "approved"
	PayoutRejected  PayoutStatus = "rejected"
	PayoutPaid      PayoutStatus = "paid"
)

// IsValid reports whether the value is a known payout status
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutRequested, PayoutApproved, PayoutRejected, PayoutPaid:
		return true
	}
	return false
}

// Reserves reports whether a payout in this status holds funds against the
// driver's available balance. Rejected requests release their reservation.
func (s PayoutStatus) Reserves() bool {
	return s == PayoutRequested || s == PayoutApproved || s == PayoutPaid
}

// AccountType classifies a registered user
type AccountType string

const (
	AccountDriver    AccountType = "driver"
	AccountPassenger AccountType = "passenger"
)

// IsValid reports whether the value is a known account type
func (t AccountType) IsValid() bool {
	return t == AccountDriver || t == AccountPassenger
}

// Role is the authorization role of a caller
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// IsValid reports whether the value is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleGuest
}

// Location is a pickup or dropoff point. Coordinates are optional; the
// free-text description is what drivers actually navigate by.
type Location struct {
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// StatusChange is one entry in a trip's transition history. AdminOverride
// marks changes made through the admin escape hatch so dispute-resolution
// edits stay distinguishable from caller-driven transitions.
type StatusChange struct {
	From          TripStatus `json:"from"`
	To            TripStatus `json:"to"`
	Actor         string     `json:"actor"`
	AdminOverride bool       `json:"adminOverride"`
	ChangedAt     time.Time  `json:"changedAt"`
}

// TripRequest is a passenger's pickup/dropoff job offer with a fixed fare.
// Driver is set iff status is accepted or completed; CompletedAt is set iff
// status is completed; Fare never changes after creation.
type TripRequest struct {
	ID              int64          `json:"id"`
	Passenger       string         `json:"passenger"`
	Driver          *string        `json:"driver,omitempty"`
	PickupLocation  Location       `json:"pickupLocation"`
	DropoffLocation Location       `json:"dropoffLocation"`
	Fare            int64          `json:"fare"`
	Status          TripStatus     `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	AcceptedAt      *time.Time     `json:"acceptedAt,omitempty"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	StatusHistory   []StatusChange `json:"statusHistory,omitempty"`
}

// Clone returns a deep copy safe to hand out of the store
func (t *TripRequest) Clone() TripRequest {
	c := *t
	if t.Driver != nil {
		d := *t.Driver
		c.Driver = &d
	}
	if t.AcceptedAt != nil {
		at := *t.AcceptedAt
		c.AcceptedAt = &at
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.PickupLocation = t.PickupLocation.clone()
	c.DropoffLocation = t.DropoffLocation.clone()
	c.StatusHistory = append([]StatusChange(nil), t.StatusHistory...)
	return c
}

func (l Location) clone() Location {
	c := l
	if l.Latitude != nil {
		v := *l.Latitude
		c.Latitude = &v
	}
	if l.Longitude != nil {
		v := *l.Longitude
		c.Longitude = &v
	}
	return c
}

// PayoutRequest is a driver's claim against their available balance.
// Amount is fixed at creation; paid and rejected are terminal.
type PayoutRequest struct {
	ID          int64        `json:"id"`
	Driver      string       `json:"driver"`
	Amount      int64        `json:"amount"`
	Status      PayoutStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	ProcessedAt *time.Time   `json:"processedAt,omitempty"`
}

// Clone returns a copy safe to hand out of the store
func (p *PayoutRequest) Clone() PayoutRequest {
	c := *p
	if p.ProcessedAt != nil {
		at := *p.ProcessedAt
		c.ProcessedAt = &at
	}
	return c
}

// UserProfile is registered user data consumed for authorization decisions
type UserProfile struct {
	Principal   string      `json:"principal"`
	FullName    string      `json:"fullName"`
	Phone       string      `json:"phone"`
	AccountType AccountType `json:"accountType"`
}

// NewTripRequest creates a trip in the open state
func NewTripRequest(id int64, passenger string, pickup, dropoff Location, fare int64) *TripRequest {
	return &TripRequest{
		ID:              id,
		Passenger:       passenger,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Fare:            fare,
		Status:          TripOpen,
		CreatedAt:       time.Now(),
	}
}

// NewPayoutRequest creates a payout in the requested state
func NewPayoutRequest(id int64, driver string, amount int64) *PayoutRequest {
	return &PayoutRequest{
		ID:        id,
		Driver:    driver,
		Amount:    amount,
		Status:    PayoutRequested,
		CreatedAt: time.Now(),
	}
}

// DriverBalance derives a driver's spendable balance: fares of trips they
// completed minus every payout that still reserves funds. The balance is
// never stored anywhere; callers must pass collections captured at a single
// instant or the result is meaningless.
func DriverBalance(trips []TripRequest, payouts []PayoutRequest, driver string) int64 {
	var balance int64
	for _, t := range trips {
		if t.Status == TripCompleted && t.Driver != nil && *t.Driver == driver {
			balance += t.Fare
		}
	}
	for _, p := range payouts {
		if p.Driver == driver && p.Status.Reserves() {
			balance -= p.Amount
		}
	}
	return balance
}

// DriverLifetimeEarnings sums the fares of every trip the driver completed,
// ignoring payouts
func DriverLifetimeEarnings(trips []TripRequest, driver string) int64 {
	var total int64
	for _, t := range trips {
		if t.Status == TripCompleted && t.Driver != nil && *t.Driver == driver {
			total += t.Fare
		}
	}
	return total
}
