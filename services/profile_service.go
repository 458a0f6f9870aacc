// services/profile_service.go
package services

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// ProfileService owns the registered-user directory. The engine consumes it
// for authorization decisions; it holds no trip or payout state.
type ProfileService struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
	repo     *repository.ProfileRepository
	log      *logrus.Logger
}

// NewProfileService creates a profile service. repo may be nil when running
// without a database.
func NewProfileService(repo *repository.ProfileRepository, log *logrus.Logger) *ProfileService {
	return &ProfileService{
		profiles: make(map[string]models.UserProfile),
		repo:     repo,
		log:      log,
	}
}

// Seed loads previously persisted profiles at startup
func (s *ProfileService) Seed(profiles []models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.profiles[p.Principal] = p
	}
}

// Register creates the profile for a new principal
func (s *ProfileService) Register(principal string, accountType models.AccountType, fullName, phone string) (models.UserProfile, *utils.AppError) {
	if !accountType.IsValid() {
		return models.UserProfile{}, utils.NewValidationError("accountType must be driver or passenger")
	}
	if err := utils.ValidateRequired(fullName, "fullName"); err != nil {
		return models.UserProfile{}, err
	}
	if err := utils.ValidateRequired(phone, "phone"); err != nil {
		return models.UserProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[principal]; exists {
		return models.UserProfile{}, utils.NewValidationError("user is already registered")
	}

	profile := models.UserProfile{
		Principal:   principal,
		FullName:    fullName,
		Phone:       phone,
		AccountType: accountType,
	}
	s.profiles[principal] = profile
	s.persist(profile)

	s.log.WithFields(logrus.Fields{
		"principal":    principal,
		"account_type": accountType,
	}).Info("user registered")

	return profile, nil
}

// Get returns the profile for a principal, or NotFound
func (s *ProfileService) Get(principal string) (models.UserProfile, *utils.AppError) {
	profile, ok := s.Lookup(principal)
	if !ok {
		return models.UserProfile{}, utils.NewNotFoundError(utils.ErrProfileNotFound)
	}
	return profile, nil
}

// Lookup returns the profile for a principal if one exists
func (s *ProfileService) Lookup(principal string) (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[principal]
	return profile, ok
}

// Update changes the caller's display fields. Account type is fixed at
// registration; switching sides would rewrite the meaning of past trips.
func (s *ProfileService) Update(principal, fullName, phone string) (models.UserProfile, *utils.AppError) {
	if err := utils.ValidateRequired(fullName, "fullName"); err != nil {
		return models.UserProfile{}, err
	}
	if err := utils.ValidateRequired(phone, "phone"); err != nil {
		return models.UserProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[principal]
	if !ok {
		return models.UserProfile{}, utils.NewNotFoundError(utils.ErrProfileNotFound)
	}

	profile.FullName = fullName
	profile.Phone = phone
	s.profiles[principal] = profile
	s.persist(profile)
	return profile, nil
}

// Drivers returns every registered driver profile, sorted by name
func (s *ProfileService) Drivers() []models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drivers := []models.UserProfile{}
	for _, p := range s.profiles {
		if p.AccountType == models.AccountDriver {
			drivers = append(drivers, p)
		}
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].FullName < drivers[j].FullName })
	return drivers
}

func (s *ProfileService) persist(profile models.UserProfile) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveProfile(&profile); err != nil {
		s.log.WithError(err).WithField("principal", profile.Principal).Error("failed to persist profile")
	}
}
