// services/auth_service.go
package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

// AuthService resolves caller identity to a role and exposes the capability
// checks every mutation goes through. Roles come from two places: an explicit
// assignment map (admins, seeded from configuration and mutated only by
// existing admins) and the profile directory (registered users).
type AuthService struct {
	mu       sync.RWMutex
	roles    map[string]models.Role
	profiles *ProfileService
	repo     *repository.ProfileRepository
	log      *logrus.Logger
}

// NewAuthService creates the authorization guard. seedAdmins is the
// out-of-band bootstrap for the first admin; repo may be nil.
func NewAuthService(profiles *ProfileService, repo *repository.ProfileRepository, seedAdmins []string, log *logrus.Logger) *AuthService {
	roles := make(map[string]models.Role)
	for _, principal := range seedAdmins {
		if principal != "" {
			roles[principal] = models.RoleAdmin
		}
	}
	return &AuthService{
		roles:    roles,
		profiles: profiles,
		repo:     repo,
		log:      log,
	}
}

// SeedRoles loads previously persisted role assignments at startup. Seeded
// admins from configuration are kept even if the database disagrees.
func (s *AuthService) SeedRoles(roles map[string]models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for principal, role := range roles {
		if s.roles[principal] == models.RoleAdmin {
			continue
		}
		s.roles[principal] = role
	}
}

// RoleFor resolves a principal to its role
func (s *AuthService) RoleFor(principal string) models.Role {
	if principal == "" {
		return models.RoleGuest
	}

	s.mu.RLock()
	role, assigned := s.roles[principal]
	s.mu.RUnlock()
	if assigned {
		return role
	}

	if _, registered := s.profiles.Lookup(principal); registered {
		return models.RoleUser
	}
	return models.RoleGuest
}

// IsAdmin reports whether the principal holds the admin role
func (s *AuthService) IsAdmin(principal string) bool {
	return s.RoleFor(principal) == models.RoleAdmin
}

// RequireAdmin fails with Unauthorized unless the principal is an admin
func (s *AuthService) RequireAdmin(principal string) *utils.AppError {
	if !s.IsAdmin(principal) {
		return utils.NewUnauthorizedError(utils.ErrAdminOnly)
	}
	return nil
}

// RequireAccountType fails with Unauthorized unless the principal is a
// registered user of the given account type
func (s *AuthService) RequireAccountType(principal string, accountType models.AccountType, message string) *utils.AppError {
	profile, ok := s.profiles.Lookup(principal)
	if !ok || profile.AccountType != accountType {
		return utils.NewUnauthorizedError(message)
	}
	return nil
}

// IsSelfOrAdmin reports whether the principal is the target or an admin
func (s *AuthService) IsSelfOrAdmin(principal, target string) bool {
	return principal == target || s.IsAdmin(principal)
}

// AssignRole records an explicit role for a user. Admin only; this is also
// how additional admins are promoted after the seeded one.
func (s *AuthService) AssignRole(caller, target string, role models.Role) *utils.AppError {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}
	if err := utils.ValidateRequired(target, "user"); err != nil {
		return err
	}
	if !role.IsValid() {
		return utils.NewValidationError("role must be admin, user or guest")
	}

	s.mu.Lock()
	s.roles[target] = role
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveRole(target, role); err != nil {
			s.log.WithError(err).WithField("principal", target).Error("failed to persist role")
		}
	}

	s.log.WithFields(logrus.Fields{
		"actor": caller,
		"user":  target,
		"role":  role,
	}).Info("role assigned")
	return nil
}
