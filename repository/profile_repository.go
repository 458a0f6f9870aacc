// repository/profile_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/fadhlanhapp/ridefare-backend/models"
)

// ProfileRepository handles database operations for user profiles and role
// assignments
type ProfileRepository struct {
	DB *sql.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		DB: GetDB(),
	}
}

// SaveProfile upserts a profile row
func (r *ProfileRepository) SaveProfile(profile *models.UserProfile) error {
	_, err := r.DB.Exec(
		`INSERT INTO profiles (principal, full_name, phone, account_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (principal) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			account_type = EXCLUDED.account_type`,
		profile.Principal, profile.FullName, profile.Phone, profile.AccountType,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}
	return nil
}

// LoadProfiles reads every profile row
func (r *ProfileRepository) LoadProfiles() ([]models.UserProfile, error) {
	rows, err := r.DB.Query(`SELECT principal, full_name, phone, account_type FROM profiles`)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %v", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var profile models.UserProfile
		if err := rows.Scan(&profile.Principal, &profile.FullName, &profile.Phone, &profile.AccountType); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %v", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// SaveRole upserts a role assignment row
func (r *ProfileRepository) SaveRole(principal string, role models.Role) error {
	_, err := r.DB.Exec(
		`INSERT INTO user_roles (principal, role) VALUES ($1, $2)
		ON CONFLICT (principal) DO UPDATE SET role = EXCLUDED.role`,
		principal, role,
	)
	if err != nil {
		return fmt.Errorf("failed to save role: %v", err)
	}
	return nil
}

// LoadRoles reads every role assignment row
func (r *ProfileRepository) LoadRoles() (map[string]models.Role, error) {
	rows, err := r.DB.Query(`SELECT principal, role FROM user_roles`)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %v", err)
	}
	defer rows.Close()

	roles := make(map[string]models.Role)
	for rows.Next() {
		var principal string
		var role models.Role
		if err := rows.Scan(&principal, &role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %v", err)
		}
		roles[principal] = role
	}
	return roles, rows.Err()
}
