package models

import "time"

// UserRole represents the role of a user. Fixed at registration.
type UserRole string

const (
	UserRoleResident             UserRole = "Resident"
	UserRoleAdministrator        UserRole = "Administrator"
	UserRoleCollectionCrewMember UserRole = "CollectionCrewMember"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleResident, UserRoleAdministrator, UserRoleCollectionCrewMember:
		return true
	}
	return false
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a registered account of any role
type User struct {
	ID            string     `json:"id" dynamodbav:"id"`
	Name          string     `json:"name" dynamodbav:"name"`
	Email         string     `json:"email" dynamodbav:"email"`
	PasswordHash  string     `json:"-" dynamodbav:"password_hash"`
	Role          UserRole   `json:"role" dynamodbav:"role"`
	Status        UserStatus `json:"status" dynamodbav:"status"`
	Address       string     `json:"address" dynamodbav:"address"`
	ContactNumber string     `json:"contactNumber,omitempty" dynamodbav:"contact_number,omitempty"`

	// Crew only
	EmployeeID string `json:"employeeId,omitempty" dynamodbav:"employee_id,omitempty"`
	Vehicle    string `json:"vehicle,omitempty" dynamodbav:"vehicle,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" dynamodbav:"last_login_at,omitempty"`
}

// Principal returns the identity view of the user
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

// Summary returns the embedded identity summary used in pickup responses
func (u *User) Summary() *PersonSummary {
	if u == nil {
		return nil
	}
	return &PersonSummary{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Address:       u.Address,
		ContactNumber: u.ContactNumber,
		Vehicle:       u.Vehicle,
	}
}

// PersonSummary is the denormalized identity embedded in API responses
type PersonSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          UserRole `json:"role"`
	Address       string   `json:"address,omitempty"`
	ContactNumber string   `json:"contactNumber,omitempty"`
	Vehicle       string   `json:"vehicle,omitempty"`
}

// RegisterResidentRequest represents the request structure for resident self-registration
// @Description Resident registration request
type RegisterResidentRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100" example:"Jane Doe"`
	Email         string `json:"email" validate:"required,email" example:"jane@example.com"`
	Password      string `json:"password" validate:"required,min=8" example:"securePassword123"`
	Address       string `json:"address" validate:"required,max=300" example:"12 Green Lane"`
	ContactNumber string `json:"contactNumber,omitempty" validate:"omitempty,max=20" example:"+94771234567"`
}

// RegisterCrewRequest represents the request structure for registering a collection crew member
// @Description Crew member registration request (administrators only)
type RegisterCrewRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100" example:"Sam Driver"`
	Email         string `json:"email" validate:"required,email" example:"sam@wastewise.example"`
	Password      string `json:"password" validate:"required,min=8" example:"securePassword123"`
	Address       string `json:"address" validate:"required,max=300" example:"Depot 4"`
	EmployeeID    string `json:"employeeId" validate:"required,max=50" example:"EMP-0042"`
	ContactNumber string `json:"contactNumber" validate:"required,max=20" example:"+94770000000"`
	Vehicle       string `json:"vehicle" validate:"required,max=50" example:"Truck WP-1234"`
}

// RegisterAdminRequest represents the request structure for registering an administrator
type RegisterAdminRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Address       string `json:"address" validate:"required,max=300"`
	ContactNumber string `json:"contactNumber,omitempty" validate:"omitempty,max=20"`
}

// UpdateUserStatusRequest changes an account status
type UpdateUserStatusRequest struct {
	Status UserStatus `json:"status" validate:"required,oneof=active inactive suspended"`
}

// UserFilter narrows user listings
type UserFilter struct {
	Role   UserRole   `json:"role,omitempty"`
	Status UserStatus `json:"status,omitempty"`
}

// Matches reports whether u passes the filter
func (f *UserFilter) Matches(u *User) bool {
	if f == nil {
		return true
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	return true
}

// CrewMember is a roster entry for the assignment dropdown
type CrewMember struct {
	*PersonSummary
	EmployeeID        string `json:"employeeId,omitempty"`
	ActiveAssignments int    `json:"activeAssignments"`
}
