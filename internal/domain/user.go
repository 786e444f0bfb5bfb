package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role is the closed set of account roles. Every user carries exactly one.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleHost         Role = "host"
	RoleReceptionist Role = "receptionist"
	RoleSecurity     Role = "security"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleHost, RoleReceptionist, RoleSecurity:
		return Role(s), true
	default:
		return "", false
	}
}

// Actor identifies who is performing an operation. It is resolved once
// at the request boundary from the session token and passed explicitly
// into every status-changing operation; the services keep no notion of
// a logged-in user.
type Actor struct {
	UserID int64
	Role   Role
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.TrimSpace(r.Role)
}

func (r *CreateUserRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" || r.Role == "" {
		return ErrMissingRequiredField
	}
	if !isValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	if len(r.Password) < 8 {
		return ErrWeakPassword
	}
	role, ok := ParseRole(r.Role)
	if !ok {
		return ErrInvalidRole
	}
	// Hosts must belong to a department; nobody else may.
	if role == RoleHost && r.DepartmentID == nil {
		return ErrMissingRequiredField
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return ErrMissingRequiredField
	}
	return nil
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        *UserInfo `json:"user"`
}

type UserInfo struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
