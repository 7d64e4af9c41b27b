package model

import "time"

const (
	// RoleUser is the default role of a registered account.
	RoleUser = "USER"
	// RoleGuide is the role of tour guides.
	RoleGuide = "GUIDE"
	// RoleManager is the role of venue managers.
	RoleManager = "MANAGER"
	// RoleAdmin is the role of administrators.
	RoleAdmin = "ADMIN"
)

const (
	// StatusActive marks an account that can log in.
	StatusActive = "ACTIVE"
	// StatusDeactivated marks an account that is kept but can no longer log in.
	StatusDeactivated = "DEACTIVATED"
)

// A User represents a database record.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email    string `json:"email"  msgpack:"email" storm:"unique"`
	Name     string `json:"name"   msgpack:"name"`
	Password string `json:"-"      msgpack:"password"`
	Role     string `json:"role"   msgpack:"role"  storm:"index"`
	Status   string `json:"status" msgpack:"status"`

	DeactivatedAt *time.Time `json:"deactivated_at,omitempty" msgpack:"deactivated_at"`
}

// NewUser returns a new user with default params.
func NewUser() *User {
	return &User{
		Role:   RoleUser,
		Status: StatusActive,
	}
}

// Roles returns the list of roles granted to the user.
// A user carries a single role but credentials convey a list.
func (u *User) Roles() []string {
	if u.Role == "" {
		return []string{RoleUser}
	}
	return []string{u.Role}
}
