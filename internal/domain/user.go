package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCurator Role = "curator"
	RoleDean    Role = "dean"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
)

// SignableRoles are the slot names that may be filled through the remote
// signing flow. Slot names double as role names by convention.
var SignableRoles = map[string]bool{
	string(RoleAdmin):   true,
	string(RoleCurator): true,
	string(RoleDean):    true,
}

type User struct {
	ID        string
	FullName  string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

type Group struct {
	ID        string
	Name      string
	CuratorID string
	CreatedAt time.Time
}
