package entities

import "strings"

// Role is the side of the job an actor acts for.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
	// RoleSystem is used by internal callers (quote acceptance, sweeps).
	RoleSystem Role = "system"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleMechanic:
		return RoleMechanic, true
	case RoleSystem:
		return RoleSystem, true
	}
	return "", false
}

// Actor is the authenticated caller of a command, supplied by the identity
// collaborator.
type Actor struct {
	UserID string
	Role   Role
}
