package shared

import (
	"fmt"
	"strings"
)

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleOwner    Role = "owner"
)

// Capability names an action or report a role may access.
type Capability string

const (
	CapViewCommissions  Capability = "commissions.view"
	CapViewChecks       Capability = "checks.view"
	CapViewAllEmployees Capability = "employees.view_all"
	CapViewCash         Capability = "cash.view"
	CapViewCredit       Capability = "credit.view"
	CapViewTargets      Capability = "targets.view"
	CapManageTargets    Capability = "targets.manage"
)

var capabilityTable = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapViewCommissions:  true,
		CapViewChecks:       true,
		CapViewAllEmployees: true,
		CapViewCash:         true,
		CapViewCredit:       true,
		CapViewTargets:      true,
		CapManageTargets:    true,
	},
	RoleManager: {
		CapViewCommissions:  true,
		CapViewChecks:       true,
		CapViewAllEmployees: true,
		CapViewCash:         true,
		CapViewCredit:       true,
		CapViewTargets:      true,
	},
	RoleOwner: {
		CapViewCommissions:  true,
		CapViewChecks:       true,
		CapViewAllEmployees: true,
		CapViewCash:         true,
		CapViewCredit:       true,
		CapViewTargets:      true,
	},
	RoleEmployee: {
		CapViewCash:    true,
		CapViewCredit:  true,
		CapViewTargets: true,
	},
}

// ParseRole converts raw input into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := capabilityTable[role]; !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := capabilityTable[r]
	return ok
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return capabilityTable[r][c]
}

// Principal is the authenticated actor carried by a session.
type Principal struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// Can reports whether the principal holds the capability.
func (p Principal) Can(c Capability) bool {
	return p.Role.Can(c)
}

// Require returns ErrPermissionDenied unless the principal holds c.
func (p Principal) Require(c Capability) error {
	if !p.Can(c) {
		return fmt.Errorf("%w: %s requires %s", ErrPermissionDenied, p.Role, c)
	}
	return nil
}

// ScopeEmployee returns the employee name report data must be limited to, or
// an empty string when the principal may see every employee.
func (p Principal) ScopeEmployee() string {
	if p.Can(CapViewAllEmployees) {
		return ""
	}
	return p.Name
}
