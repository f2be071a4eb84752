// Package auth defines the roles known to workfloor and their permissions.
//
// Roles are explicit parameters on every core call; there is no ambient
// "current role" state.
package auth

// Role identifies what an actor is allowed to do.
type Role string

const (
	RoleTechnician Role = "technician"
	RoleSupervisor Role = "supervisor"
	RolePlanner    Role = "planner"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one workfloor knows about.
func (r Role) Valid() bool {
	switch r {
	case RoleTechnician, RoleSupervisor, RolePlanner, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may approve or reject submissions.
func (r Role) CanReview() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// CanPlan reports whether the role may create job orders and catalog entries.
func (r Role) CanPlan() bool {
	return r == RolePlanner || r == RoleAdmin
}

// CanAssign reports whether the role may create and assign reviewed tasks.
func (r Role) CanAssign() bool {
	return r == RoleSupervisor || r == RolePlanner || r == RoleAdmin
}

// IsAdmin reports whether the role has administrative override powers.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
