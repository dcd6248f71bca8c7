// Package permissions defines the closed role set and the capability table
// that gates every booking operation. Roles and capabilities are typed
// constants so an unknown role can never be granted anything.
package permissions

import (
	"campusroom/shared/failure"
	"slices"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLecturer Role = "lecturer"
	RoleClassRep Role = "class_rep"
	RoleStudent  Role = "student"
)

// ParseRole maps a stored role string to a typed Role. Unknown values are
// rejected rather than defaulted.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleLecturer, RoleClassRep, RoleStudent:
		return Role(value), nil
	default:
		return "", failure.Forbidden("unknown role: " + value)
	}
}

type Action string

const (
	ActionCreateBooking   Action = "booking:create"
	ActionApproveBooking  Action = "booking:approve"
	ActionRejectBooking   Action = "booking:reject"
	ActionCancelOwn       Action = "booking:cancel-own"
	ActionCancelAny       Action = "booking:cancel-any"
	ActionViewStats       Action = "booking:view-stats"
	ActionManageRooms     Action = "room:manage"
	ActionManageCourses   Action = "course:manage"
	ActionManageUsers     Action = "user:manage"
	ActionViewAllBookings Action = "booking:view-all"
)

// VisibilityScope bounds which bookings a principal may read. ScopeCourse
// covers the principal's course and their own bookings.
type VisibilityScope string

const (
	ScopeAll    VisibilityScope = "all"
	ScopeCourse VisibilityScope = "course"
	ScopeOwn    VisibilityScope = "own"
)

// capabilityTable is the single source of truth for role capabilities. It is
// deliberately a closed map: a role absent from it has no capabilities.
var capabilityTable = map[Role][]Action{
	RoleAdmin: {
		ActionCreateBooking,
		ActionApproveBooking,
		ActionRejectBooking,
		ActionCancelOwn,
		ActionCancelAny,
		ActionViewStats,
		ActionManageRooms,
		ActionManageCourses,
		ActionManageUsers,
		ActionViewAllBookings,
	},
	RoleLecturer: {
		ActionApproveBooking,
		ActionRejectBooking,
		ActionCancelOwn,
		ActionViewStats,
	},
	RoleClassRep: {
		ActionCreateBooking,
		ActionCancelOwn,
	},
	RoleStudent: {},
}

// Capabilities returns the actions granted to a role. The returned slice is a
// copy so callers cannot mutate the table.
func Capabilities(role Role) []Action {
	return slices.Clone(capabilityTable[role])
}

func Can(role Role, action Action) bool {
	return slices.Contains(capabilityTable[role], action)
}

// Visibility returns the read scope for a role: admins and lecturers see
// everything, class representatives and students see their course's bookings
// plus any booking they made themselves.
func Visibility(role Role) VisibilityScope {
	switch role {
	case RoleAdmin, RoleLecturer:
		return ScopeAll
	case RoleClassRep, RoleStudent:
		return ScopeCourse
	default:
		return ScopeOwn
	}
}

// Principal is the authenticated caller. Every service method that makes an
// authorization decision takes one explicitly; there is no ambient session.
type Principal struct {
	UserID   string
	Role     Role
	CourseID string
}

func (p Principal) Can(action Action) bool {
	return Can(p.Role, action)
}

// Require returns a Forbidden failure naming the missing capability when the
// principal lacks the action.
func (p Principal) Require(action Action) error {
	if p.Can(action) {
		return nil
	}

	return failure.Forbidden("role " + string(p.Role) + " lacks capability " + string(action))
}

func (p Principal) Visibility() VisibilityScope {
	return Visibility(p.Role)
}
