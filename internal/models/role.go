package models

import "strings"

type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleStudent
	RoleEventCoordinator
	RoleDepartmentCoordinator
	RoleInstituteCoordinator
)

var roleNames = map[Role]string{
	RoleAdmin:                 "Admin",
	RoleStudent:               "Student",
	RoleEventCoordinator:      "Event Coordinator",
	RoleDepartmentCoordinator: "Department Coordinator",
	RoleInstituteCoordinator:  "Institute Coordinator",
}

// ParseRole maps a stored role name to a Role. Matching ignores case and
// surrounding whitespace; anything unrecognised is RoleUnknown.
func ParseRole(s string) Role {
	s = strings.TrimSpace(s)
	for r, name := range roleNames {
		if strings.EqualFold(s, name) {
			return r
		}
	}
	return RoleUnknown
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// IsRegistrantEligible reports whether the role may register for events.
func (r Role) IsRegistrantEligible() bool {
	return r == RoleStudent
}

func (r Role) IsCoordinator() bool {
	switch r {
	case RoleEventCoordinator, RoleDepartmentCoordinator, RoleInstituteCoordinator:
		return true
	}
	return false
}

// CanManageRegistrations reports whether the role may list other users'
// registrations for an event.
func (r Role) CanManageRegistrations() bool {
	return r == RoleAdmin || r.IsCoordinator()
}
