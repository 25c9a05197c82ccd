package guard

import (
	"fmt"
	"strings"
)

// Role is a privilege level. Roles are totally ordered by Rank.
type Role string

const (
	RoleMerchant   Role = "merchant"
	RoleTechnician Role = "technician"
	RoleManager    Role = "manager"
)

var roleRank = map[Role]int{
	RoleMerchant:   1,
	RoleTechnician: 2,
	RoleManager:    3,
}

// Roles lists every known role from least to most privileged.
func Roles() []Role {
	return []Role{RoleMerchant, RoleTechnician, RoleManager}
}

// ParseRole normalizes s and checks it against the known roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Rank returns 0 for unknown or empty roles.
func (r Role) Rank() int {
	return roleRank[r]
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Covers reports whether r may see content tagged for required.
// Content tagged with an unknown role is visible to everyone.
func (r Role) Covers(required Role) bool {
	return r.Rank() >= required.Rank()
}

func (r Role) String() string {
	return string(r)
}

func hasRole(role Role, required []Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
