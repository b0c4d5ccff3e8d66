package model

import "strings"

// Role is the dashboard shell a viewer logged into.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHead     Role = "head"
	RoleAdmin    Role = "admin"
)

var Roles = []Role{RoleEmployee, RoleHead, RoleAdmin}

// ParseRole accepts the role key or its label, case-insensitively.
func ParseRole(s string) (Role, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles {
		if v == string(r) || v == strings.ToLower(r.Label()) {
			return r, true
		}
	}
	return "", false
}

func (r Role) Label() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleHead:
		return "Project Head"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}
