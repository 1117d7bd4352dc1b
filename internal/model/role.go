package model

import "strings"

// Role is the closed set of caller classes used for authorization.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleWarehouseOperator Role = "warehouse-operator"
	RoleAuditor           Role = "auditor"
	RoleCustoms           Role = "customs"

	// legacy spelling of the warehouse operator role
	roleGudangAlias = "gudang"
)

// AllRoles lists every role in declaration order.
var AllRoles = []Role{RoleAdmin, RoleWarehouseOperator, RoleAuditor, RoleCustoms}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWarehouseOperator, RoleAuditor, RoleCustoms:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes s into a Role. An empty string yields the default
// warehouse operator role.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return RoleWarehouseOperator, true
	case roleGudangAlias:
		return RoleWarehouseOperator, true
	}
	r := Role(s)
	return r, r.Valid()
}

// RoleIn reports whether r is one of allowed.
func RoleIn(r Role, allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
