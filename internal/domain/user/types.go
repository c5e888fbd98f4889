package user

type Role string

const (
	RoleCustomer   Role = "customer"
	RolePumpAdmin  Role = "pump_admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RolePumpAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role may operate a pump scanner.
// Grants are still checked per pump.
func (r Role) IsStaff() bool {
	return r == RolePumpAdmin || r == RoleSuperAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
