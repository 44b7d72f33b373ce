package role

// Role is the access level of the acting user.
type Role int

const (
	Customer Role = iota // sees and manages only own requests
	Admin                // may transition requests, set pricing, grant roles
)

const AdminRoleName = "admin"

func (r Role) String() string {
	if r == Admin {
		return AdminRoleName
	}
	return "customer"
}

// FromName maps a role name from the user_roles table to a Role.
func FromName(name string) Role {
	if name == AdminRoleName {
		return Admin
	}
	return Customer
}
