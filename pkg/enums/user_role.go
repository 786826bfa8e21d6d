package enums

// UserRole gates access to the admin surface.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) Valid() bool {
	return r == UserRoleCustomer || r == UserRoleAdmin
}
