package domain

// BootstrapAdminID identifies the configured bootstrap admin, which has no
// database row.
const BootstrapAdminID int64 = 0

// Subject is the authenticated caller: identity plus effective role set.
// The role set is derived from active role assignments; the primary role is
// the cached column on the user row.
type Subject struct {
	ID          int64
	Name        string
	Email       string
	PrimaryRole RoleName
	Roles       []RoleName
}

// HasRole reports whether the subject carries the given role.
func (s Subject) HasRole(role RoleName) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is a convenience for the unrestricted operator check.
func (s Subject) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// IsBootstrap reports whether the subject is the configured bootstrap admin.
func (s Subject) IsBootstrap() bool {
	return s.ID == BootstrapAdminID
}

// BootstrapAdmin builds the subject honored for the configured credential
// pair before any database lookup.
func BootstrapAdmin(email string) Subject {
	return Subject{
		ID:          BootstrapAdminID,
		Name:        "Administrator",
		Email:       NormalizeEmail(email),
		PrimaryRole: RoleAdmin,
		Roles:       []RoleName{RoleAdmin},
	}
}
