package inventory

// Role is the caller's permission level. Every permission check in the
// inventory workflows switches on this single value rather than on loose
// boolean flags.
type Role int

const (
	RoleTeacher Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "Admin"
	}
	return "Teacher"
}

// RoleFromAdminFlag maps the token's admin flag to a Role.
func RoleFromAdminFlag(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleTeacher
}

// CanDelete reports whether the role may delete inventory items.
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// CanManageCategories reports whether the role may create, edit or delete
// categories.
func (r Role) CanManageCategories() bool {
	return r == RoleAdmin
}

// CanAssignOthers reports whether the role may assign items to users other
// than itself.
func (r Role) CanAssignOthers() bool {
	return r == RoleAdmin
}

// RoleContext is the caller's permission set plus scoping data: own user
// id and name, and the schools the account is restricted to. SchoolIDs is
// empty for admins, who see every school.
type RoleContext struct {
	Role      Role
	UserID    int64
	UserName  string
	SchoolIDs []int64
}

// IsAdmin is a convenience shorthand for Role == RoleAdmin.
func (rc RoleContext) IsAdmin() bool {
	return rc.Role == RoleAdmin
}
